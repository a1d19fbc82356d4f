package core

// Logger is the application-wide logging contract.
// Implementations may inspect args for a usuario.Usuario to attach
// the offending account to error reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
