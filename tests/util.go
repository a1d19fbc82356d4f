package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/usuario"
)

// Logger collects log lines in memory; tests assert on Warnings/Errors.
type Logger struct {
	mu       sync.Mutex
	Debugs   []string
	Infos    []string
	Warnings []string
	Errors   []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) record(dst *[]string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.record(&l.Debugs, msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.record(&l.Infos, msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.record(&l.Warnings, msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.record(&l.Errors, msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { panic(fmt.Sprintf("fatal: %s", msg)) }

func (l *Logger) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warnings)
}

func CreateUsuario(
	t *testing.T,
	repo usuario.Repository,
	nombre, cedula, email, pwd string,
	idRol int,
	estado bool,
) usuario.Usuario {
	t.Helper()
	usr := usuario.Usuario{
		Nombre:        nombre,
		Cedula:        cedula,
		Email:         email,
		Estado:        estado,
		IDRol:         idRol,
		FechaRegistro: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUsuario() failed: %v", err)
		}
	}
	usr, err := repo.CreateUsuario(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUsuario() failed: %v", err)
	}
	return usr
}
