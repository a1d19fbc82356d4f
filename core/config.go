package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		AppName  string
		Build    string

		SecretKey          []byte
		FrontendBaseURL    string
		DefaultFromName    string
		DefaultFromAddress string
		SendgridApiKey     string
		RollbarToken       string

		Server    ServerConfig
		Session   SessionConfig
		Redis     RedisConfig
		Database  DatabaseConfig
		Directory DirectoryConfig
	}

	ServerConfig struct {
		Host               string
		APIAddress         string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// SessionConfig bounds the fixed login window. The window is measured
	// from the persisted start timestamp and never renews on activity.
	SessionConfig struct {
		Duration         time.Duration
		WarningThreshold time.Duration
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// DirectoryConfig points at the legacy institutional identity API.
	DirectoryConfig struct {
		Enabled bool
		BaseURL string
		Timeout time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddress}
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "InventarioYavirac")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "y4v-9wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:4200")
	v.SetDefault("defaultFromName", "Inventario Yavirac")
	v.SetDefault("defaultFromEmail", "noreply@yavirac.edu.ec")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("apiAddress", ":8080")
	v.SetDefault("debugHost", "localhost:6060")
	v.SetDefault("shutdownTimeout", 20*time.Second)
	v.SetDefault("jwtExpirationDelta", 30*time.Minute)
	v.SetDefault("sessionDuration", 30*time.Minute)
	v.SetDefault("sessionWarningThreshold", 5*time.Minute)
	v.SetDefault("redisAddress", "localhost:6379")
	v.SetDefault("redisDB", 0)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "inventario")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("directoryEnabled", false)
	v.SetDefault("directoryBaseURL", "")
	v.SetDefault("directoryTimeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:              v.GetBool("debug"),
		TestMode:           env == "TEST",
		Env:                env,
		AppName:            v.GetString("appName"),
		Build:              v.GetString("build"),
		SecretKey:          []byte(v.GetString("secretKey")),
		FrontendBaseURL:    v.GetString("frontendBaseURL"),
		DefaultFromName:    v.GetString("defaultFromName"),
		DefaultFromAddress: v.GetString("defaultFromEmail"),
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			APIAddress:         v.GetString("apiAddress"),
			DebugHost:          v.GetString("debugHost"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Session: SessionConfig{
			Duration:         v.GetDuration("sessionDuration"),
			WarningThreshold: v.GetDuration("sessionWarningThreshold"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redisAddress"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Directory: DirectoryConfig{
			Enabled: v.GetBool("directoryEnabled"),
			BaseURL: v.GetString("directoryBaseURL"),
			Timeout: v.GetDuration("directoryTimeout"),
		},
	}
}
