package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		UI
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Database struct {
		Driver   Driver
		Hostname string
		Port     int
		Username string
		Password string
		Name     string
		Path     string // sqlite database file
		Testing  bool
	}

	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool
		AdminPassword   string // empty means generate and log one
	}

	UI struct {
		TemplatesPath string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// DSN builds the connection string for the configured driver.
func (d Database) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path + "?_foreign_keys=on"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Hostname, d.Port, d.Username, d.Password, d.Name)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("templates_path", "./templates")

	v.SetDefault("database_driver", string(DriverPostgres))
	v.SetDefault("database_hostname", "localhost")
	v.SetDefault("database_user", "vapor")
	v.SetDefault("database_password", "password")
	v.SetDefault("database_db", DefaultDatabaseName)
	v.SetDefault("database_port", DefaultDatabasePort)
	v.SetDefault("database_path", DefaultSQLitePath)
	v.SetDefault("testing", false)

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("admin_password", "")

	database := Database{
		Driver:   Driver(v.GetString("DATABASE_DRIVER")),
		Hostname: v.GetString("DATABASE_HOSTNAME"),
		Port:     v.GetInt("DATABASE_PORT"),
		Username: v.GetString("DATABASE_USER"),
		Password: v.GetString("DATABASE_PASSWORD"),
		Name:     v.GetString("DATABASE_DB"),
		Path:     v.GetString("DATABASE_PATH"),
		Testing:  v.GetBool("TESTING"),
	}

	// Testing mode targets a separate database so test runs cannot touch
	// production data. An explicit DATABASE_PORT still wins.
	if database.Testing {
		database.Name = TestingDatabaseName
		if !v.IsSet("DATABASE_PORT") {
			database.Port = TestingDatabasePort
		}
	}

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: database,
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
