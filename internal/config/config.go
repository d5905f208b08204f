package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds the settings of the person service. They are taken from the environment, which
// may be filled from a .env file in the working directory.
type Config struct {
	Port       int
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	GinLogging bool
	LogLevel   string
}

// Load reads the configuration. Variables that are already set take precedence over the .env
// file. PORT is only checked if requirePort is set.
func Load(requirePort bool) (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		DBHost:     os.Getenv("DBHOST"),
		DBUser:     os.Getenv("DBUSER"),
		DBPassword: os.Getenv("DBPWD"),
		DBName:     getenv("DBNAME", "test"),
		GinLogging: !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}
	if requirePort {
		port, err := strconv.Atoi(os.Getenv("PORT"))
		if err != nil {
			return Config{}, fmt.Errorf("could not parse PORT env variable: %w", err)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// DSN returns the MySQL data source name for the configured database.
func (c Config) DSN() string {
	m := mysql.NewConfig()
	m.User = c.DBUser
	m.Passwd = c.DBPassword
	m.Net = "tcp"
	m.Addr = c.DBHost
	m.DBName = c.DBName
	m.ParseTime = true
	return m.FormatDSN()
}

func getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
