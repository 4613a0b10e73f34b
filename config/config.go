/*
Package config loads server configuration from the environment.

A .env file in the working directory is loaded first when present, so
local development doesn't need exported shell variables. Real
environment variables always win over the file.

Variables:

	PORT       HTTP listen port          (default: 8080)
	DB_PATH    SQLite database file      (default: promoter.db)
	LOG_LEVEL  debug, info, warn, error  (default: info; read by logging)
*/
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the server settings resolved from the environment.
type Config struct {
	Port   string
	DBPath string
}

// Load reads the optional .env file and resolves the configuration.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
	return Config{
		Port:   getenv("PORT", "8080"),
		DBPath: getenv("DB_PATH", "promoter.db"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
