package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Tray     TrayConfig
	History  HistoryConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

type TrayConfig struct {
	// Backend selects the host tray implementation: "dbus" or "memory".
	Backend string
	AppName string
	AppIcon string
}

type HistoryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load creates a new Config from environment variables
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8085"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Path:        getEnv("DATABASE_PATH", "tray-service.db"),
			BusyTimeout: getDurationEnv("DATABASE_BUSY_TIMEOUT", 5*time.Second),
		},
		Tray: TrayConfig{
			Backend: getEnv("TRAY_BACKEND", "dbus"),
			AppName: getEnv("TRAY_APP_NAME", "tray-service"),
			AppIcon: getEnv("TRAY_APP_ICON", ""),
		},
		History: HistoryConfig{
			DefaultLimit: getIntEnv("HISTORY_DEFAULT_LIMIT", 50),
			MaxLimit:     getIntEnv("HISTORY_MAX_LIMIT", 500),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
