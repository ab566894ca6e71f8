package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/locvowork/lazysheet/internal/database"
	"github.com/locvowork/lazysheet/internal/logger"
	"github.com/locvowork/lazysheet/pkg/lazysheet"
)

// EnvConfig is the process configuration read from the environment.
type EnvConfig struct {
	AppPort string

	LogFilePath string
	LogLevel    string

	// Workbook export settings.
	ExportTableStyle   string
	ExportMaxAutoWidth float64

	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBConnMaxLifetime time.Duration
	DBMaxIdleConns    int
	DBMaxOpenConns    int
}

// LoadEnvConfig loads the given dotenv files (".env" when none are named)
// into the environment and reads the configuration. Missing files are
// skipped; variables already set in the environment win.
func LoadEnvConfig(files ...string) (*EnvConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return &EnvConfig{
		AppPort:            getEnvString("APP_PORT", "8080"),
		LogFilePath:        getEnvString("LOG_FILE_PATH", ""),
		LogLevel:           getEnvString("LOG_LEVEL", "info"),
		ExportTableStyle:   getEnvString("EXPORT_TABLE_STYLE", lazysheet.DefaultTableStyle),
		ExportMaxAutoWidth: getEnvFloat("EXPORT_MAX_AUTO_WIDTH", lazysheet.DefaultMaxAutoWidth),
		DBHost:             getEnvString("DB_HOST", "localhost"),
		DBPort:             getEnvInt("DB_PORT", 5432),
		DBUser:             getEnvString("DB_USER", "postgres"),
		DBPassword:         getEnvString("DB_PASSWORD", "postgres"),
		DBName:             getEnvString("DB_NAME", "postgres"),
		DBSSLMode:          getEnvString("DB_SSL_MODE", "disable"),
		DBConnMaxLifetime:  getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DBMaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 100),
	}, nil
}

// Logger returns the logging settings.
func (c *EnvConfig) Logger() logger.Config {
	return logger.Config{FilePath: c.LogFilePath, Level: c.LogLevel}
}

// Database returns the connection pool settings.
func (c *EnvConfig) Database() database.Config {
	return database.Config{
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		DBName:          c.DBName,
		SSLMode:         c.DBSSLMode,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// WorkbookOptions maps the export settings onto workbook options.
func (c *EnvConfig) WorkbookOptions() []lazysheet.Option {
	return []lazysheet.Option{
		lazysheet.WithTableStyle(c.ExportTableStyle),
		lazysheet.WithMaxAutoWidth(c.ExportMaxAutoWidth),
	}
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
