package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port int
		Host string
	}
	Database struct {
		Host           string
		Port           string
		Name           string
		User           string
		Password       string
		SSLMode        string
		ConnectTimeout int // в секундах
		QueryTimeout   int // в секундах
	}
	Images struct {
		Dir         string
		StripPrefix string // Имя подпапки, которую клиенты дублируют в путях
	}
	Ingest struct {
		MetadataDir string
	}
	Logging struct {
		Level string
	}
	Environment string
}

// LoadConfig загружает конфигурацию из .env файла и переменных окружения
func LoadConfig() *Config {
	// .env опционален, переменные окружения имеют приоритет
	_ = godotenv.Load()

	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Конфигурация базы данных
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.Name = getEnv("DB_NAME", "geodb")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.Database.ConnectTimeout = getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)
	cfg.Database.QueryTimeout = getEnvInt("DB_QUERY_TIMEOUT_SECONDS", 30)

	// Конфигурация изображений
	cfg.Images.Dir = getEnv("IMAGES_DIR", "./images")
	cfg.Images.StripPrefix = getEnv("IMAGES_STRIP_PREFIX", "")

	// Конфигурация загрузки метаданных
	cfg.Ingest.MetadataDir = getEnv("METADATA_DIR", "./metadata")

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	cfg.Environment = getEnv("ENVIRONMENT", "development")

	return cfg
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
