package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"geo-marker-go/internal/model"
)

// Config конфигурация подключения к базе данных
type Config struct {
	Host           string
	Port           string
	Database       string
	Username       string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// Connect подключается к базе данных PostgreSQL и возвращает соединение.
// Глобального состояния нет: соединение передается явно всем компонентам
func Connect(cfg Config) (*gorm.DB, error) {
	connectTimeout := int(cfg.ConnectTimeout.Seconds())
	if connectTimeout <= 0 {
		connectTimeout = 10
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode, connectTimeout,
	)

	// Настройка логгера GORM
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настройка пула соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// ConnectWithRetry подключается к базе данных с повторными попытками
func ConnectWithRetry(cfg Config, attempts int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := Connect(cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempts, lastErr)
}

// Migrate включает расширение PostGIS, выполняет миграции и создает индексы
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("failed to enable postgis extension: %w", err)
	}

	if err := db.AutoMigrate(&model.Marker{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Пространственный индекс GORM создать не может, создаем напрямую
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_markers_geom ON markers USING GIST (geom)").Error; err != nil {
		return fmt.Errorf("failed to create spatial index: %w", err)
	}

	return nil
}

// HealthCheck проверяет состояние подключения к базе данных
func HealthCheck(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// Close закрывает соединение с базой данных
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
