package main

import (
	"context"
	"flag"
	"time"

	"geo-marker-go/internal/config"
	"geo-marker-go/internal/database"
	"geo-marker-go/internal/repository"
	"geo-marker-go/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	rebuild := flag.Bool("rebuild", false, "пересоздать таблицу маркеров вместо дозаписи (удаляет все существующие записи)")
	metadataDir := flag.String("dir", "", "папка с файлами метаданных (по умолчанию METADATA_DIR)")
	flag.Parse()

	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загружаем конфигурацию
	cfg := config.LoadConfig()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	dir := *metadataDir
	if dir == "" {
		dir = cfg.Ingest.MetadataDir
	}

	logger.Infof("Запуск загрузки метаданных из %s (rebuild=%v)", dir, *rebuild)

	// Подключаемся к базе данных
	db, err := database.ConnectWithRetry(database.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		Database:       cfg.Database.Name,
		Username:       cfg.Database.User,
		Password:       cfg.Database.Password,
		SSLMode:        cfg.Database.SSLMode,
		ConnectTimeout: time.Duration(cfg.Database.ConnectTimeout) * time.Second,
	}, 3, 2*time.Second)
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer database.Close(db)

	// Готовим схему; при rebuild таблица будет пересоздана сервисом
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Загрузка — единый пакетный проход, таймаут на запись здесь не нужен
	markerRepo := repository.NewMarkerRepository(db, 0)
	ingestService := service.NewIngestService(markerRepo, logger)

	result, err := ingestService.Run(context.Background(), dir, *rebuild)
	if err != nil {
		logger.Fatalf("Ошибка загрузки метаданных: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"run_id":          result.RunID,
		"files":           result.Files,
		"bad_files":       result.BadFiles,
		"assembled":       result.AssembledCount,
		"skipped_objects": result.SkippedObjects,
		"inserted":        result.InsertedCount,
		"duplicates":      result.DuplicateCount,
	}).Info("Загрузка метаданных завершена")
}
