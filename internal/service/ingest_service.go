package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geo-marker-go/internal/ingest"
	"geo-marker-go/internal/model"
	"geo-marker-go/internal/repository"
)

// IngestService сервис пакетной загрузки метаданных в хранилище маркеров
type IngestService struct {
	markerRepo repository.MarkerRepository
	logger     *logrus.Logger
}

// NewIngestService создает новый сервис загрузки метаданных
func NewIngestService(markerRepo repository.MarkerRepository, logger *logrus.Logger) *IngestService {
	return &IngestService{
		markerRepo: markerRepo,
		logger:     logger,
	}
}

// Run выполняет один проход загрузки: находит файлы метаданных, собирает
// маркеры и вставляет их одним пакетом. Ошибки отдельных файлов и объектов
// считаются и логируются, но не прерывают загрузку; недоступность хранилища
// фатальна для всего запуска. При rebuild таблица маркеров пересоздается
// с нуля вместо дозаписи
func (s *IngestService) Run(ctx context.Context, metadataDir string, rebuild bool) (*IngestResult, error) {
	result := &IngestResult{RunID: uuid.New().String()}
	log := s.logger.WithField("run_id", result.RunID)

	log.Infof("Ищем файлы метаданных в %s", metadataDir)
	files, unreadable, err := ingest.FindMetadataFiles(metadataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find metadata files: %w", err)
	}
	result.Files = len(files)
	result.BadFiles += unreadable
	if unreadable > 0 {
		log.Warnf("Пропущено недоступных записей при обходе: %d", unreadable)
	}
	log.Infof("Найдено %d файлов метаданных", len(files))

	var markers []*model.Marker
	for _, path := range files {
		docs, err := ingest.ReadMetadataFile(path)
		if err != nil {
			// Нечитаемый файл пропускаем, загрузка остальных продолжается
			result.BadFiles++
			log.Warnf("Пропускаем файл %s: %v", path, err)
			continue
		}

		for _, doc := range docs {
			for _, obj := range doc.Objects {
				marker, err := ingest.Assemble(doc.Source, obj)
				if err != nil {
					result.SkippedObjects++
					log.Debugf("Пропускаем объект из %s: %v", path, err)
					continue
				}
				markers = append(markers, marker)
			}
		}
	}
	result.AssembledCount = len(markers)
	log.Infof("Собрано %d маркеров, пропущено объектов: %d, нечитаемых файлов: %d",
		result.AssembledCount, result.SkippedObjects, result.BadFiles)

	if rebuild {
		log.Warn("Пересоздаем таблицу маркеров (все существующие записи будут удалены)")
		if err := s.markerRepo.Rebuild(ctx, markers); err != nil {
			log.Errorf("Ошибка пересоздания таблицы маркеров: %v", err)
			return nil, fmt.Errorf("failed to rebuild marker store: %w", err)
		}
		result.InsertedCount = len(markers)
	} else {
		inserted, skipped, err := s.markerRepo.UpsertBatch(ctx, markers)
		if err != nil {
			log.Errorf("Ошибка вставки маркеров: %v", err)
			return nil, fmt.Errorf("failed to upsert markers: %w", err)
		}
		result.InsertedCount = inserted
		result.DuplicateCount = skipped
	}

	log.Infof("Загрузка завершена: вставлено %d, дубликатов %d", result.InsertedCount, result.DuplicateCount)
	return result, nil
}
