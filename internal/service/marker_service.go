package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"geo-marker-go/internal/geo"
	"geo-marker-go/internal/repository"
)

// ErrInvalidBounds ошибка разбора параметров охватывающего прямоугольника
var ErrInvalidBounds = errors.New("missing or invalid bounding box parameters")

// MarkerService сервис пространственных запросов к маркерам
type MarkerService struct {
	markerRepo repository.MarkerRepository
	logger     *logrus.Logger
}

// NewMarkerService создает новый сервис для работы с маркерами
func NewMarkerService(markerRepo repository.MarkerRepository, logger *logrus.Logger) *MarkerService {
	return &MarkerService{
		markerRepo: markerRepo,
		logger:     logger,
	}
}

// GetMarkers возвращает маркеры, пересекающие заданную область, с
// опциональной фильтрацией по категориям
func (s *MarkerService) GetMarkers(ctx context.Context, bounds BoundsParams, categoriesRaw string) ([]MarkerResponse, error) {
	env, err := ParseBounds(bounds)
	if err != nil {
		return nil, err
	}
	categories := ParseCategories(categoriesRaw)

	rows, err := s.markerRepo.GetByBoundingBox(ctx, env, categories)
	if err != nil {
		s.logger.Errorf("Ошибка запроса маркеров по области: %v", err)
		return nil, fmt.Errorf("failed to get markers: %w", err)
	}

	responses := make([]MarkerResponse, len(rows))
	for i, row := range rows {
		responses[i] = rowToResponse(row)
	}

	s.logger.Infof("Найдено %d маркеров в области", len(responses))
	return responses, nil
}

// GetClusters возвращает кластеры маркеров в заданной области. Фильтрация по
// области и категориям выполняется до кластеризации
func (s *MarkerService) GetClusters(ctx context.Context, bounds BoundsParams, distanceRaw, categoriesRaw string) ([]ClusterResponse, error) {
	env, err := ParseBounds(bounds)
	if err != nil {
		return nil, err
	}
	categories := ParseCategories(categoriesRaw)

	distance := geo.DefaultClusterDistance
	if distanceRaw != "" {
		distance, err = strconv.ParseFloat(distanceRaw, 64)
		if err != nil || distance < 0 {
			return nil, fmt.Errorf("%w: cluster_distance", ErrInvalidBounds)
		}
	}

	points, err := s.markerRepo.GetPointsInEnvelope(ctx, env, categories)
	if err != nil {
		s.logger.Errorf("Ошибка запроса точек для кластеризации: %v", err)
		return nil, fmt.Errorf("failed to get points for clustering: %w", err)
	}

	clusters := geo.ClusterPoints(points, distance)

	responses := make([]ClusterResponse, len(clusters))
	for i, cluster := range clusters {
		responses[i] = ClusterResponse{
			Geom:         geo.PointGeoJSON(cluster.Centroid.Lon, cluster.Centroid.Lat),
			ClusterCount: cluster.Count,
		}
	}

	s.logger.Infof("Сгруппировано %d точек в %d кластеров", len(points), len(responses))
	return responses, nil
}

// GetCategories возвращает все различные категории маркеров
func (s *MarkerService) GetCategories(ctx context.Context) ([]string, error) {
	labels, err := s.markerRepo.GetDistinctCategories(ctx)
	if err != nil {
		s.logger.Errorf("Ошибка запроса категорий: %v", err)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// GetSample возвращает диагностическую выборку маркеров с геометрией в WKT
func (s *MarkerService) GetSample(ctx context.Context, limit int) ([]MarkerResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.markerRepo.GetSample(ctx, limit)
	if err != nil {
		s.logger.Errorf("Ошибка запроса выборки маркеров: %v", err)
		return nil, fmt.Errorf("failed to get markers sample: %w", err)
	}

	responses := make([]MarkerResponse, len(rows))
	for i, row := range rows {
		responses[i] = rowToResponse(row)
	}
	return responses, nil
}

// CheckHealth проверяет доступность хранилища маркеров
func (s *MarkerService) CheckHealth(ctx context.Context) error {
	return s.markerRepo.Ping(ctx)
}

// ParseBounds разбирает и проверяет границы области. Все четыре значения
// обязательны и должны быть числами; категории, в отличие от границ,
// опциональны
func ParseBounds(bounds BoundsParams) (geo.Envelope, error) {
	minLat, err := parseBound("minlat", bounds.MinLat)
	if err != nil {
		return geo.Envelope{}, err
	}
	minLon, err := parseBound("minlon", bounds.MinLon)
	if err != nil {
		return geo.Envelope{}, err
	}
	maxLat, err := parseBound("maxlat", bounds.MaxLat)
	if err != nil {
		return geo.Envelope{}, err
	}
	maxLon, err := parseBound("maxlon", bounds.MaxLon)
	if err != nil {
		return geo.Envelope{}, err
	}

	return geo.EnvelopeFromLatLon(minLat, minLon, maxLat, maxLon), nil
}

func parseBound(name, raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidBounds, name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidBounds, name)
	}
	return value, nil
}

// ParseCategories разбирает список категорий, разделенных запятыми.
// Пробелы по краям обрезаются, пустые элементы отбрасываются, регистр
// сохраняется (фильтрация по категориям чувствительна к регистру)
func ParseCategories(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}

	if len(categories) == 0 {
		return nil
	}
	return categories
}

// rowToResponse преобразует строку хранилища в ответ API
func rowToResponse(row repository.MarkerRow) MarkerResponse {
	return MarkerResponse{
		ID:                  row.ID,
		Label:               row.Label,
		Score:               row.Score,
		Geom:                row.Geom,
		BoundingBox:         row.BoundingBox,
		ProjectionPath:      row.ProjectionPath,
		DetectionPath:       row.DetectionPath,
		CropPath:            row.CropPath,
		DepthPath:           row.DepthPath,
		SourcePath:          row.SourcePath,
		GpsImgDirection:     row.GpsImgDirection,
		ObjectDepth:         row.ObjectDepth,
		ObjectRelativeAngle: row.ObjectRelativeAngle,
	}
}
