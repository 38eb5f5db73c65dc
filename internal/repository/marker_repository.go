package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"geo-marker-go/internal/geo"
	"geo-marker-go/internal/model"
)

// ErrStoreUnavailable ошибка недоступности базы данных (соединение или таймаут)
var ErrStoreUnavailable = errors.New("marker store unavailable")

// upsertBatchSize размер пакета при массовой вставке маркеров
const upsertBatchSize = 500

// MarkerRow строка результата пространственного запроса. Геометрия
// сериализована на стороне базы: GeoJSON для API, WKT для диагностики
type MarkerRow struct {
	ID                  uint     `json:"id"`
	Label               string   `json:"label"`
	Score               float64  `json:"score"`
	Geom                string   `json:"geom"`
	BoundingBox         *string  `json:"bounding_box"`
	ProjectionPath      string   `json:"projection_path"`
	DetectionPath       string   `json:"detection_path"`
	CropPath            string   `json:"crop_path"`
	DepthPath           string   `json:"depth_path"`
	SourcePath          string   `json:"source_path"`
	GpsImgDirection     *float64 `json:"gps_img_direction"`
	ObjectDepth         *float64 `json:"object_depth"`
	ObjectRelativeAngle *float64 `json:"object_relative_angle"`
}

// MarkerRepository интерфейс для работы с хранилищем маркеров
type MarkerRepository interface {
	UpsertBatch(ctx context.Context, markers []*model.Marker) (inserted, skipped int, err error)
	Rebuild(ctx context.Context, markers []*model.Marker) error
	GetByBoundingBox(ctx context.Context, env geo.Envelope, categories []string) ([]MarkerRow, error)
	GetPointsInEnvelope(ctx context.Context, env geo.Envelope, categories []string) ([]geo.Point, error)
	GetDistinctCategories(ctx context.Context) ([]string, error)
	GetSample(ctx context.Context, limit int) ([]MarkerRow, error)
	Ping(ctx context.Context) error
}

// markerRepository реализация MarkerRepository поверх PostGIS
type markerRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewMarkerRepository создает новый instance MarkerRepository
func NewMarkerRepository(db *gorm.DB, queryTimeout time.Duration) MarkerRepository {
	return &markerRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

// UpsertBatch вставляет пакет маркеров. Маркеры с уже существующим
// projection_path пропускаются, а не обновляются (первая запись побеждает)
func (r *markerRepository) UpsertBatch(ctx context.Context, markers []*model.Marker) (int, int, error) {
	if len(markers) == 0 {
		return 0, 0, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "projection_path"}},
		DoNothing: true,
	}).CreateInBatches(markers, upsertBatchSize)
	if result.Error != nil {
		return 0, 0, r.wrapErr("upsert markers", result.Error)
	}

	inserted := int(result.RowsAffected)
	return inserted, len(markers) - inserted, nil
}

// Rebuild полностью пересоздает таблицу маркеров и ее индексы, затем
// вставляет пакет. Дубликаты projection_path отбрасываются до вставки:
// старая таблица к этому моменту уже удалена, и конфликт уникального
// индекса оставил бы хранилище пустым. Операция разрушительна и
// необратима, вызывается только по явному запросу
func (r *markerRepository) Rebuild(ctx context.Context, markers []*model.Marker) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)

	if err := db.Migrator().DropTable(&model.Marker{}); err != nil {
		return r.wrapErr("drop markers table", err)
	}

	if err := db.AutoMigrate(&model.Marker{}); err != nil {
		return r.wrapErr("recreate markers table", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_markers_geom ON markers USING GIST (geom)").Error; err != nil {
		return r.wrapErr("recreate spatial index", err)
	}

	unique := dedupeByProjectionPath(markers)
	if len(unique) == 0 {
		return nil
	}

	if err := db.CreateInBatches(unique, upsertBatchSize).Error; err != nil {
		return r.wrapErr("bulk insert markers", err)
	}

	return nil
}

// dedupeByProjectionPath оставляет первый маркер для каждого projection_path,
// сохраняя исходный порядок. Та же семантика "первая запись побеждает",
// что и у UpsertBatch
func dedupeByProjectionPath(markers []*model.Marker) []*model.Marker {
	seen := make(map[string]struct{}, len(markers))
	unique := make([]*model.Marker, 0, len(markers))
	for _, m := range markers {
		if _, ok := seen[m.ProjectionPath]; ok {
			continue
		}
		seen[m.ProjectionPath] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}

// GetByBoundingBox возвращает маркеры, чья точка пересекает охватывающий
// прямоугольник. Числовые границы заранее проверены как float и передаются
// параметрами; категории всегда передаются только параметрами
func (r *markerRepository) GetByBoundingBox(ctx context.Context, env geo.Envelope, categories []string) ([]MarkerRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT id, label, score,
		ST_AsGeoJSON(geom) AS geom,
		ST_AsGeoJSON(bounding_box) AS bounding_box,
		projection_path, detection_path, crop_path, depth_path, source_path,
		gps_img_direction, object_depth, object_relative_angle
		FROM markers
		WHERE geom && ST_MakeEnvelope(?, ?, ?, ?, 4326)`
	args := []interface{}{env.MinLon, env.MinLat, env.MaxLon, env.MaxLat}

	if len(categories) > 0 {
		query += " AND label IN ?"
		args = append(args, categories)
	}

	var rows []MarkerRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, r.wrapErr("query markers by bounding box", err)
	}

	return rows, nil
}

// GetPointsInEnvelope возвращает координаты точек внутри области для
// последующей кластеризации. Кластеризация работает только по этому
// отфильтрованному набору, а не по всей таблице
func (r *markerRepository) GetPointsInEnvelope(ctx context.Context, env geo.Envelope, categories []string) ([]geo.Point, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ST_X(geom) AS lon, ST_Y(geom) AS lat
		FROM markers
		WHERE geom && ST_MakeEnvelope(?, ?, ?, ?, 4326)`
	args := []interface{}{env.MinLon, env.MinLat, env.MaxLon, env.MaxLat}

	if len(categories) > 0 {
		query += " AND label IN ?"
		args = append(args, categories)
	}

	var points []geo.Point
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&points).Error; err != nil {
		return nil, r.wrapErr("query points in envelope", err)
	}

	return points, nil
}

// GetDistinctCategories возвращает все различные метки в лексикографическом порядке
func (r *markerRepository) GetDistinctCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var labels []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT label FROM markers ORDER BY label").
		Scan(&labels).Error
	if err != nil {
		return nil, r.wrapErr("query distinct categories", err)
	}

	return labels, nil
}

// GetSample возвращает первые limit маркеров по возрастанию id с геометрией
// в WKT. Используется только для диагностики
func (r *markerRepository) GetSample(ctx context.Context, limit int) ([]MarkerRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []MarkerRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, label, score,
			ST_AsText(geom) AS geom,
			ST_AsText(bounding_box) AS bounding_box,
			projection_path, detection_path, crop_path, depth_path, source_path,
			gps_img_direction, object_depth, object_relative_angle
			FROM markers ORDER BY id LIMIT ?`, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, r.wrapErr("query markers sample", err)
	}

	return rows, nil
}

// Ping проверяет доступность базы данных
func (r *markerRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return r.wrapErr("get database instance", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return r.wrapErr("ping database", err)
	}

	return nil
}

// withTimeout ограничивает время выполнения запроса: медленная база должна
// быстро вернуть ошибку, а не подвешивать вызывающего
func (r *markerRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// wrapErr помечает ошибки соединения и таймаута как недоступность хранилища
func (r *markerRepository) wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
