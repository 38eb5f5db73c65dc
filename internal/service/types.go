package service

// BoundsParams сырые параметры охватывающего прямоугольника из запроса.
// Все четыре границы обязательны, в порядке (lat, lon)
type BoundsParams struct {
	MinLat string
	MinLon string
	MaxLat string
	MaxLon string
}

// MarkerResponse маркер в ответе API, геометрия сериализована как GeoJSON
// (или WKT для диагностического запроса)
type MarkerResponse struct {
	ID                  uint     `json:"id"`
	Label               string   `json:"label"`
	Score               float64  `json:"score"`
	Geom                string   `json:"geom"`
	BoundingBox         *string  `json:"bounding_box,omitempty"`
	ProjectionPath      string   `json:"projection_path"`
	DetectionPath       string   `json:"detection_path"`
	CropPath            string   `json:"crop_path,omitempty"`
	DepthPath           string   `json:"depth_path,omitempty"`
	SourcePath          string   `json:"source_path,omitempty"`
	GpsImgDirection     *float64 `json:"gps_img_direction,omitempty"`
	ObjectDepth         *float64 `json:"object_depth,omitempty"`
	ObjectRelativeAngle *float64 `json:"object_relative_angle,omitempty"`
}

// ClusterResponse кластер маркеров: центроид в GeoJSON и размер группы
type ClusterResponse struct {
	Geom         string `json:"geom"`
	ClusterCount int    `json:"cluster_count"`
}

// IngestResult итог одного запуска загрузки метаданных
type IngestResult struct {
	RunID          string `json:"run_id"`
	Files          int    `json:"files"`
	BadFiles       int    `json:"bad_files"`
	AssembledCount int    `json:"assembled_count"`
	SkippedObjects int    `json:"skipped_objects"`
	InsertedCount  int    `json:"inserted_count"`
	DuplicateCount int    `json:"duplicate_count"`
}
