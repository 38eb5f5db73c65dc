package model

// Marker представляет маркер обнаруженного объекта в базе данных.
// Геометрия хранится в колонках PostGIS, в Go-коде она представлена
// EWKT-строками. projection_path — естественный ключ маркера: повторная
// загрузка того же корпуса метаданных не создает дубликатов
type Marker struct {
	ID                  uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Label               string   `gorm:"type:text;not null;index:idx_markers_label" json:"label"`
	Score               float64  `gorm:"not null" json:"score"`
	Geom                string   `gorm:"type:geometry(Point,4326);not null" json:"geom"`
	BoundingBox         *string  `gorm:"type:geometry(Polygon,4326)" json:"bounding_box,omitempty"`
	ProjectionPath      string   `gorm:"type:text;uniqueIndex:idx_markers_projection_path" json:"projection_path"`
	DetectionPath       string   `gorm:"type:text" json:"detection_path"`
	CropPath            string   `gorm:"type:text" json:"crop_path"`
	DepthPath           string   `gorm:"type:text" json:"depth_path"`
	SourcePath          string   `gorm:"type:text" json:"source_path"`
	GpsImgDirection     *float64 `gorm:"column:gps_img_direction" json:"gps_img_direction,omitempty"`
	ObjectDepth         *float64 `json:"object_depth,omitempty"`
	ObjectRelativeAngle *float64 `json:"object_relative_angle,omitempty"`
}

// TableName указывает имя таблицы для Marker
func (Marker) TableName() string {
	return "markers"
}
