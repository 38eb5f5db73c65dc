package models

// DMSAngle угол в формате градусы/минуты/секунды из метаданных пайплайна.
// Компоненты приходят как произвольные JSON-значения: пайплайн пишет числа,
// но встречаются и строки, поэтому разбор откладывается до сборки маркера
type DMSAngle struct {
	Degrees interface{} `json:"degrees"`
	Minutes interface{} `json:"minutes"`
	Seconds interface{} `json:"seconds"`
}

// ComputedLocation вычисленная GPS-позиция обнаруженного объекта
type ComputedLocation struct {
	GPSLatitude     DMSAngle `json:"GPSLatitude"`
	GPSLongitude    DMSAngle `json:"GPSLongitude"`
	GPSLatitudeRef  string   `json:"GPSLatitudeRef"`
	GPSLongitudeRef string   `json:"GPSLongitudeRef"`
}

// BoundingBox рамка объекта в пиксельных координатах исходного изображения
type BoundingBox struct {
	XMin interface{} `json:"xmin"`
	YMin interface{} `json:"ymin"`
	XMax interface{} `json:"xmax"`
	YMax interface{} `json:"ymax"`
}

// SourceImage описание исходной панорамы из файла метаданных
type SourceImage struct {
	Path            string   `json:"path"`
	GPSImgDirection *float64 `json:"GPSImgDirection,omitempty"`
}

// DetectedObject один обнаруженный объект из файла метаданных
type DetectedObject struct {
	Label            string           `json:"label"` // Категория объекта
	Score            float64          `json:"score"` // Уверенность детектора, 0..1
	ComputedLocation ComputedLocation `json:"computed_location"`
	BoundingBox      *BoundingBox     `json:"bounding_box,omitempty"`
	Depth            *float64         `json:"depth,omitempty"`          // Оценка глубины в метрах
	RelativeAngle    *float64         `json:"relative_angle,omitempty"` // Угол относительно камеры
	ProjectionPath   string           `json:"projection_path"`
	DetectionPath    string           `json:"detection_path"`
	CropPath         string           `json:"crop_path"`
	DepthPath        string           `json:"depth_path"`
}

// MetadataFile один JSON-документ из файла *_metadata.json
type MetadataFile struct {
	Source  SourceImage      `json:"source"`
	Objects []DetectedObject `json:"objects"`
}
