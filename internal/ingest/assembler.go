package ingest

import (
	"fmt"
	"strings"

	"geo-marker-go/internal/geo"
	"geo-marker-go/internal/model"
	"geo-marker-go/pkg/models"
)

// Assemble собирает каноническую запись маркера из одного обнаруженного
// объекта и его исходного изображения. Ошибка означает, что объект нужно
// пропустить; остальная часть пакета загружается дальше
func Assemble(source models.SourceImage, obj models.DetectedObject) (*model.Marker, error) {
	location := obj.ComputedLocation

	lat, err := geo.DMSAngleToDecimal(location.GPSLatitude, refOrDefault(location.GPSLatitudeRef, "N"))
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}

	lon, err := geo.DMSAngleToDecimal(location.GPSLongitude, refOrDefault(location.GPSLongitudeRef, "E"))
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}

	if !geo.ValidLatLon(lat, lon) {
		return nil, fmt.Errorf("%w: lat=%v lon=%v out of range", geo.ErrInvalidCoordinate, lat, lon)
	}

	label := strings.TrimSpace(obj.Label)
	if label == "" {
		label = "Unknown"
	}

	detectionPath := obj.DetectionPath
	if detectionPath == "" {
		detectionPath = obj.ProjectionPath
	}

	marker := &model.Marker{
		Label:               label,
		Score:               obj.Score,
		Geom:                geo.PointEWKT(lon, lat),
		ProjectionPath:      obj.ProjectionPath,
		DetectionPath:       detectionPath,
		CropPath:            obj.CropPath,
		DepthPath:           obj.DepthPath,
		SourcePath:          source.Path,
		GpsImgDirection:     source.GPSImgDirection,
		ObjectDepth:         obj.Depth,
		ObjectRelativeAngle: obj.RelativeAngle,
	}

	if obj.BoundingBox != nil {
		polygon := geo.BoundingPolygonEWKT(
			geo.NumberOrNil(obj.BoundingBox.XMin),
			geo.NumberOrNil(obj.BoundingBox.YMin),
			geo.NumberOrNil(obj.BoundingBox.XMax),
			geo.NumberOrNil(obj.BoundingBox.YMax),
		)
		if polygon != "" {
			marker.BoundingBox = &polygon
		}
	}

	return marker, nil
}

// refOrDefault возвращает обозначение полушария или значение по умолчанию
func refOrDefault(ref, defaultRef string) string {
	if ref == "" {
		return defaultRef
	}
	return ref
}
