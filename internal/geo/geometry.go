package geo

import (
	"fmt"
	"strconv"
)

// Point точка в географических координатах WGS84
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Envelope прямоугольная область в порядке осей (lon, lat), как в геометрии
type Envelope struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// EnvelopeFromLatLon строит охватывающий прямоугольник из параметров запроса.
// Параметры HTTP-запроса приходят в порядке (lat, lon), геометрия всегда
// хранится в порядке (lon, lat); это единственное место, где порядок осей
// меняется
func EnvelopeFromLatLon(minLat, minLon, maxLat, maxLon float64) Envelope {
	return Envelope{
		MinLon: minLon,
		MinLat: minLat,
		MaxLon: maxLon,
		MaxLat: maxLat,
	}
}

// ValidLatLon проверяет, что координаты лежат в допустимых пределах WGS84
func ValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// PointEWKT строит EWKT-представление точки с SRID 4326
func PointEWKT(lon, lat float64) string {
	return fmt.Sprintf("SRID=4326;POINT(%s %s)", formatCoord(lon), formatCoord(lat))
}

// BoundingPolygonEWKT строит замкнутый прямоугольный полигон рамки объекта
// с SRID 4326. Если хотя бы одна из границ отсутствует, возвращает пустую
// строку (рамка опциональна и ее отсутствие не является ошибкой)
func BoundingPolygonEWKT(xmin, ymin, xmax, ymax *float64) string {
	if xmin == nil || ymin == nil || xmax == nil || ymax == nil {
		return ""
	}
	x0 := formatCoord(*xmin)
	y0 := formatCoord(*ymin)
	x1 := formatCoord(*xmax)
	y1 := formatCoord(*ymax)
	return fmt.Sprintf("SRID=4326;POLYGON((%s %s, %s %s, %s %s, %s %s, %s %s))",
		x0, y0, x1, y0, x1, y1, x0, y1, x0, y0)
}

// PointGeoJSON строит GeoJSON-представление точки
func PointGeoJSON(lon, lat float64) string {
	return fmt.Sprintf(`{"type":"Point","coordinates":[%s,%s]}`, formatCoord(lon), formatCoord(lat))
}

// formatCoord форматирует координату без потери точности
func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
