package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geo-marker-go/internal/repository"
	"geo-marker-go/internal/resolver"
	"geo-marker-go/internal/service"
)

// MarkerHandler обрабатывает HTTP запросы для работы с маркерами
type MarkerHandler struct {
	markerService *service.MarkerService
	images        resolver.ImageResolver
	logger        *logrus.Logger
}

// NewMarkerHandler создает новый экземпляр MarkerHandler
func NewMarkerHandler(markerService *service.MarkerService, images resolver.ImageResolver, logger *logrus.Logger) *MarkerHandler {
	return &MarkerHandler{
		markerService: markerService,
		images:        images,
		logger:        logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *MarkerHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/markers", h.GetMarkers)
	router.GET("/markers_clustered", h.GetClusteredMarkers)
	router.GET("/categories", h.GetCategories)
	router.GET("/markers_sample", h.GetMarkersSample)
	router.GET("/image/*path", h.GetImage)
	router.GET("/health", h.CheckHealth)
}

// GetMarkers возвращает маркеры, пересекающие область minlat/minlon/maxlat/maxlon,
// с опциональным фильтром categories (список через запятую)
func (h *MarkerHandler) GetMarkers(c *gin.Context) {
	bounds := boundsFromQuery(c)
	categories := c.Query("categories")

	markers, err := h.markerService.GetMarkers(c.Request.Context(), bounds, categories)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, markers)
}

// GetClusteredMarkers возвращает кластеры маркеров в области. Порог
// кластеризации задается параметром cluster_distance в градусах
func (h *MarkerHandler) GetClusteredMarkers(c *gin.Context) {
	bounds := boundsFromQuery(c)
	distance := c.Query("cluster_distance")
	categories := c.Query("categories")

	clusters, err := h.markerService.GetClusters(c.Request.Context(), bounds, distance, categories)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, clusters)
}

// GetCategories возвращает список всех категорий маркеров
func (h *MarkerHandler) GetCategories(c *gin.Context) {
	categories, err := h.markerService.GetCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetMarkersSample возвращает диагностическую выборку маркеров (геометрия в WKT)
func (h *MarkerHandler) GetMarkersSample(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	markers, err := h.markerService.GetSample(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, markers)
}

// GetImage отдает изображение по логическому пути из маркера
func (h *MarkerHandler) GetImage(c *gin.Context) {
	logicalPath := c.Param("path")

	stream, contentType, size, err := h.images.Resolve(logicalPath)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Изображение не найдено"})
			return
		}
		h.logger.Errorf("Ошибка чтения изображения %s: %v", logicalPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка чтения изображения"})
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, size, contentType, stream, nil)
}

// CheckHealth проверяет состояние сервиса и хранилища
func (h *MarkerHandler) CheckHealth(c *gin.Context) {
	if err := h.markerService.CheckHealth(c.Request.Context()); err != nil {
		h.logger.Errorf("Хранилище маркеров недоступно: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Хранилище маркеров недоступно",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// boundsFromQuery собирает сырые параметры области из строки запроса
func boundsFromQuery(c *gin.Context) service.BoundsParams {
	return service.BoundsParams{
		MinLat: c.Query("minlat"),
		MinLon: c.Query("minlon"),
		MaxLat: c.Query("maxlat"),
		MaxLon: c.Query("maxlon"),
	}
}

// respondError преобразует ошибку сервиса в HTTP-ответ. Пустой результат
// фильтрации — это успешный пустой список, сюда попадают только настоящие
// ошибки
func (h *MarkerHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidBounds):
		h.logger.Warnf("Неверные параметры запроса: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Отсутствуют или неверны параметры области запроса"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		h.logger.Errorf("Хранилище маркеров недоступно: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Хранилище маркеров недоступно"})
	default:
		h.logger.Errorf("Ошибка обработки запроса: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}
