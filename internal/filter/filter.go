package filter

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"

	"geo-marker-go/internal/ingest"
	"geo-marker-go/pkg/models"
)

// Options параметры фильтрации корпуса метаданных
type Options struct {
	MetadataDir string   // Исходная папка с метаданными и производными изображениями
	RawDir      string   // Папка с исходными панорамами
	OutputDir   string   // Папка для отфильтрованного корпуса
	Labels      []string // Метки, которые нужно оставить (без учета регистра)
	ResizeWidth int      // Ширина, до которой сжимается исходное изображение
}

// Result итог фильтрации
type Result struct {
	FilesKept    int
	FilesSkipped int
	ObjectsKept  int
	ImagesCopied int
	ImageErrors  int
}

// Run фильтрует корпус метаданных: оставляет только объекты с нужными
// метками, переписывает пути исходных изображений относительно RawDir,
// копирует производные изображения и сжимает исходные панорамы. Хранилище
// маркеров этот инструмент не трогает — он только отбирает и упаковывает
// файлы для последующей загрузки
func Run(opts Options, logger *logrus.Logger) (*Result, error) {
	if opts.ResizeWidth <= 0 {
		opts.ResizeWidth = 1000
	}

	keep := labelSet(opts.Labels)
	if len(keep) == 0 {
		return nil, fmt.Errorf("no labels to keep")
	}

	files, unreadable, err := ingest.FindMetadataFiles(opts.MetadataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find metadata files: %w", err)
	}
	if unreadable > 0 {
		logger.Warnf("Пропущено недоступных записей при обходе: %d", unreadable)
	}
	logger.Infof("Найдено %d файлов метаданных в %s", len(files), opts.MetadataDir)

	result := &Result{}
	for _, path := range files {
		docs, err := ingest.ReadMetadataFile(path)
		if err != nil {
			result.FilesSkipped++
			logger.Warnf("Пропускаем файл %s: %v", path, err)
			continue
		}

		kept := make([]models.MetadataFile, 0, len(docs))
		for _, doc := range docs {
			filtered := FilterObjects(doc.Objects, keep)
			if len(filtered) == 0 {
				continue
			}
			doc.Objects = filtered
			doc.Source.Path = relativePath(doc.Source.Path, opts.RawDir)
			kept = append(kept, doc)
			result.ObjectsKept += len(filtered)
		}

		if len(kept) == 0 {
			result.FilesSkipped++
			continue
		}

		if err := writeFilteredFile(path, kept, opts, result, logger); err != nil {
			result.FilesSkipped++
			logger.Warnf("Ошибка записи отфильтрованного файла для %s: %v", path, err)
			continue
		}
		result.FilesKept++
	}

	logger.Infof("Фильтрация завершена: оставлено файлов %d, пропущено %d, объектов %d, скопировано изображений %d",
		result.FilesKept, result.FilesSkipped, result.ObjectsKept, result.ImagesCopied)
	return result, nil
}

// FilterObjects оставляет только объекты с метками из набора keep.
// Сравнение меток без учета регистра
func FilterObjects(objects []models.DetectedObject, keep map[string]struct{}) []models.DetectedObject {
	filtered := make([]models.DetectedObject, 0, len(objects))
	for _, obj := range objects {
		if _, ok := keep[strings.ToLower(strings.TrimSpace(obj.Label))]; ok {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}

// labelSet строит набор меток в нижнем регистре
func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if trimmed := strings.ToLower(strings.TrimSpace(label)); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// writeFilteredFile записывает отфильтрованные метаданные и переносит
// связанные изображения в выходную папку
func writeFilteredFile(srcPath string, docs []models.MetadataFile, opts Options, result *Result, logger *logrus.Logger) error {
	dstPath := filepath.Join(opts.OutputDir, relativePath(srcPath, opts.MetadataDir))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode filtered metadata: %w", err)
		}

		for _, obj := range doc.Objects {
			for _, imagePath := range []string{obj.ProjectionPath, obj.CropPath, obj.DepthPath} {
				if imagePath == "" {
					continue
				}
				dst := filepath.Join(opts.OutputDir, relativePath(imagePath, opts.MetadataDir))
				if err := copyFile(imagePath, dst); err != nil {
					result.ImageErrors++
					logger.Warnf("Не удалось скопировать %s: %v", imagePath, err)
					continue
				}
				result.ImagesCopied++
			}
		}

		// Исходная панорама большая, сжимаем до фиксированной ширины
		sourceSrc := filepath.Join(opts.RawDir, filepath.FromSlash(doc.Source.Path))
		sourceDst := filepath.Join(opts.OutputDir, filepath.FromSlash(doc.Source.Path))
		if err := resizeImage(sourceSrc, sourceDst, opts.ResizeWidth); err != nil {
			result.ImageErrors++
			logger.Warnf("Не удалось сжать исходное изображение %s: %v", sourceSrc, err)
			continue
		}
		result.ImagesCopied++
	}

	return nil
}

// relativePath возвращает путь относительно базовой папки; путь вне базовой
// папки возвращается как есть
func relativePath(fullPath, baseDir string) string {
	if baseDir == "" {
		return fullPath
	}

	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(fullPath))
	if err != nil || strings.HasPrefix(rel, "..") {
		return fullPath
	}
	return filepath.ToSlash(rel)
}

// copyFile копирует файл, создавая папку назначения
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// decodeImage открывает и декодирует изображение (jpeg или png)
func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
