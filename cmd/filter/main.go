package main

import (
	"flag"
	"strings"

	"geo-marker-go/internal/filter"

	"github.com/sirupsen/logrus"
)

// Метки, которые инструмент оставляет по умолчанию
var defaultLabels = []string{
	"overhead utility power distribution line",
	"utility pole",
	"electricity management box",
}

func main() {
	metadataDir := flag.String("metadata", "./metadata", "папка с исходными метаданными")
	rawDir := flag.String("raw", "./raw", "папка с исходными панорамами")
	outputDir := flag.String("out", "./filtered", "папка для отфильтрованного корпуса")
	labels := flag.String("labels", "", "метки через запятую (по умолчанию встроенный список)")
	width := flag.Int("width", 1000, "ширина сжатых исходных изображений")
	flag.Parse()

	logger := logrus.New()

	keep := defaultLabels
	if *labels != "" {
		keep = strings.Split(*labels, ",")
	}

	result, err := filter.Run(filter.Options{
		MetadataDir: *metadataDir,
		RawDir:      *rawDir,
		OutputDir:   *outputDir,
		Labels:      keep,
		ResizeWidth: *width,
	}, logger)
	if err != nil {
		logger.Fatalf("Ошибка фильтрации метаданных: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"files_kept":    result.FilesKept,
		"files_skipped": result.FilesSkipped,
		"objects_kept":  result.ObjectsKept,
		"images_copied": result.ImagesCopied,
		"image_errors":  result.ImageErrors,
	}).Info("Фильтрация метаданных завершена")
}
