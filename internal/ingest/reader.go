package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"geo-marker-go/pkg/models"
)

// metadataSuffix шаблон имен файлов метаданных пайплайна
const metadataSuffix = "_metadata.json"

// FindMetadataFiles рекурсивно ищет файлы *_metadata.json в указанной папке.
// Недоступные записи считаются и пропускаются, обход продолжается; ошибкой
// завершается только недоступность самой корневой папки
func FindMetadataFiles(root string) (files []string, skipped int, err error) {
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			skipped++
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if strings.HasSuffix(entry.Name(), metadataSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, skipped, fmt.Errorf("failed to scan metadata directory: %w", walkErr)
	}

	return files, skipped, nil
}

// ReadMetadataFile декодирует один файл метаданных. Файл содержит один или
// несколько JSON-документов, разделенных переводами строк
func ReadMetadataFile(path string) ([]models.MetadataFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	return decodeMetadata(file)
}

// decodeMetadata читает поток JSON-документов метаданных
func decodeMetadata(r io.Reader) ([]models.MetadataFile, error) {
	decoder := json.NewDecoder(r)

	var docs []models.MetadataFile
	for {
		var doc models.MetadataFile
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
