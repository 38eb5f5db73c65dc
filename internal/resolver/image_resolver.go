package resolver

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound ошибка отсутствия изображения в хранилище
var ErrNotFound = errors.New("image not found")

// ImageResolver отдает содержимое изображения по логическому пути из маркера
type ImageResolver interface {
	Resolve(logicalPath string) (io.ReadCloser, string, int64, error)
}

// LocalImageResolver хранилище изображений на локальной файловой системе.
// Переписывание префикса пути (отрезание дублирующейся подпапки) — забота
// этого слоя, а не ядра
type LocalImageResolver struct {
	baseDir     string
	stripPrefix string
}

// NewLocalImageResolver создает резолвер изображений поверх локальной папки
func NewLocalImageResolver(baseDir, stripPrefix string) *LocalImageResolver {
	return &LocalImageResolver{
		baseDir:     baseDir,
		stripPrefix: stripPrefix,
	}
}

// Resolve открывает изображение по логическому пути и возвращает поток,
// content-type по расширению файла и размер
func (r *LocalImageResolver) Resolve(logicalPath string) (io.ReadCloser, string, int64, error) {
	relative := path.Clean("/" + strings.TrimPrefix(logicalPath, "/"))

	if r.stripPrefix != "" && strings.HasPrefix(relative, "/"+r.stripPrefix+"/") {
		relative = strings.TrimPrefix(relative, "/"+r.stripPrefix)
	}

	fullPath := filepath.Join(r.baseDir, filepath.FromSlash(relative))

	// Clean выше уже убрал "..", но путь обязан остаться внутри baseDir
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to resolve images directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !strings.HasPrefix(absPath, base+string(filepath.Separator)) {
		return nil, "", 0, fmt.Errorf("%w: %s", ErrNotFound, logicalPath)
	}

	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return nil, "", 0, fmt.Errorf("%w: %s", ErrNotFound, logicalPath)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %s", ErrNotFound, logicalPath)
	}

	contentType := mime.TypeByExtension(filepath.Ext(absPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return file, contentType, info.Size(), nil
}
