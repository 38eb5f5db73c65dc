package filter

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// resizeImage сжимает изображение до заданной ширины с сохранением
// пропорций и записывает результат в dst
func resizeImage(src, dst string, width int) error {
	img, err := decodeImage(src)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("image %s has empty bounds", src)
	}

	height := int(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(dst)) {
	case ".png":
		if err := png.Encode(out, scaled); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}

	return out.Close()
}
