// Package debug holds developer tooling for the demo client.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as PNG files.
type Screenshots struct {
	Dir    string
	Prefix string

	now func() time.Time
	seq int
}

// NewScreenshots creates a capture writer for dir. Files are named
// <prefix>_<timestamp>_<n>.png.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture will be written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s_%d.png", s.Prefix, s.now().Format("2006-01-02_15-04-05"), s.seq)
	return filepath.Join(s.Dir, name)
}

// Save writes bottom-up RGBA pixels, as read back from OpenGL, to a new
// PNG file and returns its path.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	rowSize := width * 4
	if len(pixels) != rowSize*height {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", rowSize*height, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*rowSize:]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], src[:rowSize])
	}

	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.Filename()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	s.seq++
	return path, nil
}
