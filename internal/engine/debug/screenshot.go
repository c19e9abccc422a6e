// Package debug provides developer utilities for the desktop host.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as timestamped PNG files.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewScreenshots creates a writer saving into dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would use.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}

// Save encodes RGBA pixels read from OpenGL (bottom row first) and returns
// the file written.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := range height {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}

	filename := s.Filename()
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}
	return filename, nil
}
