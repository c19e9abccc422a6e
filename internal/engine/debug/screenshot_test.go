package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
}

func TestScreenshotFilename(t *testing.T) {
	s := NewScreenshots("shots", "fridgeview")
	s.now = fixedClock

	want := filepath.Join("shots", "fridgeview_2026-03-14_09-26-53.589.png")
	if got := s.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestScreenshotSaveFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScreenshots(dir, "shot")
	s.now = fixedClock

	// 1x2 image: GL bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b != 0xffff {
		t.Errorf("top pixel = r%d b%d, want blue", r, b)
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r != 0xffff || b != 0 {
		t.Errorf("bottom pixel = r%d b%d, want red", r, b)
	}
}

func TestScreenshotSaveRejectsBadInput(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "shot")

	tests := []struct {
		name          string
		pixels        []byte
		width, height int
	}{
		{"short buffer", make([]byte, 7), 1, 2},
		{"zero size", nil, 0, 0},
		{"negative", nil, -1, 4},
	}
	for _, tt := range tests {
		if _, err := s.Save(tt.pixels, tt.width, tt.height); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
