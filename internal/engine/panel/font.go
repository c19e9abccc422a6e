package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/logger"
)

// SystemFonts lists fonts tried when no font is configured. The CJK faces
// come first so Chinese item names render.
var SystemFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\simsun.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// LoadFace parses a TrueType/OpenType font or collection and returns a face
// at the given pixel size. Collections use their first font.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	var f *opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font collection %s: %w", path, err)
		}
		if coll.NumFonts() == 0 {
			return nil, fmt.Errorf("font collection %s is empty", path)
		}
		f, err = coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("reading font 0 of %s: %w", path, err)
		}
	default:
		f, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", path, err)
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", path, err)
	}
	return face, nil
}

// OpenFace loads the configured font, then the first system font that
// parses, and finally falls back to the built-in bitmap face.
func OpenFace(path string, size float64) font.Face {
	candidates := SystemFonts
	if path != "" {
		candidates = append([]string{path}, SystemFonts...)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			if p == path {
				logger.Warn("configured font not found", zap.String("path", p))
			}
			continue
		}
		face, err := LoadFace(p, size)
		if err != nil {
			logger.Warn("font load failed", zap.String("path", p), zap.Error(err))
			continue
		}
		logger.Info("font loaded", zap.String("path", p), zap.Float64("size", size))
		return face
	}
	logger.Warn("no usable font found, using built-in bitmap face")
	return basicfont.Face7x13
}
