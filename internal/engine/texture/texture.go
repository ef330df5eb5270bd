// Package texture decodes the images the client uploads as textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// Image is decoded pixel data ready for upload: tightly packed RGBA rows,
// top row first.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Load reads and decodes an image file. The format is chosen by
// extension for TGA and sniffed for everything else.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes TGA (ext ".tga"), BMP or PNG data. BMP images use the
// magenta color key for transparency.
func Decode(data []byte, ext string) (*Image, error) {
	if strings.EqualFold(ext, ".tga") {
		rgba, err := DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		return fromRGBA(rgba), nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	rgba := ToRGBA(src)
	if format == "bmp" {
		ApplyMagentaKey(rgba)
	}
	return fromRGBA(rgba), nil
}

// ToRGBA converts any image to a zero-origin *image.RGBA.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func fromRGBA(img *image.RGBA) *Image {
	b := img.Bounds()
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: img.Pix}
}

// IsMagentaKey reports whether a color is the transparency key. The
// tolerance absorbs encoder rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey turns key-colored pixels into transparent black, so
// filtering does not bleed magenta into neighbours.
func ApplyMagentaKey(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if IsMagentaKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
			copy(img.Pix[i:i+4], []byte{0, 0, 0, 0})
		}
	}
}
