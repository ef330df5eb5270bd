package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x2, 24bpp, BGR, rows stored bottom-up.
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, 0)
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom row: red, green
		255, 0, 0, 255, 255, 255, // top row: blue, white
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32bpp, top-down: one run of two pixels, one raw pixel.
	data := tgaHeader(TGATypeRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 10, 20, 30, 128,
		0x00, 1, 2, 3, 4,
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{30, 20, 10, 128}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{30, 20, 10, 128}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{3, 2, 1, 4}, img.RGBAAt(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { d := tgaHeader(TGATypeUncompressed, 1, 1, 24, 0); d[1] = 1; return d }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bit", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated raw", append(tgaHeader(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 4, 1, 24, 0), 0x83, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDecodeBMPMagentaKey(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 255, 255})
	src.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	img, err := Decode(buf.Bytes(), ".bmp")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, []byte{0, 0, 0, 0, 10, 20, 30, 255}, img.Pix)
}

func TestLoadPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	src.Set(0, 0, color.NRGBA{255, 0, 255, 255})
	src.Set(0, 1, color.NRGBA{1, 2, 3, 255})

	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	// PNG keeps magenta: only BMP uses the color key.
	assert.Equal(t, []byte{255, 0, 255, 255, 1, 2, 3, 255}, img.Pix)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tga"))
	assert.Error(t, err)
}
