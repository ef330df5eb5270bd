package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes uncompressed and RLE true-color TGA images, 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.New("tga: header too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if tgaHeaderSize+idLength > len(data) {
		return nil, errTGATruncated
	}

	r := &tgaReader{
		pix:    data[tgaHeaderSize+idLength:],
		stride: bpp / 8,
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Pixels are stored bottom-up unless the descriptor says otherwise.
	put := func(i int, c color.RGBA) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	total := width * height
	if imageType == TGATypeUncompressed {
		if len(r.pix) < total*r.stride {
			return nil, errTGATruncated
		}
		for i := 0; i < total; i++ {
			c, _ := r.next()
			put(i, c)
		}
		return img, nil
	}

	for i := 0; i < total; {
		header, ok := r.byte()
		if !ok {
			return nil, errTGATruncated
		}
		count := int(header&0x7F) + 1
		repeat := header&0x80 != 0

		var c color.RGBA
		for k := 0; k < count && i < total; k++ {
			if k == 0 || !repeat {
				if c, ok = r.next(); !ok {
					return nil, errTGATruncated
				}
			}
			put(i, c)
			i++
		}
	}
	return img, nil
}

// tgaReader walks BGR(A) pixel data.
type tgaReader struct {
	pix    []byte
	off    int
	stride int
}

func (r *tgaReader) byte() (byte, bool) {
	if r.off >= len(r.pix) {
		return 0, false
	}
	b := r.pix[r.off]
	r.off++
	return b, true
}

func (r *tgaReader) next() (color.RGBA, bool) {
	if r.off+r.stride > len(r.pix) {
		return color.RGBA{}, false
	}
	p := r.pix[r.off : r.off+r.stride]
	r.off += r.stride

	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.stride == 4 {
		c.A = p[3]
	}
	return c, true
}
