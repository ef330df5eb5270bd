package sprite3d

// Digit glyphs are 3x5 pixels, stored in 4x6 atlas cells so nearest
// filtering never samples a neighbour.
const (
	glyphW = 3
	glyphH = 5
	cellW  = glyphW + 1
	cellH  = glyphH + 1

	atlasW = 10 * cellW
	atlasH = cellH
)

var glyphs = [10][glyphH]string{
	{"###", "#.#", "#.#", "#.#", "###"},
	{".#.", "##.", ".#.", ".#.", "###"},
	{"###", "..#", "###", "#..", "###"},
	{"###", "..#", "###", "..#", "###"},
	{"#.#", "#.#", "###", "..#", "..#"},
	{"###", "#..", "###", "..#", "###"},
	{"###", "#..", "###", "#.#", "###"},
	{"###", "..#", "..#", "..#", "..#"},
	{"###", "#.#", "###", "#.#", "###"},
	{"###", "#.#", "###", "..#", "###"},
}

// digitAtlas rasterizes the glyphs white on transparent, top row first.
func digitAtlas() []byte {
	pix := make([]byte, atlasW*atlasH*4)
	for d, rows := range glyphs {
		for y, row := range rows {
			for x := 0; x < glyphW; x++ {
				if row[x] != '#' {
					continue
				}
				i := (y*atlasW + d*cellW + x) * 4
				copy(pix[i:i+4], []byte{255, 255, 255, 255})
			}
		}
	}
	return pix
}

// glyphUV returns the atlas rectangle (u0, v0, u1, v1) of digit d.
func glyphUV(d uint8) [4]float32 {
	u0 := float32(int(d)*cellW) / atlasW
	return [4]float32{u0, 0, u0 + float32(glyphW)/atlasW, float32(glyphH) / atlasH}
}

// Digits splits value into decimal digits, most significant first,
// left-padded with zeros to count. A count of zero uses the natural length.
func Digits(value uint32, count uint8) []uint8 {
	var rev []uint8
	for {
		rev = append(rev, uint8(value%10))
		value /= 10
		if value == 0 {
			break
		}
	}
	for len(rev) < int(count) {
		rev = append(rev, 0)
	}

	out := make([]uint8, len(rev))
	for i, d := range rev {
		out[len(rev)-1-i] = d
	}
	return out
}
