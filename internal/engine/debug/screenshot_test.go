package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "frame")
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2, bottom row first.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_2026-01-02_03-04-05_0.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{0, 0, 255, 255}), color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{255, 0, 0, 255}), color.RGBAModel.Convert(img.At(0, 1)))

	next, err := s.Save(pixels, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, path, next, "captures in the same second get distinct names")
}

func TestSaveSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "frame")
	_, err := s.Save([]byte{1, 2, 3}, 1, 1)
	assert.Error(t, err)
}
