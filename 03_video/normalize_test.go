package video

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-maker-pipeline/types"
)

func writeTestImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestImagingNormalizer_Dimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "landscape", w: 800, h: 300},
		{name: "portrait", w: 300, h: 900},
		{name: "small square", w: 50, h: 50},
		{name: "exact", w: 1920, h: 1080},
	}

	dir := t.TempDir()
	n := ImagingNormalizer{BlurSigma: 9}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeTestImage(t, dir, tt.name+"-original.png", tt.w, tt.h)
			dst := filepath.Join(dir, tt.name+"-converted.png")

			require.NoError(t, n.Normalize(src, dst, 1920, 1080))

			out, err := imaging.Open(dst)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 1920, 1080), out.Bounds())
		})
	}
}

func TestImagingNormalizer_MalformedInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "0-original.png")
	require.NoError(t, os.WriteFile(src, []byte("<html>not an image</html>"), 0644))

	err := ImagingNormalizer{BlurSigma: 9}.Normalize(src, filepath.Join(dir, "0-converted.png"), 1920, 1080)
	assert.ErrorIs(t, err, types.ErrConversion)

	var cerr *types.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, src, cerr.Path)

	err = ImagingNormalizer{}.Normalize(filepath.Join(dir, "missing.png"), filepath.Join(dir, "x.png"), 10, 10)
	assert.ErrorIs(t, err, types.ErrConversion)
}

func TestCompose_ForegroundCentered(t *testing.T) {
	img := imaging.New(100, 400, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out := Compose(img, 160, 90, 0)

	assert.Equal(t, image.Rect(0, 0, 160, 90), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(80, 45))
}

func TestFitSize(t *testing.T) {
	w, h := fitSize(800, 300, 1920, 1080)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 720, h)

	w, h = fitSize(300, 900, 1920, 1080)
	assert.Equal(t, 360, w)
	assert.Equal(t, 1080, h)

	w, h = fitSize(10, 10, 1920, 1080)
	assert.Equal(t, 1080, w)
	assert.Equal(t, 1080, h)
}

func TestJPEGThumbnailer(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "0-converted.png", 1920, 1080)
	dst := filepath.Join(dir, "youtube-thumbnail.jpg")

	require.NoError(t, JPEGThumbnailer{Quality: 90}.Thumbnail(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(maxThumbnailBytes))

	out, err := imaging.Open(dst)
	require.NoError(t, err)
	assert.Equal(t, 1920, out.Bounds().Dx())
}
