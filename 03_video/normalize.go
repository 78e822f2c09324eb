package video

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"

	"video-maker-pipeline/types"
)

// ConvertedPath is where the normalized frame for sentence i is stored.
func ConvertedPath(contentDir string, i int) string {
	return filepath.Join(contentDir, fmt.Sprintf("%d-converted.png", i))
}

// Normalizer renders a source image onto a fixed-size canvas.
type Normalizer interface {
	Normalize(src, dst string, width, height int) error
}

// ImagingNormalizer draws the image aspect-fit over a blurred aspect-fill
// copy of itself so no letterbox bars remain.
type ImagingNormalizer struct {
	BlurSigma float64
}

func (n ImagingNormalizer) Normalize(src, dst string, width, height int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return &types.ConversionError{Path: src, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return &types.ConversionError{Path: src, Err: fmt.Errorf("empty image")}
	}

	if err := imaging.Save(Compose(img, width, height, n.BlurSigma), dst); err != nil {
		return &types.ConversionError{Path: dst, Err: err}
	}
	return nil
}

// Compose returns a width x height canvas: img scaled to cover and blurred
// as background, img scaled to fit and centered on top.
func Compose(img image.Image, width, height int, blurSigma float64) *image.NRGBA {
	background := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	if blurSigma > 0 {
		background = imaging.Blur(background, blurSigma)
	}

	b := img.Bounds()
	fw, fh := fitSize(b.Dx(), b.Dy(), width, height)
	foreground := imaging.Resize(img, fw, fh, imaging.Lanczos)

	return imaging.PasteCenter(background, foreground)
}

// fitSize scales (w, h) to the largest size inside (maxW, maxH) that keeps
// the aspect ratio. Small images are scaled up.
func fitSize(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	fw := int(math.Round(float64(w) * scale))
	fh := int(math.Round(float64(h) * scale))
	return clamp(fw, 1, maxW), clamp(fh, 1, maxH)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
