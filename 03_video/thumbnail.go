package video

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"

	"video-maker-pipeline/types"
)

// maxThumbnailBytes is the YouTube custom thumbnail limit.
const maxThumbnailBytes = 2 << 20

const minThumbnailQuality = 40

// Thumbnailer turns a normalized frame into the video thumbnail.
type Thumbnailer interface {
	Thumbnail(src, dst string) error
}

// JPEGThumbnailer re-encodes the frame as JPEG, lowering the quality in
// steps of 10 until the file fits the upload limit.
type JPEGThumbnailer struct {
	Quality int
}

func (t JPEGThumbnailer) Thumbnail(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return &types.ConversionError{Path: src, Err: err}
	}

	quality := t.Quality
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	for {
		if err := imaging.Save(img, dst, imaging.JPEGQuality(quality)); err != nil {
			return &types.ConversionError{Path: dst, Err: err}
		}
		info, err := os.Stat(dst)
		if err != nil {
			return &types.ConversionError{Path: dst, Err: err}
		}
		if info.Size() <= maxThumbnailBytes {
			return nil
		}
		if quality-10 < minThumbnailQuality {
			return &types.ConversionError{Path: dst, Err: fmt.Errorf("thumbnail is %d bytes at quality %d", info.Size(), quality)}
		}
		quality -= 10
	}
}
