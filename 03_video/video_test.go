package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-maker-pipeline/02_images"
	"video-maker-pipeline/types"
)

type copyNormalizer struct {
	failAt int // sentence index that fails; -1 never
	calls  int
}

func (n *copyNormalizer) Normalize(src, dst string, width, height int) error {
	if n.calls == n.failAt {
		return &types.ConversionError{Path: src, Err: errors.New("bad image")}
	}
	n.calls++
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

type fakeEncoder struct {
	frames []Frame
	err    error
}

func (e *fakeEncoder) Assemble(ctx context.Context, frames []Frame, audioPath string, opts Options, obs Observer) (string, error) {
	e.frames = frames
	if e.err != nil {
		obs.Error(e.err.Error())
		return "", e.err
	}
	obs.Start("fake")
	obs.Progress(50)
	obs.Progress(100)
	if err := os.WriteFile(opts.Output, []byte("mp4"), 0644); err != nil {
		return "", err
	}
	obs.End(opts.Output)
	return opts.Output, nil
}

type fakeThumbnailer struct{}

func (fakeThumbnailer) Thumbnail(src, dst string) error {
	return os.WriteFile(dst, []byte("jpg"), 0644)
}

func stageFixture(t *testing.T, n int) (Settings, *types.Document) {
	t.Helper()
	dir := t.TempDir()
	doc := &types.Document{SearchTerm: "Lighthouse"}
	for i := 0; i < n; i++ {
		require.NoError(t, os.WriteFile(images.OriginalPath(dir, i), []byte("img"), 0644))
		doc.Sentences = append(doc.Sentences, types.Sentence{
			Text:          "Sentence.",
			Keywords:      []string{"k"},
			SelectedImage: "https://img.test/x.png",
		})
	}
	settings := Settings{
		ContentDir:    dir,
		ThumbnailPath: filepath.Join(dir, "youtube-thumbnail.jpg"),
		Width:         1920,
		Height:        1080,
		Encode:        Options{Output: filepath.Join(dir, "video.mp4")},
	}
	return settings, doc
}

func TestStage_Run(t *testing.T) {
	settings, doc := stageFixture(t, 3)
	enc := &fakeEncoder{}
	stage := NewStage(&copyNormalizer{failAt: -1}, fakeThumbnailer{}, enc, settings, nil)

	require.NoError(t, stage.Ready(doc))
	require.NoError(t, stage.Run(context.Background(), doc))

	assert.Equal(t, PhaseDone, stage.Phase())
	assert.Equal(t, settings.Encode.Output, doc.VideoFile)
	assert.Equal(t, settings.ThumbnailPath, doc.ThumbnailFile)
	assert.True(t, stage.Done(doc))

	require.Len(t, enc.frames, 3)
	for i, f := range enc.frames {
		assert.Equal(t, ConvertedPath(settings.ContentDir, i), f.Path)
		assert.Equal(t, "Sentence.", f.Caption)
	}
}

func TestStage_FailuresLeaveDocumentUntouched(t *testing.T) {
	t.Run("conversion", func(t *testing.T) {
		settings, doc := stageFixture(t, 3)
		stage := NewStage(&copyNormalizer{failAt: 1}, fakeThumbnailer{}, &fakeEncoder{}, settings, nil)

		err := stage.Run(context.Background(), doc)
		assert.ErrorIs(t, err, types.ErrConversion)
		assert.Equal(t, PhaseFailed, stage.Phase())
		assert.Empty(t, doc.VideoFile)
		assert.Empty(t, doc.ThumbnailFile)
	})

	t.Run("encoding", func(t *testing.T) {
		settings, doc := stageFixture(t, 2)
		encErr := &types.EncodingError{Stderr: "Invalid data found when processing input", Err: errors.New("exit status 1")}
		stage := NewStage(&copyNormalizer{failAt: -1}, fakeThumbnailer{}, &fakeEncoder{err: encErr}, settings, nil)

		err := stage.Run(context.Background(), doc)
		assert.ErrorIs(t, err, types.ErrEncoding)
		assert.Contains(t, err.Error(), "Invalid data found when processing input")
		assert.Equal(t, PhaseFailed, stage.Phase())
		assert.Empty(t, doc.VideoFile)
	})
}

func TestStage_RetryRestartsFromConversion(t *testing.T) {
	settings, doc := stageFixture(t, 2)
	norm := &copyNormalizer{failAt: -1}
	enc := &fakeEncoder{err: &types.EncodingError{Err: errors.New("killed")}}
	stage := NewStage(norm, fakeThumbnailer{}, enc, settings, nil)

	require.Error(t, stage.Run(context.Background(), doc))
	assert.Equal(t, 2, norm.calls)

	enc.err = nil
	require.NoError(t, stage.Run(context.Background(), doc))
	assert.Equal(t, 4, norm.calls)
	assert.Equal(t, PhaseDone, stage.Phase())
}

func TestStage_Ready(t *testing.T) {
	settings, doc := stageFixture(t, 2)
	stage := NewStage(&copyNormalizer{failAt: -1}, fakeThumbnailer{}, &fakeEncoder{}, settings, nil)

	assert.ErrorIs(t, stage.Ready(&types.Document{}), types.ErrValidation)

	require.NoError(t, os.Remove(images.OriginalPath(settings.ContentDir, 1)))
	err := stage.Ready(doc)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sentences[1].selectedImage", verr.Field)
}
