// Package video turns the downloaded images into normalized frames, a
// thumbnail and the final captioned slideshow.
package video

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"video-maker-pipeline/02_images"
	"video-maker-pipeline/logging"
	"video-maker-pipeline/types"
)

const StageName = "video"

// Settings are the stage's file locations and encoder options.
type Settings struct {
	ContentDir    string
	AudioPath     string
	ThumbnailPath string
	Width         int
	Height        int
	Encode        Options
}

// Stage is the composition step of the pipeline.
type Stage struct {
	normalizer  Normalizer
	thumbnailer Thumbnailer
	encoder     Encoder
	settings    Settings
	logger      *zap.Logger
	phase       Phase
}

func NewStage(normalizer Normalizer, thumbnailer Thumbnailer, encoder Encoder, settings Settings, logger *zap.Logger) *Stage {
	return &Stage{
		normalizer:  normalizer,
		thumbnailer: thumbnailer,
		encoder:     encoder,
		settings:    settings,
		logger:      logging.OrNop(logger).Named(StageName),
		phase:       PhaseIdle,
	}
}

func (s *Stage) Name() string { return StageName }

// Phase is the phase reached by the most recent Run.
func (s *Stage) Phase() Phase { return s.phase }

func (s *Stage) Ready(doc *types.Document) error {
	if len(doc.Sentences) == 0 {
		return types.Invalid("sentences", "run the text stage first")
	}
	for i, sentence := range doc.Sentences {
		if sentence.SelectedImage == "" {
			return types.Invalid(fmt.Sprintf("sentences[%d].selectedImage", i), "run the image stage first")
		}
		if _, err := os.Stat(images.OriginalPath(s.settings.ContentDir, i)); err != nil {
			return types.Invalid(fmt.Sprintf("sentences[%d].selectedImage", i), "downloaded image is missing")
		}
	}
	return nil
}

// Done reports whether the video and thumbnail are recorded and on disk.
func (s *Stage) Done(doc *types.Document) bool {
	if doc.VideoFile == "" || doc.ThumbnailFile == "" {
		return false
	}
	for _, p := range []string{doc.VideoFile, doc.ThumbnailFile} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Run always starts from ConvertingImages; nothing of an earlier failed
// attempt is reused.
func (s *Stage) Run(ctx context.Context, doc *types.Document) error {
	t := newTracker(func(from, to Phase) {
		s.phase = to
		s.logger.Info("phase", zap.String("from", string(from)), zap.String("to", string(to)))
	})
	s.phase = PhaseIdle

	if err := t.advance(PhaseConvertingImages); err != nil {
		return t.fail(err)
	}
	frames, err := s.convertImages(ctx, doc)
	if err != nil {
		return t.fail(err)
	}

	if err := t.advance(PhaseGeneratingThumbnail); err != nil {
		return t.fail(err)
	}
	if err := s.thumbnailer.Thumbnail(frames[0].Path, s.settings.ThumbnailPath); err != nil {
		return t.fail(err)
	}
	s.logger.Info("thumbnail ready", zap.String("path", s.settings.ThumbnailPath))

	if err := t.advance(PhaseRendering); err != nil {
		return t.fail(err)
	}
	output, err := s.encoder.Assemble(ctx, frames, s.settings.AudioPath, s.settings.Encode, newLogObserver(s.logger))
	if err != nil {
		return t.fail(err)
	}

	doc.VideoFile = output
	doc.ThumbnailFile = s.settings.ThumbnailPath
	return t.advance(PhaseDone)
}

// convertImages normalizes every downloaded image in sentence order.
func (s *Stage) convertImages(ctx context.Context, doc *types.Document) ([]Frame, error) {
	frames := make([]Frame, 0, len(doc.Sentences))
	for i, sentence := range doc.Sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := images.OriginalPath(s.settings.ContentDir, i)
		dst := ConvertedPath(s.settings.ContentDir, i)
		if err := s.normalizer.Normalize(src, dst, s.settings.Width, s.settings.Height); err != nil {
			return nil, err
		}
		s.logger.Info("image converted", zap.Int("sentence", i), zap.String("path", dst))
		frames = append(frames, Frame{Path: dst, Caption: sentence.Text})
	}
	return frames, nil
}

// logObserver logs encoder events, progress in steps of 10%.
type logObserver struct {
	logger *zap.Logger
	next   float64
}

func newLogObserver(logger *zap.Logger) *logObserver {
	return &logObserver{logger: logger}
}

func (o *logObserver) Start(command string) {
	o.logger.Info("render started", zap.String("command", command))
}

func (o *logObserver) Progress(percent float64) {
	if percent >= o.next {
		o.logger.Info("rendering", zap.Float64("percent", percent))
		for o.next <= percent {
			o.next += 10
		}
	}
}

func (o *logObserver) End(output string) {
	o.logger.Info("render finished", zap.String("output", output))
}

func (o *logObserver) Error(detail string) {
	o.logger.Error("render failed", zap.String("detail", detail))
}
