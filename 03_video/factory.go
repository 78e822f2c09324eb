package video

import (
	"go.uber.org/zap"

	"video-maker-pipeline/config"
)

// New builds the stage from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Stage {
	return NewStage(
		ImagingNormalizer{BlurSigma: cfg.Video.BlurSigma},
		JPEGThumbnailer{Quality: cfg.Video.ThumbnailQuality},
		FFmpegEncoder{Path: cfg.Video.FFmpegPath},
		SettingsFromConfig(cfg),
		logger,
	)
}

func SettingsFromConfig(cfg *config.Config) Settings {
	v := cfg.Video
	opts := Options{
		Output:          cfg.Paths.Video,
		Width:           v.Width,
		Height:          v.Height,
		FPS:             v.FPS,
		HoldSec:         v.HoldSec,
		TransitionSec:   v.TransitionSec,
		VideoCodec:      v.VideoCodec,
		VideoBitrate:    v.VideoBitrate,
		PixelFormat:     v.PixelFormat,
		ScalePercent:    v.ScalePercent,
		AudioBitrate:    v.AudioBitrate,
		AudioChannels:   v.AudioChannels,
		AudioFadeOutSec: v.AudioFadeOutSec,
	}
	if cfg.Captions.EnabledOrDefault() {
		c := cfg.Captions
		opts.Captions = &CaptionStyle{
			Font:            c.Font,
			FontSize:        c.FontSize,
			PrimaryColour:   c.PrimaryColour,
			SecondaryColour: c.SecondaryColour,
			OutlineColour:   c.OutlineColour,
			BackColour:      c.BackColour,
			Bold:            c.Bold,
			Italic:          c.Italic,
			BorderStyle:     c.BorderStyle,
			Outline:         c.Outline,
			Shadow:          c.Shadow,
			Alignment:       c.Alignment,
			MarginL:         c.MarginL,
			MarginR:         c.MarginR,
			MarginV:         c.MarginV,
		}
	}
	return Settings{
		ContentDir:    cfg.Paths.Content,
		AudioPath:     cfg.Paths.Audio,
		ThumbnailPath: cfg.Paths.Thumbnail,
		Width:         v.Width,
		Height:        v.Height,
		Encode:        opts,
	}
}
