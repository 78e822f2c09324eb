// Package publish uploads the rendered video and its thumbnail to YouTube.
package publish

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"video-maker-pipeline/logging"
	"video-maker-pipeline/types"
)

const StageName = "publish"

// Settings are the upload defaults and where upload records are written.
type Settings struct {
	CategoryID string
	Privacy    string
	Language   string
	LogsDir    string
}

// Stage is the publish step of the pipeline.
type Stage struct {
	credentials CredentialProvider
	publisher   Publisher
	settings    Settings
	logger      *zap.Logger
	now         func() time.Time
}

func NewStage(credentials CredentialProvider, publisher Publisher, settings Settings, logger *zap.Logger) *Stage {
	return &Stage{
		credentials: credentials,
		publisher:   publisher,
		settings:    settings,
		logger:      logging.OrNop(logger).Named(StageName),
		now:         time.Now,
	}
}

func (s *Stage) Name() string { return StageName }

func (s *Stage) Ready(doc *types.Document) error {
	if doc.SearchTerm == "" {
		return types.Invalid("searchTerm", "required by publish stage")
	}
	if len(doc.Sentences) == 0 {
		return types.Invalid("sentences", "run the text stage first")
	}
	if doc.VideoFile == "" {
		return types.Invalid("videoFile", "run the video stage first")
	}
	if _, err := os.Stat(doc.VideoFile); err != nil {
		return types.Invalid("videoFile", "rendered video is missing")
	}
	if doc.ThumbnailFile == "" {
		return types.Invalid("thumbnailFile", "run the video stage first")
	}
	return nil
}

func (s *Stage) Done(doc *types.Document) bool {
	return doc.YouTubeID != ""
}

// Run uploads from scratch every time; an interrupted upload is not resumed.
func (s *Stage) Run(ctx context.Context, doc *types.Document) error {
	cred, err := s.credentials.ObtainCredential(ctx)
	if err != nil {
		return asCollaborator("youtube auth", err)
	}

	meta := BuildMetadata(doc, s.settings.CategoryID, s.settings.Privacy, s.settings.Language)
	s.logger.Info("uploading video", zap.String("title", meta.Title), zap.String("file", doc.VideoFile), zap.String("privacy", meta.Privacy))

	videoID, err := s.publisher.UploadVideo(ctx, cred, doc.VideoFile, meta, newProgressLogger(s.logger))
	if err != nil {
		return asCollaborator("youtube upload", err)
	}
	s.logger.Info("video uploaded", zap.String("video_id", videoID), zap.String("url", videoURL(videoID)))

	if err := s.publisher.UploadThumbnail(ctx, cred, videoID, doc.ThumbnailFile); err != nil {
		return asCollaborator("youtube thumbnail", err)
	}
	s.logger.Info("thumbnail uploaded", zap.String("video_id", videoID))

	doc.YouTubeID = videoID
	doc.YouTubeURL = videoURL(videoID)

	if s.settings.LogsDir != "" {
		logFile, err := logUpload(s.settings.LogsDir, uploadRecord{
			RunID:     doc.RunID,
			VideoID:   videoID,
			VideoURL:  doc.YouTubeURL,
			Title:     meta.Title,
			Tags:      meta.Tags,
			Privacy:   meta.Privacy,
			VideoFile: doc.VideoFile,
		}, s.now())
		if err != nil {
			s.logger.Warn("failed to write upload log", zap.Error(err))
		} else {
			s.logger.Info("upload log saved", zap.String("path", logFile))
		}
	}
	return nil
}

// newProgressLogger logs upload progress as a whole percentage of the
// file, once per percent.
func newProgressLogger(logger *zap.Logger) func(sent, total int64) {
	last := -1
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		percent := int(sent * 100 / total)
		if percent == last {
			return
		}
		last = percent
		logger.Info("upload progress", zap.Int("percent", percent), zap.Int64("bytes", sent), zap.Int64("total", total))
	}
}

func asCollaborator(service string, err error) error {
	if errors.Is(err, types.ErrCollaborator) {
		return err
	}
	return types.Collaborator(service, err)
}
