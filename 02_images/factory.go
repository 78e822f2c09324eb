package images

import (
	"os"
	"time"

	"go.uber.org/zap"

	"video-maker-pipeline/config"
	"video-maker-pipeline/googleapis"
)

// New builds the stage from configuration. The search engine credentials
// come from GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID and are checked on the
// first search.
func New(cfg *config.Config, logger *zap.Logger) *Stage {
	limiter := googleapis.NewRateLimiter(cfg.Images.RequestsPerSecond)
	searcher := NewGoogleSearcher(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GOOGLE_SEARCH_ENGINE_ID"), limiter)
	fetcher := NewHTTPFetcher(time.Duration(cfg.Images.DownloadTimeout)*time.Second, cfg.Images.MinBytes, cfg.Images.MaxBytes)
	return NewStage(searcher, fetcher, cfg.Paths.Content, cfg.Images.ResultsPerQuery, logger)
}
