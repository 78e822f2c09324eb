package text

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"video-maker-pipeline/config"
)

// New builds the stage from configuration. Credentials come from the
// environment: WATSON_NLU_APIKEY and WATSON_NLU_URL, or GROQ_API_KEY. They are
// checked on the first keyword call, so a resume that skips this stage does
// not need them.
func New(cfg *config.Config, logger *zap.Logger) (*Stage, error) {
	timeout := time.Duration(cfg.Text.TimeoutSec) * time.Second

	source, err := NewSource(cfg.Text, timeout)
	if err != nil {
		return nil, err
	}
	extractor, err := NewKeywordExtractor(cfg.Text, timeout)
	if err != nil {
		return nil, err
	}
	segmenter, err := NewPunktSegmenter()
	if err != nil {
		return nil, err
	}
	return NewStage(source, extractor, segmenter, newLimiter(cfg.Text.RequestsPerSecond), logger), nil
}

// newLimiter paces keyword calls; a rate of zero or less means unlimited.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func NewSource(cfg config.TextConfig, timeout time.Duration) (Source, error) {
	switch cfg.Source {
	case "", "wikipedia":
		return NewWikipediaSource(cfg.WikipediaAPIURL, timeout), nil
	case "reddit":
		return NewRedditSource(cfg.RedditSubreddit, cfg.RedditPostLimit)
	default:
		return nil, fmt.Errorf("unknown text source %q", cfg.Source)
	}
}

func NewKeywordExtractor(cfg config.TextConfig, timeout time.Duration) (KeywordExtractor, error) {
	switch cfg.KeywordProvider {
	case "", "watson":
		baseURL := cfg.WatsonURL
		if env := os.Getenv("WATSON_NLU_URL"); env != "" {
			baseURL = env
		}
		return NewWatsonExtractor(baseURL, cfg.WatsonVersion, os.Getenv("WATSON_NLU_APIKEY"), timeout), nil
	case "groq":
		return NewGroqExtractor(cfg.GroqModel, cfg.Temperature, os.Getenv("GROQ_API_KEY"), timeout), nil
	default:
		return nil, fmt.Errorf("unknown keyword provider %q", cfg.KeywordProvider)
	}
}
