// Package text fetches the article for the search term, splits it into
// sentences and attaches ranked keywords to each sentence.
package text

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"video-maker-pipeline/logging"
	"video-maker-pipeline/types"
)

const StageName = "text"

// Stage is the text step of the pipeline.
type Stage struct {
	source    Source
	extractor KeywordExtractor
	segmenter Segmenter
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewStage wires the stage to its collaborators. A nil limiter disables pacing.
func NewStage(source Source, extractor KeywordExtractor, segmenter Segmenter, limiter *rate.Limiter, logger *zap.Logger) *Stage {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Stage{
		source:    source,
		extractor: extractor,
		segmenter: segmenter,
		limiter:   limiter,
		logger:    logging.OrNop(logger).Named(StageName),
	}
}

func (s *Stage) Name() string { return StageName }

func (s *Stage) Ready(doc *types.Document) error {
	if doc.SearchTerm == "" {
		return types.Invalid("searchTerm", "required by text stage")
	}
	if doc.MaximumSentences < 1 {
		return types.Invalid("maximumSentences", "must be at least 1")
	}
	return nil
}

// Done reports whether the sanitized article and every sentence's keywords
// are already stored.
func (s *Stage) Done(doc *types.Document) bool {
	if doc.SourceContentSanitized == "" || len(doc.Sentences) == 0 {
		return false
	}
	for _, sentence := range doc.Sentences {
		if sentence.PrimaryKeyword() == "" {
			return false
		}
	}
	return true
}

func (s *Stage) Run(ctx context.Context, doc *types.Document) error {
	s.logger.Info("fetching content", zap.String("search_term", doc.SearchTerm), zap.String("lang", doc.Lang))

	raw, err := s.source.Fetch(ctx, doc.SearchTerm, doc.Lang)
	if err != nil {
		return types.Collaborator("text source", err)
	}
	doc.SourceContentOriginal = raw
	doc.SourceContentSanitized = Sanitize(raw)

	texts := s.segmenter.Split(doc.SourceContentSanitized)
	if len(texts) == 0 {
		return types.Collaborator("text source", fmt.Errorf("article for %q has no sentences", doc.SearchTerm))
	}
	total := len(texts)
	texts = Truncate(texts, doc.MaximumSentences)
	s.logger.Info("segmented content", zap.Int("sentences", total), zap.Int("kept", len(texts)))

	sentences := make([]types.Sentence, 0, len(texts))
	for i, t := range texts {
		keywords, err := s.keywordsFor(ctx, i, t)
		if err != nil {
			return err
		}
		sentences = append(sentences, types.Sentence{Text: t, Keywords: keywords})
	}
	doc.Sentences = sentences
	return nil
}

func (s *Stage) keywordsFor(ctx context.Context, index int, sentence string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	keywords, err := s.extractor.Extract(ctx, sentence)
	if err != nil {
		return nil, types.Collaborator("keyword extraction", fmt.Errorf("sentence %d: %w", index, err))
	}
	if len(keywords) == 0 {
		return nil, types.Collaborator("keyword extraction", fmt.Errorf("sentence %d: no keywords returned", index))
	}
	s.logger.Debug("keywords", zap.Int("sentence", index), zap.Strings("keywords", keywords))
	return keywords, nil
}

// Truncate keeps the first limit sentences.
func Truncate(sentences []string, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(sentences) > limit {
		return sentences[:limit]
	}
	return sentences
}
