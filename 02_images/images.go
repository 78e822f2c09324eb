// Package images finds and downloads one picture per sentence.
package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"video-maker-pipeline/logging"
	"video-maker-pipeline/types"
)

const StageName = "images"

// OriginalPath is where the downloaded image for sentence i is stored.
func OriginalPath(contentDir string, i int) string {
	return filepath.Join(contentDir, fmt.Sprintf("%d-original.png", i))
}

// BuildQuery is the image search query for a sentence.
func BuildQuery(searchTerm string, sentence types.Sentence) string {
	return searchTerm + " " + sentence.PrimaryKeyword()
}

// Stage is the image step of the pipeline. Sentences are handled one at a
// time in document order.
type Stage struct {
	searcher   Searcher
	fetcher    Fetcher
	contentDir string
	maxResults int64
	logger     *zap.Logger
}

func NewStage(searcher Searcher, fetcher Fetcher, contentDir string, maxResults int64, logger *zap.Logger) *Stage {
	return &Stage{
		searcher:   searcher,
		fetcher:    fetcher,
		contentDir: contentDir,
		maxResults: maxResults,
		logger:     logging.OrNop(logger).Named(StageName),
	}
}

func (s *Stage) Name() string { return StageName }

func (s *Stage) Ready(doc *types.Document) error {
	if doc.SearchTerm == "" {
		return types.Invalid("searchTerm", "required by image stage")
	}
	if len(doc.Sentences) == 0 {
		return types.Invalid("sentences", "run the text stage first")
	}
	for i, sentence := range doc.Sentences {
		if sentence.PrimaryKeyword() == "" {
			return types.Invalid(fmt.Sprintf("sentences[%d].keywords", i), "first keyword is empty")
		}
	}
	return nil
}

// Done reports whether every sentence has its query, links and a selected
// image whose file is still on disk.
func (s *Stage) Done(doc *types.Document) bool {
	if len(doc.Sentences) == 0 {
		return false
	}
	for i, sentence := range doc.Sentences {
		if sentence.GoogleSearchQuery == "" || len(sentence.Images) == 0 || sentence.SelectedImage == "" {
			return false
		}
		if _, err := os.Stat(OriginalPath(s.contentDir, i)); err != nil {
			return false
		}
	}
	return true
}

func (s *Stage) Run(ctx context.Context, doc *types.Document) error {
	if err := os.MkdirAll(s.contentDir, 0755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	doc.DownloadedImages = nil
	for i := range doc.Sentences {
		if err := s.searchSentence(ctx, doc.SearchTerm, i, &doc.Sentences[i]); err != nil {
			return err
		}
		selected, err := s.downloadSentence(ctx, i, doc.Sentences[i].Images, doc.DownloadedImages)
		if err != nil {
			return err
		}
		doc.Sentences[i].SelectedImage = selected
		doc.DownloadedImages = append(doc.DownloadedImages, selected)
	}
	return nil
}

func (s *Stage) searchSentence(ctx context.Context, searchTerm string, i int, sentence *types.Sentence) error {
	query := BuildQuery(searchTerm, *sentence)
	links, err := s.searcher.Search(ctx, query, s.maxResults)
	if err != nil {
		return types.Collaborator("image search", fmt.Errorf("sentence %d (%q): %w", i, query, err))
	}
	if len(links) == 0 {
		return types.Collaborator("image search", fmt.Errorf("sentence %d: no results for %q", i, query))
	}
	sentence.Images = links
	sentence.GoogleSearchQuery = query
	s.logger.Info("images found", zap.Int("sentence", i), zap.String("query", query), zap.Int("results", len(links)))
	return nil
}

// downloadSentence tries links in order, skipping any already used by an
// earlier sentence, and returns the first one that downloads.
func (s *Stage) downloadSentence(ctx context.Context, i int, links, used []string) (string, error) {
	out := OriginalPath(s.contentDir, i)
	var lastErr error
	for _, link := range links {
		if slices.Contains(used, link) {
			s.logger.Debug("skipping duplicate image", zap.Int("sentence", i), zap.String("url", link))
			continue
		}
		if err := s.fetcher.Download(ctx, link, out); err != nil {
			s.logger.Warn("image download failed", zap.Int("sentence", i), zap.String("url", link), zap.Error(err))
			lastErr = err
			continue
		}
		s.logger.Info("image downloaded", zap.Int("sentence", i), zap.String("url", link), zap.String("path", out))
		return link, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("every link was already used")
	}
	return "", types.Collaborator("image download", fmt.Errorf("sentence %d: %w", i, lastErr))
}
