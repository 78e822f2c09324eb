package images

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"video-maker-pipeline/googleapis"
)

// Searcher returns image links for a query, best match first.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)
}

// GoogleSearcher queries a Programmable Search Engine restricted to images.
// The API client is created on the first search.
type GoogleSearcher struct {
	apiKey   string
	engineID string
	opts     []option.ClientOption
	limiter  *googleapis.RateLimiter
	svc      *customsearch.Service
}

// NewGoogleSearcher creates a searcher for the engine cx. Extra options
// (such as option.WithEndpoint) are passed to the API client.
func NewGoogleSearcher(apiKey, cx string, limiter *googleapis.RateLimiter, opts ...option.ClientOption) *GoogleSearcher {
	if limiter == nil {
		limiter = googleapis.NewRateLimiter(0)
	}
	return &GoogleSearcher{apiKey: apiKey, engineID: cx, opts: opts, limiter: limiter}
}

func (gs *GoogleSearcher) service(ctx context.Context) (*customsearch.Service, error) {
	if gs.svc != nil {
		return gs.svc, nil
	}
	if gs.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not set")
	}
	if gs.engineID == "" {
		return nil, fmt.Errorf("GOOGLE_SEARCH_ENGINE_ID not set")
	}
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(gs.apiKey)}, gs.opts...)...)
	if err != nil {
		return nil, fmt.Errorf("customsearch service: %w", err)
	}
	gs.svc = svc
	return svc, nil
}

func (gs *GoogleSearcher) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	svc, err := gs.service(ctx)
	if err != nil {
		return nil, err
	}
	if err := gs.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := svc.Cse.List().
		Cx(gs.engineID).
		Q(query).
		SearchType("image").
		Num(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		if googleapis.IsRateLimited(err) {
			gs.limiter.RecordRateLimitError(0)
		}
		return nil, googleapis.WrapError("customsearch", err)
	}

	links := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}
