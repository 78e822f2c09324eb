package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// RedditSource builds an article from the self-text of the most relevant
// posts matching the search term.
type RedditSource struct {
	client    *reddit.Client
	subreddit string
	limit     int
}

// NewRedditSource creates a source backed by an anonymous read-only client.
func NewRedditSource(subreddit string, limit int, opts ...reddit.Opt) (*RedditSource, error) {
	client, err := reddit.NewReadonlyClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &RedditSource{client: client, subreddit: subreddit, limit: limit}, nil
}

// Fetch joins the self-text bodies of matching posts, one paragraph per post.
// lang is ignored; Reddit search is not language-scoped.
func (rs *RedditSource) Fetch(ctx context.Context, term, _ string) (string, error) {
	posts, _, err := rs.client.Subreddit.SearchPosts(ctx, term, rs.subreddit, &reddit.ListPostSearchOptions{
		ListPostOptions: reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: rs.limit},
			Time:        "all",
		},
		Sort: "relevance",
	})
	if err != nil {
		return "", fmt.Errorf("reddit search: %w", err)
	}

	var parts []string
	for _, post := range posts {
		if body := strings.TrimSpace(post.Body); body != "" {
			parts = append(parts, body)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no self-text posts found for %q in r/%s", term, rs.subreddit)
	}
	return strings.Join(parts, "\n\n"), nil
}
