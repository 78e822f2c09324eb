package text

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Source fetches the raw article text for a search term.
type Source interface {
	Fetch(ctx context.Context, term, lang string) (string, error)
}

const userAgent = "VideoMakerPipeline/1.0 (educational)"

// WikipediaSource reads plain-text extracts from the MediaWiki action API.
type WikipediaSource struct {
	apiURL     string
	httpClient *http.Client
}

// NewWikipediaSource creates a source for apiURL. A "%s" in apiURL is
// replaced by the language code on every request.
func NewWikipediaSource(apiURL string, timeout time.Duration) *WikipediaSource {
	return &WikipediaSource{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Fetch returns the full plain-text extract of the article titled term,
// following redirects.
func (ws *WikipediaSource) Fetch(ctx context.Context, term, lang string) (string, error) {
	endpoint := ws.apiURL
	if strings.Contains(endpoint, "%s") {
		endpoint = fmt.Sprintf(endpoint, lang)
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := ws.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("wikipedia returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parse wikipedia response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("wikipedia error %s: %s", result.Error.Code, result.Error.Info)
	}

	for _, page := range result.Query.Pages {
		if page.Missing || page.Invalid {
			continue
		}
		if strings.TrimSpace(page.Extract) != "" {
			return page.Extract, nil
		}
	}
	return "", fmt.Errorf("no article found for %q", term)
}
