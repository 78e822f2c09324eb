package text

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// KeywordExtractor returns the keywords of a sentence ranked by relevance.
type KeywordExtractor interface {
	Extract(ctx context.Context, sentence string) ([]string, error)
}

// WatsonExtractor calls the IBM Watson Natural Language Understanding
// analyze endpoint with the keywords feature.
type WatsonExtractor struct {
	baseURL    string
	version    string
	apiKey     string
	httpClient *http.Client
}

func NewWatsonExtractor(baseURL, version, apiKey string, timeout time.Duration) *WatsonExtractor {
	return &WatsonExtractor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type watsonRequest struct {
	Text     string         `json:"text"`
	Features watsonFeatures `json:"features"`
}

type watsonFeatures struct {
	Keywords struct{} `json:"keywords"`
}

type watsonResponse struct {
	Keywords []struct {
		Text      string  `json:"text"`
		Relevance float64 `json:"relevance"`
	} `json:"keywords"`
	Error string `json:"error"`
}

func (we *WatsonExtractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	if we.baseURL == "" {
		return nil, fmt.Errorf("watson url not set (text.watson_url or WATSON_NLU_URL)")
	}
	if we.apiKey == "" {
		return nil, fmt.Errorf("WATSON_NLU_APIKEY not set")
	}

	body, err := json.Marshal(watsonRequest{Text: sentence})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/analyze?version=%s", we.baseURL, we.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth("apikey", we.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := we.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watson request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watson returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var result watsonResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("parse watson response: %w", err)
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		if t := strings.TrimSpace(k.Text); t != "" {
			keywords = append(keywords, t)
		}
	}
	return keywords, nil
}
