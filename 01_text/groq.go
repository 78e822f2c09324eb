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

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

const keywordPrompt = `You extract search keywords from a single sentence of an encyclopedia article.

Return the most relevant keywords and key phrases, most relevant first, at most 5.
Prefer proper nouns, places, objects and events that would make a good image search.

You MUST respond with ONLY a JSON array of strings. No preamble, no markdown, no explanation.`

// GroqExtractor asks a Groq-hosted chat model for a sentence's keywords.
type GroqExtractor struct {
	endpoint    string
	model       string
	temperature float64
	apiKey      string
	httpClient  *http.Client
}

func NewGroqExtractor(model string, temperature float64, apiKey string, timeout time.Duration) *GroqExtractor {
	return &GroqExtractor{
		endpoint:    groqEndpoint,
		model:       model,
		temperature: temperature,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (ge *GroqExtractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	if ge.apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	bodyBytes, err := json.Marshal(groqRequest{
		Model: ge.model,
		Messages: []groqMessage{
			{Role: "system", Content: keywordPrompt},
			{Role: "user", Content: sentence},
		},
		Temperature: ge.temperature,
		MaxTokens:   256,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ge.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ge.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ge.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(respBytes, &groqResp); err != nil {
		return nil, fmt.Errorf("parse groq response: %w", err)
	}
	if groqResp.Error != nil {
		return nil, fmt.Errorf("groq error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	content := cleanJSON(groqResp.Choices[0].Message.Content)
	var raw []string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse keywords JSON: %w\nraw content: %s", err, content[:min(200, len(content))])
	}

	keywords := make([]string, 0, len(raw))
	for _, k := range raw {
		if t := strings.TrimSpace(k); t != "" {
			keywords = append(keywords, t)
		}
	}
	return keywords, nil
}

// cleanJSON strips markdown fences if the model wraps its answer in ```json ... ```
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
