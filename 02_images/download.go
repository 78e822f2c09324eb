package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Fetcher stores the resource at url under path.
type Fetcher interface {
	Download(ctx context.Context, url, path string) error
}

// HTTPFetcher downloads images over plain HTTP with size bounds.
type HTTPFetcher struct {
	httpClient *http.Client
	minBytes   int
	maxBytes   int64
}

func NewHTTPFetcher(timeout time.Duration, minBytes int, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		minBytes:   minBytes,
		maxBytes:   maxBytes,
	}
}

// Download rejects non-200 responses, bodies under minBytes (usually error
// pages) and bodies over maxBytes.
func (hf *HTTPFetcher) Download(ctx context.Context, fileURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VideoMakerPipeline/1.0)")

	resp, err := hf.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, hf.maxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > hf.maxBytes {
		return fmt.Errorf("file too large (over %d bytes)", hf.maxBytes)
	}
	if len(data) < hf.minBytes {
		return fmt.Errorf("file too small (%d bytes)", len(data))
	}

	return os.WriteFile(outPath, data, 0644)
}
