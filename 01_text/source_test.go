package text

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vartanbeno/go-reddit/v2/reddit"
)

func TestWikipediaSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "extracts", q.Get("prop"))
		assert.Equal(t, "1", q.Get("explaintext"))
		assert.Equal(t, "1", q.Get("redirects"))
		assert.Equal(t, "Lighthouse", q.Get("titles"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":[{"pageid":1,"title":"Lighthouse","extract":"A lighthouse is a tower.\n\n== History ==\nThey are old."}]}}`))
	}))
	defer srv.Close()

	src := NewWikipediaSource(srv.URL, 5*time.Second)
	got, err := src.Fetch(context.Background(), "Lighthouse", "en")
	require.NoError(t, err)
	assert.Equal(t, "A lighthouse is a tower.\n\n== History ==\nThey are old.", got)
}

func TestWikipediaSource_LanguageTemplate(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = r.URL.Path == "/pt/w/api.php"
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Farol","extract":"Um farol."}]}}`))
	}))
	defer srv.Close()

	src := NewWikipediaSource(srv.URL+"/%s/w/api.php", 5*time.Second)
	_, err := src.Fetch(context.Background(), "Farol", "pt")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestWikipediaSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "missing page", status: http.StatusOK, body: `{"query":{"pages":[{"title":"Nope","missing":true}]}}`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"code":"badvalue","info":"bad"}}`},
		{name: "server error", status: http.StatusServiceUnavailable, body: `down`},
		{name: "malformed", status: http.StatusOK, body: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewWikipediaSource(srv.URL, 5*time.Second).Fetch(context.Background(), "Nope", "en")
			assert.Error(t, err)
		})
	}
}

func redditListing(bodies ...string) string {
	children := make([]string, len(bodies))
	for i, b := range bodies {
		children[i] = fmt.Sprintf(`{"kind":"t3","data":{"id":"p%d","title":"post %d","selftext":%q}}`, i, i, b)
	}
	return `{"kind":"Listing","data":{"after":"","children":[` + strings.Join(children, ",") + `]}}`
}

func newRedditServer(t *testing.T, listing string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/history/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Lighthouse", q.Get("q"))
		assert.Equal(t, "true", q.Get("restrict_sr"))
		assert.Equal(t, "3", q.Get("limit"))
		assert.Equal(t, "all", q.Get("t"))
		assert.Equal(t, "relevance", q.Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listing))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRedditSource_Fetch(t *testing.T) {
	srv := newRedditServer(t, redditListing("The lighthouse was built in 1850.", "   ", "", "Its lamp burned whale oil."))

	src, err := NewRedditSource("history", 3, reddit.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	got, err := src.Fetch(context.Background(), "Lighthouse", "en")
	require.NoError(t, err)
	assert.Equal(t, "The lighthouse was built in 1850.\n\nIts lamp burned whale oil.", got)
}

func TestRedditSource_NoSelfText(t *testing.T) {
	srv := newRedditServer(t, redditListing("", "  "))

	src, err := NewRedditSource("history", 3, reddit.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), "Lighthouse", "en")
	assert.EqualError(t, err, `no self-text posts found for "Lighthouse" in r/history`)
}

func TestRedditSource_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewRedditSource("history", 3, reddit.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), "Lighthouse", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reddit search")
}
