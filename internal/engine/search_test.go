package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearxngSearcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "solar storage", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"results":[{"title":"A","content":"snippet a","url":"https://a.example","score":2.5}]}`))
	}))
	defer srv.Close()
	Init(Config{HTTPClient: srv.Client()})
	defer Init(Config{})

	got, err := (&SearxngSearcher{BaseURL: srv.URL}).Search(context.Background(), "solar storage")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SearchResult{Title: "A", Content: "snippet a", URL: "https://a.example", Score: 2.5}, got[0])
}

func TestSerpAPISearcher(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr bool
	}{
		{
			name:   "organic results",
			status: http.StatusOK,
			body:   `{"organic_results":[{"position":1,"title":"T1","link":"https://1.example","snippet":"s1"},{"position":2,"title":"no link"}]}`,
			want:   1,
		},
		{
			name:    "api error",
			status:  http.StatusUnauthorized,
			body:    `{"error":"Invalid API key."}`,
			wantErr: true,
		},
		{
			name:    "non json",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "google", r.URL.Query().Get("engine"))
				assert.Equal(t, "key", r.URL.Query().Get("api_key"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			Init(Config{HTTPClient: srv.Client()})
			defer Init(Config{})

			got, err := (&SerpAPISearcher{Endpoint: srv.URL, APIKey: "key", Num: 5}).Search(context.Background(), "q")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

type fixedSearcher struct {
	results []SearchResult
	err     error
	calls   int
}

func (f *fixedSearcher) Search(context.Context, string) ([]SearchResult, error) {
	f.calls++
	return f.results, f.err
}

func TestLimitedSearcher(t *testing.T) {
	inner := &fixedSearcher{results: []SearchResult{{URL: "1"}, {URL: "2"}, {URL: "3"}}}
	s := NewLimitedSearcher(inner, 0, 2)

	got, err := s.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	inner.err = errors.New("boom")
	_, err = s.Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrService)
	assert.Equal(t, 2, inner.calls)
}

func TestLimitedSearcherCanceled(t *testing.T) {
	inner := &fixedSearcher{}
	s := NewLimitedSearcher(inner, 0.001, 0)
	_, _ = s.Search(context.Background(), "first") // consume the burst token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Search(ctx, "second")
	assert.ErrorIs(t, err, ErrService)
	assert.Equal(t, 1, inner.calls)
}

func TestNewSearcher(t *testing.T) {
	_, err := NewSearcher(Config{SearchBackend: "bing"})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewSearcher(Config{SearchBackend: BackendDDG})
	assert.ErrorIs(t, err, ErrConfig)

	s, err := NewSearcher(Config{SearchBackend: BackendSearxng, SearxngURL: "http://localhost:8888"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		needsSearch bool
		wantErr     bool
	}{
		{"mock needs nothing", Config{LLMProvider: "mock"}, false, false},
		{"missing llm key", Config{LLMProvider: "groq"}, false, true},
		{"unknown provider", Config{LLMProvider: "acme"}, false, true},
		{"search skipped", Config{LLMProvider: "groq", LLMAPIKey: "k"}, false, false},
		{"missing serp key", Config{LLMProvider: "groq", LLMAPIKey: "k", SearchBackend: BackendSerpAPI}, true, true},
		{"serp ok", Config{LLMProvider: "groq", LLMAPIKey: "k", SearchBackend: BackendSerpAPI, SearchAPIKey: "s"}, true, false},
		{"searxng needs url", Config{LLMProvider: "mock", SearchBackend: BackendSearxng}, true, true},
		{"ddg needs browser", Config{LLMProvider: "mock", SearchBackend: BackendDDG}, true, true},
		{"unknown backend", Config{LLMProvider: "mock", SearchBackend: "bing"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.needsSearch)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
