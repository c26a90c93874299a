package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

// Searcher is a web-search endpoint.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// NewSearcher builds the searcher for the configured backend, rate limited
// and capped at SearchResults hits per query.
func NewSearcher(c Config) (Searcher, error) {
	var inner Searcher
	switch c.SearchBackend {
	case BackendSerpAPI:
		inner = &SerpAPISearcher{Endpoint: serpAPIEndpoint, APIKey: c.SearchAPIKey, Num: c.SearchResults}
	case BackendSearxng:
		inner = &SearxngSearcher{BaseURL: c.SearxngURL}
	case BackendDDG:
		if c.BrowserClient == nil {
			return nil, Wrap(ErrConfig, "config", "search", "ddg backend needs the browser client", nil)
		}
		inner = &DDGSearcher{Client: c.BrowserClient, Region: "wt-wt"}
	case BackendStartpage:
		if c.BrowserClient == nil {
			return nil, Wrap(ErrConfig, "config", "search", "startpage backend needs the browser client", nil)
		}
		inner = &StartpageSearcher{Client: c.BrowserClient}
	default:
		return nil, Wrap(ErrConfig, "config", "search", fmt.Sprintf("unknown search backend %q", c.SearchBackend), nil)
	}
	return NewLimitedSearcher(inner, c.SearchRPS, c.SearchResults), nil
}

// LimitedSearcher wraps a backend with a rate limiter, result cap, metrics
// and ErrService tagging.
type LimitedSearcher struct {
	inner      Searcher
	limiter    *rate.Limiter
	maxResults int
}

// NewLimitedSearcher wraps inner. rps <= 0 disables limiting; maxResults <= 0 keeps all hits.
func NewLimitedSearcher(inner Searcher, rps float64, maxResults int) *LimitedSearcher {
	lim := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &LimitedSearcher{inner: inner, limiter: lim, maxResults: maxResults}
}

func (s *LimitedSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, Wrap(ErrService, "research", "search", "search rate limiter", err)
	}
	metrics.SearchRequests.Add(1)
	results, err := s.inner.Search(ctx, query)
	if err != nil {
		metrics.SearchErrors.Add(1)
		return nil, Wrap(ErrService, "research", "search", fmt.Sprintf("web search for %q failed", query), err)
	}
	if s.maxResults > 0 && len(results) > s.maxResults {
		results = results[:s.maxResults]
	}
	slog.Debug("search results", slog.String("query", query), slog.Int("count", len(results)))
	return results, nil
}

// SearxngSearcher queries a SearXNG instance's JSON API.
type SearxngSearcher struct {
	BaseURL string
}

func (s *SearxngSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	u, err := url.Parse(s.BaseURL + "/search")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	resp, err := RetryHTTP(ctx, TransportRetry(), func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		return HTTPClient().Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("searxng", resp)
	}

	var data searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("searxng decode: %w", err)
	}
	return data.Results, nil
}

const serpAPIEndpoint = "https://serpapi.com/search.json"

// SerpAPISearcher queries Google through SerpApi.
type SerpAPISearcher struct {
	Endpoint string
	APIKey   string
	Num      int
}

func (s *SerpAPISearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.APIKey)
	if s.Num > 0 {
		params.Set("num", strconv.Itoa(s.Num))
	}
	u := s.Endpoint + "?" + params.Encode()

	resp, err := RetryHTTP(ctx, TransportRetry(), func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentBot)
		return HTTPClient().Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data serpAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4*1024*1024)).Decode(&data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("serpapi: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("serpapi decode: %w", err)
	}
	if data.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", data.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: HTTP %d", resp.StatusCode)
	}

	results := make([]SearchResult, 0, len(data.OrganicResults))
	for _, r := range data.OrganicResults {
		if r.Link == "" {
			continue
		}
		results = append(results, SearchResult{
			Title:   r.Title,
			Content: r.Snippet,
			URL:     r.Link,
			Score:   1.0,
		})
	}
	return results, nil
}

func statusError(name string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("%s: HTTP %d: %s", name, resp.StatusCode, snippet)
}
