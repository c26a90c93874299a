package engine

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMProvider        string
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string // tried in order when the primary key is rate limited
	LLMAPIBase         string   // empty = provider default
	LLMModel           string   // empty = provider default
	LLMTemperature     float64
	LLMMaxTokens       int
	SearchBackend      string // serpapi, searxng, ddg, startpage
	SearchAPIKey       string // SerpApi key; unused by searxng/ddg
	SearxngURL         string
	SearchTerms        int     // search terms the researcher plans per request
	SearchResults      int     // results kept per search term
	SearchRPS          float64 // outbound search calls per second (0 = unlimited)
	MaxFetchURLs       int     // result pages fetched for enrichment (0 = snippets only)
	MaxContentChars    int
	FetchTimeout       time.Duration
	TranscriptLangs    []string
	HTTPRetries        int // transport retries per HTTP call; stage calls are never retried
	HTTPClient         *http.Client
	BrowserClient      *BrowserClient // nil = ddg and startpage backends disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, agents).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}

// Search backends.
const (
	BackendSerpAPI   = "serpapi"
	BackendSearxng   = "searxng"
	BackendDDG       = "ddg"
	BackendStartpage = "startpage"
)

// Validate reports missing credentials or unknown settings before any request
// is attempted. needsSearch is false for pipelines that never call the web
// search backend.
func (c Config) Validate(needsSearch bool) error {
	p, ok := LookupProvider(c.LLMProvider)
	if !ok {
		return Wrap(ErrConfig, "config", "llm", fmt.Sprintf("unknown LLM provider %q (known: %s)", c.LLMProvider, providerNames()), nil)
	}
	if p.KeyEnv != "" && c.LLMAPIKey == "" {
		return Wrap(ErrConfig, "config", "llm", p.KeyEnv+" is not set", nil)
	}
	if !needsSearch {
		return nil
	}
	switch c.SearchBackend {
	case BackendSerpAPI:
		if c.SearchAPIKey == "" {
			return Wrap(ErrConfig, "config", "search", "SERPER_API_KEY is not set", nil)
		}
	case BackendSearxng:
		if c.SearxngURL == "" {
			return Wrap(ErrConfig, "config", "search", "SEARXNG_URL is not set", nil)
		}
	case BackendDDG, BackendStartpage:
		if c.BrowserClient == nil {
			return Wrap(ErrConfig, "config", "search", c.SearchBackend+" backend needs the browser client, which failed to start", nil)
		}
	default:
		return Wrap(ErrConfig, "config", "search", fmt.Sprintf("unknown search backend %q", c.SearchBackend), nil)
	}
	return nil
}

func providerNames() string {
	var names []string
	for _, p := range Providers() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
