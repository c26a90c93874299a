// Package bootstrap builds the engine configuration from the environment.
// Both the server binary and the scribe CLI start here.
package bootstrap

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// Defaults for the environment lookups below.
const (
	DefaultProvider = "groq"
	DefaultBackend  = engine.BackendSerpAPI
)

// LoadDotEnv reads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("dotenv load failed", slog.String("path", p), slog.Any("error", err))
		}
	}
}

// SetupLogging installs the default slog logger at LOG_LEVEL.
func SetupLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// ConfigFromEnv reads the engine configuration. The browser client is not
// created here; see NewBrowserClient.
func ConfigFromEnv() engine.Config {
	provider := strings.ToLower(env.Str("LLM_PROVIDER", DefaultProvider))
	c := engine.Config{
		LLMProvider:        provider,
		LLMAPIKey:          providerKey(provider),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", ""),
		LLMModel:           env.Str("LLM_MODEL", ""),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),
		SearchBackend:      strings.ToLower(env.Str("SEARCH_BACKEND", DefaultBackend)),
		SearchAPIKey:       env.Str("SERPER_API_KEY", ""),
		SearxngURL:         env.Str("SEARXNG_URL", ""),
		SearchTerms:        env.Int("SEARCH_TERMS", 3),
		SearchResults:      env.Int("SEARCH_RESULTS", 5),
		SearchRPS:          env.Float("SEARCH_RPS", 1),
		MaxFetchURLs:       env.Int("MAX_FETCH_URLS", 0),
		MaxContentChars:    env.Int("MAX_CONTENT_CHARS", 6000),
		FetchTimeout:       env.Duration("FETCH_TIMEOUT", 10*time.Second),
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en,en-US,en-GB"),
		HTTPRetries:        env.Int("HTTP_RETRIES", 0),
		HTTPClient: &http.Client{
			Timeout: env.Duration("HTTP_TIMEOUT", 60*time.Second),
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
	return c
}

// providerKey prefers LLM_API_KEY, then the provider's own variable.
func providerKey(provider string) string {
	if k := env.Str("LLM_API_KEY", ""); k != "" {
		return k
	}
	if p, ok := engine.LookupProvider(provider); ok && p.KeyEnv != "" {
		return env.Str(p.KeyEnv, "")
	}
	return ""
}

// NewBrowserClient starts the stealth client used by the ddg and startpage
// backends, behind a Webshare proxy pool when WEBSHARE_API_KEY is set.
// It returns nil on failure; Config.Validate reports that when it matters.
func NewBrowserClient() *engine.BrowserClient {
	opts := []stealth.ClientOption{stealth.WithTimeout(15)}

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
		return nil
	}
	slog.Info("stealth browser client initialized")
	return bc
}

// Init loads .env, configures logging, builds the config and installs it
// with engine.Init. The browser client is only started for backends that
// need it.
func Init() engine.Config {
	LoadDotEnv()
	SetupLogging()
	c := ConfigFromEnv()
	if c.SearchBackend == engine.BackendDDG || c.SearchBackend == engine.BackendStartpage {
		c.BrowserClient = NewBrowserClient()
	}
	engine.Init(c)
	return c
}
