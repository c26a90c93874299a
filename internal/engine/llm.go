package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Completer is a hosted text-generation service: system + prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Provider describes a hosted LLM endpoint selectable via LLM_PROVIDER.
type Provider struct {
	Name         string
	BaseURL      string
	DefaultModel string
	KeyEnv       string // empty = no credential required
	NativeSDK    bool   // use the official openai-go SDK instead of go-kit/llm
}

var providers = map[string]Provider{
	"openai":     {Name: "openai", BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o", KeyEnv: "OPENAI_API_KEY", NativeSDK: true},
	"groq":       {Name: "groq", BaseURL: "https://api.groq.com/openai/v1", DefaultModel: "llama-3.3-70b-versatile", KeyEnv: "GROQ_API_KEY"},
	"gemini":     {Name: "gemini", BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", DefaultModel: "gemini-1.5-flash", KeyEnv: "GEMINI_API_KEY"},
	"deepseek":   {Name: "deepseek", BaseURL: "https://api.deepseek.com/v1", DefaultModel: "deepseek-chat", KeyEnv: "DEEPSEEK_API_KEY"},
	"openrouter": {Name: "openrouter", BaseURL: "https://openrouter.ai/api/v1", DefaultModel: "openai/gpt-4o", KeyEnv: "OPENROUTER_API_KEY"},
	"mock":       {Name: "mock", DefaultModel: "mock"},
}

// LookupProvider returns the provider registered under name (case-insensitive).
func LookupProvider(name string) (Provider, bool) {
	p, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Providers lists registered providers sorted by name.
func Providers() []Provider {
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolvedModel returns the configured model or the provider default.
func (c Config) ResolvedModel() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	if p, ok := LookupProvider(c.LLMProvider); ok {
		return p.DefaultModel
	}
	return ""
}

// NewCompleter builds the Completer for the configured provider.
// Credentials are not checked here; see Config.Validate.
func NewCompleter(c Config) (Completer, error) {
	p, ok := LookupProvider(c.LLMProvider)
	if !ok {
		return nil, Wrap(ErrConfig, "config", "llm", fmt.Sprintf("unknown LLM provider %q", c.LLMProvider), nil)
	}
	if p.Name == "mock" {
		return MockCompleter{}, nil
	}

	base := c.LLMAPIBase
	if base == "" {
		base = p.BaseURL
	}
	model := c.ResolvedModel()

	if p.NativeSDK {
		return newOpenAICompleter(c, base, model), nil
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	client := llm.NewClient(base, c.LLMAPIKey, model,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(hc),
	)
	return &kitCompleter{complete: func(ctx context.Context, system, prompt string) (string, error) {
		return client.Complete(ctx, system, prompt)
	}}, nil
}

// kitCompleter adapts a go-kit llm client to Completer.
type kitCompleter struct {
	complete func(ctx context.Context, system, prompt string) (string, error)
}

func (k *kitCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	return k.complete(ctx, system, prompt)
}

// CallLLM runs one stage call. It is never retried: the first failure is
// returned to the driver tagged ErrService.
func CallLLM(ctx context.Context, c Completer, stage, system, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := c.Complete(ctx, system, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", Wrap(ErrService, stage, "llm", "language model call failed", err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		metrics.LLMErrors.Add(1)
		return "", Wrap(ErrService, stage, "llm", "language model returned an empty response", nil)
	}
	return resp, nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseSearchTerms decodes a JSON array of search terms from LLM output,
// dropping blanks and keeping at most n.
func ParseSearchTerms(raw string, n int) ([]string, error) {
	var terms []string
	if err := json.Unmarshal([]byte(stripFences(raw)), &terms); err != nil {
		return nil, fmt.Errorf("parse search terms %q: %w", Truncate(raw, 200), err)
	}
	out := terms[:0]
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
