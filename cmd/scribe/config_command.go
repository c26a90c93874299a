package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/toolutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and whether it is usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := ctx.cfg()
			out := cmd.OutOrStdout()
			p := newPainter(out)

			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, configRows(c)))

			for _, check := range []struct {
				label       string
				needsSearch bool
			}{
				{"captions pipelines", false},
				{"research pipelines", true},
			} {
				if err := c.Validate(check.needsSearch); err != nil {
					fmt.Fprintf(out, "%s: %s\n", check.label, p.error(toolutil.UserMessage(err)))
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", check.label, p.ok("ready"))
			}
			return nil
		},
	}
}

func configRows(c engine.Config) [][]string {
	return [][]string{
		{"LLM provider", c.LLMProvider},
		{"LLM model", c.ResolvedModel()},
		{"LLM API base", orDefault(c.LLMAPIBase, "provider default")},
		{"LLM API key", maskSecret(c.LLMAPIKey)},
		{"Fallback keys", strconv.Itoa(len(c.LLMAPIKeyFallbacks))},
		{"Search backend", c.SearchBackend},
		{"SerpApi key", maskSecret(c.SearchAPIKey)},
		{"SearXNG URL", orDefault(c.SearxngURL, "-")},
		{"Search terms", strconv.Itoa(c.SearchTerms)},
		{"Results per term", strconv.Itoa(c.SearchResults)},
		{"Search rate (rps)", strconv.FormatFloat(c.SearchRPS, 'g', -1, 64)},
		{"Pages fetched", strconv.Itoa(c.MaxFetchURLs)},
		{"Transcript languages", strings.Join(c.TranscriptLangs, ", ")},
		{"HTTP retries", strconv.Itoa(c.HTTPRetries)},
	}
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(s string) string {
	switch {
	case s == "":
		return "not set"
	case len(s) <= 8:
		return "set"
	default:
		return "set (…" + s[len(s)-4:] + ")"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
