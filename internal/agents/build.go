package agents

import (
	"log/slog"

	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/engine/sources"
)

// NewDriver wires the default variants to the clients described by c.
// Construction never fails: a stage whose client cannot be built is left
// nil, and CheckConfig reports the reason when a request needs it.
func NewDriver(c engine.Config) *Driver {
	d := &Driver{
		Variants:    DefaultVariants(),
		CheckConfig: c.Validate,
		Captions: &CaptionFetcher{
			Transcripts: &sources.TranscriptClient{HTTPClient: c.HTTPClient},
			Langs:       c.TranscriptLangs,
		},
	}

	llm, err := engine.NewCompleter(c)
	if err != nil {
		slog.Warn("llm client unavailable", slog.Any("error", err))
		return d
	}
	d.Writer = &Writer{LLM: llm}

	searcher, err := engine.NewSearcher(c)
	if err != nil {
		slog.Warn("search backend unavailable", slog.Any("error", err))
		return d
	}
	var fetcher engine.PageFetcher
	if c.MaxFetchURLs > 0 {
		fetcher = engine.HTTPPageFetcher{}
	}
	d.Researcher = &Researcher{
		LLM:          llm,
		Search:       searcher,
		Fetch:        fetcher,
		Terms:        c.SearchTerms,
		MaxFetchURLs: c.MaxFetchURLs,
		MaxPerDomain: 2,
		ContentLimit: c.MaxContentChars,
	}
	return d
}
