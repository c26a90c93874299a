package agents

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// Researcher plans search terms with the model, searches the web for each,
// and has the model condense the results into research text.
type Researcher struct {
	LLM    engine.Completer
	Search engine.Searcher
	Fetch  engine.PageFetcher // nil = snippets only

	Terms        int // search terms to plan (default 3)
	MaxFetchURLs int
	MaxPerDomain int
	ContentLimit int
	Clock        Clock
}

func (r *Researcher) Run(ctx context.Context, v *Variant, d PromptData) (StageOutput, error) {
	request, err := v.SourcePrompt(d)
	if err != nil {
		return StageOutput{}, engine.Wrap(engine.ErrConfig, StageResearch, "prompt", "research prompt template failed", err)
	}
	system := SystemPrompt(v.SourceAgent, r.Clock.now())

	n := r.Terms
	if n <= 0 {
		n = 3
	}
	raw, err := engine.CallLLM(ctx, r.LLM, StageResearch, system, engine.PlannerPrompt(request, n))
	if err != nil {
		return StageOutput{}, err
	}
	terms, perr := engine.ParseSearchTerms(raw, n)
	if perr != nil || len(terms) == 0 {
		slog.Warn("search term planning unparsable, using subject",
			slog.String("variant", v.Name), slog.Any("error", perr))
		terms = []string{d.Subject}
	}
	slog.Debug("research plan", slog.String("variant", v.Name), slog.Any("terms", terms))

	g, err := engine.GatherSources(ctx, r.Search, r.Fetch, engine.GatherOpts{
		Terms:        terms,
		MaxPerDomain: r.MaxPerDomain,
		MaxFetchURLs: r.MaxFetchURLs,
	})
	if err != nil {
		if engine.Kind(err) == nil {
			err = engine.Wrap(engine.ErrService, StageResearch, "search", "web search failed", err)
		}
		return StageOutput{}, err
	}

	text, err := engine.CallLLM(ctx, r.LLM, StageResearch, system,
		engine.SynthesisPrompt(request, g.SourcesText(r.ContentLimit)))
	if err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Stage: StageResearch, Text: text}, nil
}
