package engine

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

// GatherOpts configures one research gathering pass.
type GatherOpts struct {
	Terms        []string // searched in order, one call each
	MaxPerDomain int      // DedupByDomain limit (0 = no limit)
	MaxFetchURLs int      // pages fetched for enrichment (0 = snippets only)
}

// Gathered is the merged outcome of all searches for one request.
type Gathered struct {
	Results  []SearchResult
	Contents map[string]string // fetched page text keyed by result URL
}

// SourcesText renders the gathered results for a synthesis prompt, capping
// each fetched page at contentLimit chars (0 = no cap).
func (g *Gathered) SourcesText(contentLimit int) string {
	if len(g.Results) == 0 {
		return "No search results found."
	}
	return BuildSourcesText(g.Results, g.Contents, contentLimit)
}

// GatherSources runs search → merge → dedup → fetch. Searches run
// sequentially and the first search failure aborts the pass. Page fetches
// only enrich snippets, so their failures are skipped.
func GatherSources(ctx context.Context, s Searcher, f PageFetcher, opts GatherOpts) (g *Gathered, err error) {
	_ = TrackOperation(ctx, "gather", 30*time.Second, func(ctx context.Context) error {
		g, err = gatherSources(ctx, s, f, opts)
		return err
	})
	return
}

func gatherSources(ctx context.Context, s Searcher, f PageFetcher, opts GatherOpts) (*Gathered, error) {
	var merged []SearchResult
	for _, term := range opts.Terms {
		results, err := s.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		merged = append(merged, results...)
	}

	top := DedupByURL(merged)
	if opts.MaxPerDomain > 0 {
		top = DedupByDomain(top, opts.MaxPerDomain)
	}

	g := &Gathered{Results: top, Contents: make(map[string]string)}
	if f == nil || opts.MaxFetchURLs <= 0 {
		return g, nil
	}
	for i, r := range top {
		if i >= opts.MaxFetchURLs {
			break
		}
		if ctx.Err() != nil {
			break
		}
		_, text, err := f.Fetch(ctx, r.URL)
		if err != nil {
			slog.Debug("page fetch skipped", slog.String("url", r.URL), slog.Any("error", err))
			continue
		}
		if text != "" {
			g.Contents[r.URL] = text
		}
	}
	return g, nil
}

// DedupByURL drops results whose URL was already seen, keeping order.
func DedupByURL(results []SearchResult) []SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

// DedupByDomain keeps at most maxPerDomain results per host.
func DedupByDomain(results []SearchResult, maxPerDomain int) []SearchResult {
	counts := make(map[string]int)
	var out []SearchResult
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		domain := u.Hostname()
		if counts[domain] < maxPerDomain {
			out = append(out, r)
			counts[domain]++
		}
	}
	return out
}
