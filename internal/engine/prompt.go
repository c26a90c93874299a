package engine

import (
	"fmt"
	"strings"
)

// plannerPrompt asks for search terms as a JSON array.
// Args: n, stage request, n.
const plannerPrompt = `Generate %d search terms for the following research request.

Request:
%s

Rules:
- Each term is a concise web search query (3-8 words)
- Cover different angles of the request
- Preserve product, company and technology names exactly

Return ONLY a JSON array of %d strings, no other text, no markdown.`

// synthesisPrompt turns search results into research text.
// Args: stage request, sources block.
const synthesisPrompt = `%s

Use ONLY the web search results below. Do NOT invent information that is not in the sources.
Reference sources by their URL where useful.

Search results:
%s`

// PlannerPrompt builds the prompt that asks the model for n search terms.
func PlannerPrompt(request string, n int) string {
	return fmt.Sprintf(plannerPrompt, n, strings.TrimSpace(request), n)
}

// SynthesisPrompt builds the prompt that condenses search results into the
// researcher's output.
func SynthesisPrompt(request, sources string) string {
	return fmt.Sprintf(synthesisPrompt, strings.TrimSpace(request), sources)
}

// BuildSourcesText numbers results and attaches fetched page content when
// present, falling back to the search snippet.
func BuildSourcesText(results []SearchResult, contents map[string]string, contentLimit int) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "\n[%d] %s\nURL: %s\n", i+1, r.Title, r.URL)
		if c, ok := contents[r.URL]; ok && c != "" {
			if contentLimit > 0 && len(c) > contentLimit {
				c = TruncateRunes(c, contentLimit, "...")
			}
			fmt.Fprintf(&sb, "Content: %s\n", c)
			continue
		}
		if r.Content != "" {
			fmt.Fprintf(&sb, "Snippet: %s\n", r.Content)
		}
	}
	return sb.String()
}
