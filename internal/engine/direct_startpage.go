package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const startpageEndpoint = "https://www.startpage.com/sp/search"

// StartpageSearcher queries Startpage (Google-sourced results) through the
// browser TLS client. No API key is needed.
type StartpageSearcher struct {
	Client   *BrowserClient
	Language string
}

func (s *StartpageSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	language := s.Language
	if language == "" {
		language = "english"
	}
	form := url.Values{"query": {query}, "cat": {"web"}, "language": {language}}

	headers := ChromeHeaders()
	headers["referer"] = "https://www.startpage.com/"
	headers["content-type"] = "application/x-www-form-urlencoded"
	headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	data, _, status, err := s.Client.Do("POST", startpageEndpoint, headers, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("startpage request: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("startpage status %d", status)
	}

	results, err := parseStartpageHTML(data)
	if err != nil {
		return nil, fmt.Errorf("startpage parse: %w", err)
	}
	slog.Debug("startpage results", slog.Int("count", len(results)), slog.String("query", query))
	return results, nil
}

// parseStartpageHTML extracts search results from a Startpage response.
func parseStartpageHTML(data []byte) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []SearchResult
	doc.Find(".w-gl__result, .result").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.w-gl__result-title, h3 a, a.result-link").First()
		title := CollapseSpace(link.Text())
		href, ok := link.Attr("href")
		if !ok || title == "" || href == "" {
			return
		}
		// sponsored redirects
		if strings.Contains(href, "startpage.com/do/") {
			return
		}
		desc := s.Find("p.w-gl__description, .w-gl__description, p.result-description").First()
		results = append(results, SearchResult{
			Title:   title,
			Content: CollapseSpace(desc.Text()),
			URL:     href,
			Score:   1.0,
		})
	})
	return results, nil
}
