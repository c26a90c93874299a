package engine

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const ddgHTMLEndpoint = "https://html.duckduckgo.com/html/"

// DDGSearcher queries the DuckDuckGo HTML lite endpoint through the browser
// TLS client. No API key is needed.
type DDGSearcher struct {
	Client *BrowserClient
	Region string
}

func (s *DDGSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region := s.Region
	if region == "" {
		region = "wt-wt"
	}
	form := url.Values{"q": {query}, "kl": {region}, "df": {""}}

	headers := ChromeHeaders()
	headers["referer"] = "https://html.duckduckgo.com/"
	headers["content-type"] = "application/x-www-form-urlencoded"

	data, _, status, err := s.Client.Do("POST", ddgHTMLEndpoint, headers, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ddg html: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("ddg html status %d", status)
	}
	return parseDDGHTML(data)
}

// parseDDGHTML extracts search results from a DDG HTML lite response.
func parseDDGHTML(data []byte) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []SearchResult
	doc.Find(".result, .web-result").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		link := s.Find("a.result__a, .result__title a").First()
		title := CollapseSpace(link.Text())
		href, ok := link.Attr("href")
		if !ok || title == "" {
			return
		}
		href = ddgUnwrapURL(href)
		if href == "" {
			return
		}
		results = append(results, SearchResult{
			Title:   title,
			Content: CollapseSpace(s.Find(".result__snippet").First().Text()),
			URL:     href,
			Score:   1.0,
		})
	})
	return results, nil
}

// ddgUnwrapURL extracts the target from DDG redirect links
// (//duckduckgo.com/l/?uddg=<escaped>&rut=...). Relative links yield "".
func ddgUnwrapURL(href string) string {
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}
