package engine

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// PageFetcher returns the readable text of a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (title, content string, err error)
}

// HTTPPageFetcher fetches pages over plain HTTP and extracts the main text.
type HTTPPageFetcher struct{}

func (HTTPPageFetcher) Fetch(ctx context.Context, rawURL string) (string, string, error) {
	return FetchURLContent(ctx, rawURL)
}

// FetchURLContent extracts main text content from a URL using go-readability,
// converted to markdown. Falls back to goquery when readability fails.
func FetchURLContent(ctx context.Context, rawURL string) (title, content string, err error) {
	metrics.FetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()

	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	body, err := fetchPage(ctx, rawURL)
	if err != nil {
		return "", "", err
	}
	title, content = ExtractContent(rawURL, body)
	return title, capContent(content), nil
}

// ExtractContent pulls the title and main text out of an HTML document.
func ExtractContent(rawURL string, body []byte) (title, content string) {
	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return extractWithGoquery(body)
	}

	md, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		slog.Debug("markdown conversion failed", slog.String("url", rawURL), slog.Any("error", err))
		md = article.TextContent
	}
	return strings.TrimSpace(article.Title), strings.TrimSpace(md)
}

var boilerplateSelectors = strings.Join([]string{
	"script", "style", "noscript", "iframe", "svg",
	"header", "footer", "nav", "aside",
	".advertisement", ".ad", ".sidebar", ".comments",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}, ", ")

// extractWithGoquery strips boilerplate and keeps the first content container.
func extractWithGoquery(body []byte) (title, content string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", CollapseSpace(CleanHTML(string(body)))
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title, _ = doc.Find("meta[property='og:title']").First().Attr("content")
	}

	doc.Find(boilerplateSelectors).Remove()

	sel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	return strings.TrimSpace(title), CollapseSpace(sel.Text())
}

func capContent(s string) string {
	if cfg.MaxContentChars > 0 && len([]rune(s)) > cfg.MaxContentChars {
		return TruncateRunes(s, cfg.MaxContentChars, "...")
	}
	return s
}
