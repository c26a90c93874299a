package sources

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// PageTitle returns the og:title of a watch page, falling back to <title>
// without the " - YouTube" suffix. Best effort: "" when neither is present.
func PageTitle(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	var title string
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSuffix(strings.TrimSpace(title), " - YouTube")
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "meta":
				if attr(tok, "property") == "og:title" {
					if c := strings.TrimSpace(attr(tok, "content")); c != "" {
						return c
					}
				}
			case "title":
				inTitle = title == ""
			case "body":
				// meta tags live in <head>
				return strings.TrimSuffix(strings.TrimSpace(title), " - YouTube")
			}
		case html.TextToken:
			if inTitle {
				title += string(z.Text())
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.Data == "title" {
				inTitle = false
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
