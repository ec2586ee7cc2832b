package discovery

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is one anchor from an index page.
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// LinkExtractor returns every anchor's href and visible label, in
// document order. Anchors without an href are skipped.
type LinkExtractor interface {
	ExtractLinks(page string) []Link
}

// HTMLExtractor tokenizes markup with golang.org/x/net/html.
// Nested markup inside an anchor contributes its text to the label.
type HTMLExtractor struct{}

// ExtractLinks implements LinkExtractor. Malformed markup yields whatever
// anchors were recognised before the tokenizer gave up.
func (HTMLExtractor) ExtractLinks(page string) []Link {
	var (
		links []Link
		inA   bool
		href  string
		label strings.Builder
	)
	z := html.NewTokenizer(strings.NewReader(page))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure; either way the page is done.
			return links
		case html.StartTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.A {
				continue
			}
			h, ok := attr(tok, "href")
			// A nested <a> closes the previous one, as browsers do.
			if inA {
				links = append(links, Link{Href: href, Label: strings.TrimSpace(label.String())})
			}
			inA, href = ok, h
			label.Reset()
		case html.EndTagToken:
			if inA && z.Token().DataAtom == atom.A {
				links = append(links, Link{Href: href, Label: strings.TrimSpace(label.String())})
				inA = false
			}
		case html.TextToken:
			if inA {
				label.Write(z.Text())
			}
		}
	}
}

func attr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
