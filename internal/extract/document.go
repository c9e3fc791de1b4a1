// Package extract locates structured marketing content in landing-page
// HTML through per-field strategy cascades, and orchestrates the
// fetch -> extract -> cache pipeline.
package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Document is an immutable parsed page shared by all field extractors.
type Document struct {
	doc      *goquery.Document
	bodyText string
}

// ParseDocument parses raw markup. Script, style and noscript subtrees
// are dropped so text queries see only rendered content.
func ParseDocument(raw []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse document")
	}
	doc.Find("script, style, noscript").Remove()
	return &Document{doc: doc}, nil
}

// Texts returns the cleaned text of every node matching selector, in
// document order. Empty texts are skipped.
func (d *Document) Texts(selector string) []string {
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := cleanText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// FirstText returns the cleaned text of the first node matching selector.
func (d *Document) FirstText(selector string) string {
	return cleanText(d.doc.Find(selector).First().Text())
}

// Meta returns the content attribute of the first node matching selector.
func (d *Document) Meta(selector string) string {
	v, _ := d.doc.Find(selector).First().Attr("content")
	return cleanText(v)
}

// BodyText returns the page's full visible text, computed once.
func (d *Document) BodyText() string {
	if d.bodyText == "" {
		d.bodyText = cleanText(d.doc.Find("body").Text())
	}
	return d.bodyText
}

// cleanText collapses runs of whitespace into single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
