package document

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed page together with the URL it was fetched from
type Document struct {
	doc *goquery.Document
	url string
}

// Parse reads HTML from r. pageURL is kept as the document's own URL and is
// used to resolve relative links.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if u, err := url.Parse(pageURL); err == nil {
		doc.Url = u
	}
	return &Document{doc: doc, url: pageURL}, nil
}

// URL returns the URL the document was fetched from
func (d *Document) URL() string {
	return d.url
}

// Fragments returns every element matching selector, in document order
func (d *Document) Fragments(selector string) []*Fragment {
	sel := d.doc.Find(selector)
	fragments := make([]*Fragment, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		fragments = append(fragments, &Fragment{sel: s, base: d.doc.Url})
	})
	return fragments
}

// Fragment is one matched element of a document
type Fragment struct {
	sel  *goquery.Selection
	base *url.URL
}

// NewFragment wraps a goquery selection, mainly for spiders that select
// nested elements themselves.
func NewFragment(sel *goquery.Selection, base *url.URL) *Fragment {
	return &Fragment{sel: sel, base: base}
}

// Selection exposes the underlying goquery selection
func (f *Fragment) Selection() *goquery.Selection {
	return f.sel
}

// Text returns the whitespace-collapsed text of the first element matching
// selector inside the fragment. An empty selector means the fragment itself.
func (f *Fragment) Text(selector string) string {
	return collapse(f.find(selector).First().Text())
}

// Attr returns an attribute of the first element matching selector
func (f *Fragment) Attr(selector, name string) string {
	v, _ := f.find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// Links returns the href and text of every anchor matching selector.
// Relative hrefs are resolved against the document URL.
func (f *Fragment) Links(selector string) []Link {
	if selector == "" {
		selector = "a[href]"
	}
	links := make([]Link, 0)
	f.sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		links = append(links, Link{
			Href:  f.resolve(strings.TrimSpace(href)),
			Title: collapse(s.Text()),
		})
	})
	return links
}

// Link is an anchor found inside a fragment
type Link struct {
	Href  string
	Title string
}

func (f *Fragment) find(selector string) *goquery.Selection {
	if selector == "" {
		return f.sel
	}
	return f.sel.Find(selector)
}

func (f *Fragment) resolve(href string) string {
	if f.base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return f.base.ResolveReference(ref).String()
}

// collapse trims text and folds internal whitespace runs into single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
