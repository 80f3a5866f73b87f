// Package document wraps a fetched HTML page for spiders.
//
// A Document exposes the page URL and splits the page into fragments using a
// CSS selector. Fragments offer small text, attribute and link helpers on top
// of goquery so spiders never deal with HTML parsing directly.
package document
