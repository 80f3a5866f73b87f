// Package cli implements the command-line interface for city-scrapers.
//
// The cli package provides the Cobra-based commands that build the spider
// registry from configuration (list, validate), run spiders against their
// start URLs or a saved page (crawl, parse), and write the resulting meetings
// as text, JSON or an iCalendar feed.
package cli
