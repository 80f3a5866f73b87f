// Package spider builds meeting scrapers from declarative variants.
//
// Every spider is a *Spider created through Define, which refuses any
// definition lacking an agency, name or id. A Factory turns a list of
// config variants into spiders and records them in a Registry that the
// command line reads from. A spider's Parse method is the normalization
// pipeline: it walks the fragments of one document and lazily yields a
// meeting.Meeting per fragment, deriving status and id after every other
// field has been extracted.
package spider
