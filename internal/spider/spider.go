package spider

import (
	"iter"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/config"
	"github.com/pfrederiksen/city-scrapers/internal/document"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

const (
	DefaultTimezone = config.DefaultTimezone
	DefaultStartURL = config.DefaultStartURL
	DefaultSelector = config.DefaultSelector
)

// Page is a fetched document as seen by a spider
type Page interface {
	URL() string
	Fragments(selector string) []*document.Fragment
}

// Spider scrapes meetings for one agency
type Spider struct {
	typeName  string
	name      string
	agency    string
	id        string
	timezone  string
	location  *time.Location
	startURLs []string
	selector  string
	extractor Extractor
	now       func() time.Time
}

// Type returns the variant identifier the spider was defined under
func (s *Spider) Type() string { return s.typeName }

// Name returns the spider's unique slug
func (s *Spider) Name() string { return s.name }

// Agency returns the display name of the agency
func (s *Spider) Agency() string { return s.agency }

// ID returns the key distinguishing agencies that share a website
func (s *Spider) ID() string { return s.id }

// Timezone returns the IANA timezone meeting times are read in
func (s *Spider) Timezone() string { return s.timezone }

// StartURLs returns a copy of the seed URLs
func (s *Spider) StartURLs() []string { return append([]string(nil), s.startURLs...) }

// Selector returns the CSS selector that splits a page into meeting fragments
func (s *Spider) Selector() string { return s.selector }

// Abstract reports whether any identity field is still a Placeholder
func (s *Spider) Abstract() bool {
	return s.name == Placeholder || s.agency == Placeholder || s.id == Placeholder
}

// Parse yields one meeting per fragment of page, in document order.
//
// Fragments are processed one at a time: a meeting is fully built and
// yielded before the next fragment is read. When a hook fails the sequence
// yields a nil meeting with an *ExtractionError and moves on to the next
// fragment. The sequence can be ranged over more than once.
func (s *Spider) Parse(page Page) iter.Seq2[*meeting.Meeting, error] {
	return func(yield func(*meeting.Meeting, error) bool) {
		for i, fragment := range page.Fragments(s.selector) {
			item := &Item{Fragment: fragment, Index: i, Location: s.location}

			m, err := s.parseItem(page, item)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// parseItem runs every hook in order, then derives status and id from the
// assembled meeting.
func (s *Spider) parseItem(page Page, item *Item) (*meeting.Meeting, error) {
	var (
		m   meeting.Meeting
		err error
	)
	fail := func(hook string, err error) error {
		return &ExtractionError{Spider: s.name, URL: page.URL(), Index: item.Index, Hook: hook, Err: err}
	}

	if m.Title, err = s.extractor.Title(item); err != nil {
		return nil, fail("title", err)
	}
	if m.Description, err = s.extractor.Description(item); err != nil {
		return nil, fail("description", err)
	}
	if m.Classification, err = s.extractor.Classification(item); err != nil {
		return nil, fail("classification", err)
	}
	if m.Start, err = s.extractor.Start(item); err != nil {
		return nil, fail("start", err)
	}
	if m.End, err = s.extractor.End(item); err != nil {
		return nil, fail("end", err)
	}
	if m.AllDay, err = s.extractor.AllDay(item); err != nil {
		return nil, fail("all_day", err)
	}
	if m.TimeNotes, err = s.extractor.TimeNotes(item); err != nil {
		return nil, fail("time_notes", err)
	}
	if m.Location, err = s.extractor.Location(item); err != nil {
		return nil, fail("location", err)
	}
	if m.Links, err = s.extractor.Links(item); err != nil {
		return nil, fail("links", err)
	}
	if m.Source, err = s.extractor.Source(page); err != nil {
		return nil, fail("source", err)
	}

	if m.Classification == "" {
		m.Classification = meeting.NotClassified
	}

	var statusText string
	if st, ok := s.extractor.(StatusTexter); ok {
		statusText = st.StatusText(item)
	}
	m.Status = meeting.Status(&m, statusText, s.now())
	m.ID = meeting.ID(s.name, &m)

	return &m, nil
}
