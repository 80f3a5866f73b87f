package spider

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/config"
	"github.com/pfrederiksen/city-scrapers/internal/document"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

// Item is one fragment being processed, with the spider's timezone
type Item struct {
	*document.Fragment
	Index    int
	Location *time.Location
}

// Extractor holds the per-field hooks a spider runs on each fragment.
// Hooks are called in declaration order.
type Extractor interface {
	Title(item *Item) (string, error)
	Description(item *Item) (string, error)
	Classification(item *Item) (string, error)
	Start(item *Item) (time.Time, error)
	End(item *Item) (time.Time, error)
	AllDay(item *Item) (bool, error)
	TimeNotes(item *Item) (string, error)
	Location(item *Item) (meeting.Location, error)
	Links(item *Item) ([]meeting.Link, error)
	Source(page Page) (string, error)
}

// StatusTexter is implemented by extractors that supply extra text for
// status resolution, such as a notice column next to the meeting.
type StatusTexter interface {
	StatusText(item *Item) string
}

// BaseExtractor implements every hook with the template defaults.
// Embed it and override only the hooks a site needs.
type BaseExtractor struct{}

// Title defaults to empty
func (BaseExtractor) Title(*Item) (string, error) { return "", nil }

// Description defaults to empty
func (BaseExtractor) Description(*Item) (string, error) { return "", nil }

// Classification defaults to meeting.NotClassified, never empty
func (BaseExtractor) Classification(*Item) (string, error) { return meeting.NotClassified, nil }

// Start defaults to no start time
func (BaseExtractor) Start(*Item) (time.Time, error) { return time.Time{}, nil }

// End defaults to no end time
func (BaseExtractor) End(*Item) (time.Time, error) { return time.Time{}, nil }

// AllDay defaults to false
func (BaseExtractor) AllDay(*Item) (bool, error) { return false, nil }

// TimeNotes defaults to empty
func (BaseExtractor) TimeNotes(*Item) (string, error) { return "", nil }

// Location defaults to an empty address and name
func (BaseExtractor) Location(*Item) (meeting.Location, error) {
	return meeting.Location{Address: "", Name: ""}, nil
}

// Links defaults to a single empty link
func (BaseExtractor) Links(*Item) ([]meeting.Link, error) {
	return []meeting.Link{{Href: "", Title: ""}}, nil
}

// Source defaults to the document URL
func (BaseExtractor) Source(page Page) (string, error) { return page.URL(), nil }

// SelectorExtractor reads fields with CSS selectors taken from a variant's
// field overrides. Hooks without a selector fall back to BaseExtractor.
type SelectorExtractor struct {
	BaseExtractor
	Fields config.Fields
}

// NewSelectorExtractor creates an extractor for the given field overrides
func NewSelectorExtractor(fields config.Fields) *SelectorExtractor {
	return &SelectorExtractor{Fields: fields}
}

func (e *SelectorExtractor) Title(item *Item) (string, error) {
	if e.Fields.Title == "" {
		return e.BaseExtractor.Title(item)
	}
	return item.Text(e.Fields.Title), nil
}

func (e *SelectorExtractor) Description(item *Item) (string, error) {
	if e.Fields.Description == "" {
		return e.BaseExtractor.Description(item)
	}
	return item.Text(e.Fields.Description), nil
}

// Classification maps the selected text onto a known classification
func (e *SelectorExtractor) Classification(item *Item) (string, error) {
	if e.Fields.Classification == "" {
		return e.BaseExtractor.Classification(item)
	}
	return meeting.Classify(item.Text(e.Fields.Classification)), nil
}

func (e *SelectorExtractor) Start(item *Item) (time.Time, error) {
	if e.Fields.Start == "" {
		return e.BaseExtractor.Start(item)
	}
	return e.parseTime(item, e.Fields.Start)
}

func (e *SelectorExtractor) End(item *Item) (time.Time, error) {
	if e.Fields.End == "" {
		return e.BaseExtractor.End(item)
	}
	return e.parseTime(item, e.Fields.End)
}

func (e *SelectorExtractor) TimeNotes(item *Item) (string, error) {
	if e.Fields.TimeNotes == "" {
		return e.BaseExtractor.TimeNotes(item)
	}
	return item.Text(e.Fields.TimeNotes), nil
}

func (e *SelectorExtractor) Location(item *Item) (meeting.Location, error) {
	loc, _ := e.BaseExtractor.Location(item)
	if e.Fields.LocationName != "" {
		loc.Name = item.Text(e.Fields.LocationName)
	}
	if e.Fields.LocationAddress != "" {
		loc.Address = item.Text(e.Fields.LocationAddress)
	}
	return loc, nil
}

// Links returns every anchor matched by the links selector, or the
// template placeholder when none match.
func (e *SelectorExtractor) Links(item *Item) ([]meeting.Link, error) {
	if e.Fields.Links == "" {
		return e.BaseExtractor.Links(item)
	}
	found := item.Fragment.Links(e.Fields.Links)
	if len(found) == 0 {
		return e.BaseExtractor.Links(item)
	}
	links := make([]meeting.Link, 0, len(found))
	for _, l := range found {
		links = append(links, meeting.Link{Href: l.Href, Title: l.Title})
	}
	return links, nil
}

// parseTime prefers a datetime attribute (as on <time> elements) over text.
// Empty values mean no time; non-empty values that do not parse are errors.
func (e *SelectorExtractor) parseTime(item *Item, selector string) (time.Time, error) {
	layout := e.Fields.DateLayout
	text := item.Attr(selector, "datetime")
	if text == "" {
		text = item.Attr(selector+" [datetime]", "datetime")
	}
	if text != "" {
		layout = ""
	} else {
		text = item.Text(selector)
	}
	if text == "" {
		return time.Time{}, nil
	}

	t := meeting.ParseTime(text, layout, item.Location)
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("unrecognized date %q", text)
	}
	return t, nil
}
