package meeting

import (
	"strings"
	"time"
)

// DefaultLayouts are tried in order when a spider does not configure a layout
var DefaultLayouts = []string{
	time.RFC3339,
	"January 2, 2006 3:04 PM",
	"January 2, 2006 3:04PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2 2006 3:04 PM",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 02 2006",
	"Jan 2 2006",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1.2.06",
	"2006-01-02",
}

// ParseTime parses meeting date text as a naive local time in loc.
// When layout is empty DefaultLayouts are tried in order.
// Returns time.Time{} (zero value) if parsing fails.
func ParseTime(text, layout string, loc *time.Location) time.Time {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}

	layouts := DefaultLayouts
	if layout != "" {
		layouts = []string{layout}
	}

	for _, l := range layouts {
		t, err := time.ParseInLocation(l, text, loc)
		if err == nil {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}
