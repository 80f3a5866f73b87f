// Package filter narrows scraped meetings down by date, classification and status.
//
// An empty Filter matches every meeting. Criteria combine with AND; values
// within one criterion combine with OR.
//
// Example usage:
//
//	f, err := filter.New("2026-03-01", "2026-03-31", []string{"Board"}, nil)
//	upcoming := f.Apply(meetings)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

// DateLayout is the layout accepted for --since and --until
const DateLayout = "2006-01-02"

// Filter represents meeting filtering criteria
type Filter struct {
	// Since and Until bound the meeting start date, inclusive
	Since *time.Time
	Until *time.Time

	// Classifications match case-insensitively
	Classifications []string

	// Statuses match case-insensitively
	Statuses []string
}

// New builds a filter from command-line values. Empty strings and nil
// slices leave a criterion unset.
func New(since, until string, classifications, statuses []string) (*Filter, error) {
	f := &Filter{
		Classifications: classifications,
		Statuses:        statuses,
	}

	if since != "" {
		t, err := time.Parse(DateLayout, since)
		if err != nil {
			return nil, fmt.Errorf("invalid since date %q (want YYYY-MM-DD)", since)
		}
		f.Since = &t
	}
	if until != "" {
		t, err := time.Parse(DateLayout, until)
		if err != nil {
			return nil, fmt.Errorf("invalid until date %q (want YYYY-MM-DD)", until)
		}
		// Include the whole final day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.Until = &end
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return nil, fmt.Errorf("since date must be before until date")
	}

	for _, s := range statuses {
		if !isStatus(s) {
			return nil, fmt.Errorf("invalid status %q", s)
		}
	}

	return f, nil
}

// IsEmpty reports whether the filter has no criteria
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Since == nil && f.Until == nil && len(f.Classifications) == 0 && len(f.Statuses) == 0)
}

// Matches checks whether a meeting satisfies every criterion.
// Date criteria compare calendar dates in the meeting's own timezone, and a
// meeting without a start never matches them.
func (f *Filter) Matches(m *meeting.Meeting) bool {
	if f.IsEmpty() {
		return true
	}

	if f.Since != nil || f.Until != nil {
		if m.Start.IsZero() {
			return false
		}
		day := time.Date(m.Start.Year(), m.Start.Month(), m.Start.Day(), 0, 0, 0, 0, time.UTC)
		if f.Since != nil && day.Before(*f.Since) {
			return false
		}
		if f.Until != nil && day.After(*f.Until) {
			return false
		}
	}

	if len(f.Classifications) > 0 && !containsFold(f.Classifications, m.Classification) {
		return false
	}
	if len(f.Statuses) > 0 && !containsFold(f.Statuses, m.Status) {
		return false
	}

	return true
}

// Apply returns the meetings that match, preserving order
func (f *Filter) Apply(meetings []*meeting.Meeting) []*meeting.Meeting {
	if f.IsEmpty() {
		return meetings
	}
	filtered := make([]*meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if f.Matches(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

func isStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case meeting.StatusCancelled, meeting.StatusTentative, meeting.StatusConfirmed, meeting.StatusPassed:
		return true
	}
	return false
}
