package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortByDate   SortOrder = "start"
	SortByTitle  SortOrder = "title"
	SortByStatus SortOrder = "status"
)

// ParseSortOrder validates a --sort flag value
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortByDate, SortByTitle, SortByStatus:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'start', 'title' or 'status')", s)
}

// sortMeetings sorts meetings in place. SortNone keeps crawl order.
func sortMeetings(meetings []*meeting.Meeting, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(meetings, func(i, j int) bool {
			return compareByStart(meetings[i], meetings[j])
		})
	case SortByTitle:
		sort.SliceStable(meetings, func(i, j int) bool {
			ti, tj := strings.ToLower(meetings[i].Title), strings.ToLower(meetings[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByStart(meetings[i], meetings[j])
		})
	case SortByStatus:
		sort.SliceStable(meetings, func(i, j int) bool {
			if meetings[i].Status != meetings[j].Status {
				return meetings[i].Status < meetings[j].Status
			}
			return compareByStart(meetings[i], meetings[j])
		})
	}
}

// compareByStart returns true if meeting i should come before meeting j.
// Meetings without a start sort last, by title.
func compareByStart(i, j *meeting.Meeting) bool {
	if !i.Start.IsZero() && !j.Start.IsZero() {
		return i.Start.Before(j.Start)
	}
	if !i.Start.IsZero() {
		return true
	}
	if !j.Start.IsZero() {
		return false
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
