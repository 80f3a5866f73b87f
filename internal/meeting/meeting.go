package meeting

import (
	"time"
)

// Classifications a meeting can carry.
const (
	AdvisoryCommittee = "Advisory Committee"
	Board             = "Board"
	CityCouncil       = "City Council"
	Commission        = "Commission"
	Committee         = "Committee"
	Forum             = "Forum"
	PoliceBeat        = "Police Beat"
	NotClassified     = "Not classified"
)

// Statuses derived for a meeting.
const (
	StatusCancelled = "cancelled"
	StatusTentative = "tentative"
	StatusConfirmed = "confirmed"
	StatusPassed    = "passed"
)

// Location is where a meeting takes place
type Location struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Link is an outbound document attached to a meeting (agenda, minutes, video)
type Link struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// Meeting is the normalized record emitted for one document fragment
type Meeting struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Classification string    `json:"classification"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end,omitzero"`
	AllDay         bool      `json:"all_day"`
	TimeNotes      string    `json:"time_notes"`
	Location       Location  `json:"location"`
	Links          []Link    `json:"links"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	ID             string    `json:"id"`
}

// HasEnd reports whether an end time was extracted
func (m *Meeting) HasEnd() bool {
	return !m.End.IsZero()
}

// IsPast checks if the meeting started before now.
// Returns false if no start time was extracted.
func (m *Meeting) IsPast(now time.Time) bool {
	if m.Start.IsZero() {
		return false
	}
	return m.Start.Before(now)
}
