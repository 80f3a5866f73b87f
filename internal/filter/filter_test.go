package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

func testMeetings() []*meeting.Meeting {
	chicago := time.FixedZone("CST", -6*3600)
	return []*meeting.Meeting{
		{ID: "board-mar", Classification: meeting.Board, Status: meeting.StatusTentative, Start: time.Date(2026, 3, 5, 18, 0, 0, 0, chicago)},
		{ID: "council-mar-late", Classification: meeting.CityCouncil, Status: meeting.StatusCancelled, Start: time.Date(2026, 3, 31, 22, 30, 0, 0, chicago)},
		{ID: "board-apr", Classification: meeting.Board, Status: meeting.StatusTentative, Start: time.Date(2026, 4, 1, 9, 0, 0, 0, chicago)},
		{ID: "undated", Classification: meeting.NotClassified, Status: meeting.StatusTentative},
	}
}

func ids(meetings []*meeting.Meeting) []string {
	out := make([]string, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, m.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name            string
		since, until    string
		classifications []string
		statuses        []string
		want            []string
	}{
		{
			name: "empty filter matches all",
			want: []string{"board-mar", "council-mar-late", "board-apr", "undated"},
		},
		{
			name:  "march only, late evening stays in march",
			since: "2026-03-01",
			until: "2026-03-31",
			want:  []string{"board-mar", "council-mar-late"},
		},
		{
			name:  "since only",
			since: "2026-04-01",
			want:  []string{"board-apr"},
		},
		{
			name:            "classification is case-insensitive",
			classifications: []string{"board"},
			want:            []string{"board-mar", "board-apr"},
		},
		{
			name:     "status",
			statuses: []string{"cancelled"},
			want:     []string{"council-mar-late"},
		},
		{
			name:            "criteria combine",
			until:           "2026-03-31",
			classifications: []string{"Board", "City Council"},
			statuses:        []string{"tentative"},
			want:            []string{"board-mar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.since, tt.until, tt.classifications, tt.statuses)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			got := ids(f.Apply(testMeetings()))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Apply()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name         string
		since, until string
		statuses     []string
	}{
		{name: "bad since", since: "March 1"},
		{name: "bad until", until: "2026/03/31"},
		{name: "reversed range", since: "2026-04-01", until: "2026-03-01"},
		{name: "unknown status", statuses: []string{"maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.since, tt.until, nil, tt.statuses); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var nilFilter *Filter
	if !nilFilter.IsEmpty() {
		t.Error("nil filter should be empty")
	}

	f, err := New("", "", nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("filter without criteria should be empty")
	}
	if !f.Matches(&meeting.Meeting{}) {
		t.Error("empty filter should match everything")
	}
}
