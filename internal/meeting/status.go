package meeting

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// cancelWords mark a meeting as cancelled when found in its text
var cancelWords = []string{"cancel", "rescheduled", "postpone"}

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Status resolves the status of an assembled meeting.
//
// The title, description and any extra text are searched for cancellation
// wording first. Otherwise a meeting whose start is before now has passed,
// and anything else is tentative.
func Status(m *Meeting, text string, now time.Time) string {
	combined := strings.ToLower(strings.Join([]string{m.Title, m.Description, text}, " "))
	for _, word := range cancelWords {
		if strings.Contains(combined, word) {
			return StatusCancelled
		}
	}
	if m.IsPast(now) {
		return StatusPassed
	}
	return StatusTentative
}

// ID creates a deterministic identifier for a meeting scraped by the named spider.
// The format is "<spider>/<YYYYMMDDhhmm>/x/<title_slug>".
func ID(spiderName string, m *Meeting) string {
	start := "000000000000"
	if !m.Start.IsZero() {
		start = m.Start.Format("200601021504")
	}
	return fmt.Sprintf("%s/%s/x/%s", spiderName, start, TitleSlug(m.Title))
}

// TitleSlug lowercases a title and joins its alphanumeric runs with underscores
func TitleSlug(title string) string {
	slug := nonAlphanumeric.ReplaceAllString(title, "_")
	return strings.ToLower(strings.Trim(slug, "_"))
}
