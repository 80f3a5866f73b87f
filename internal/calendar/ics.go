// Package calendar renders meetings as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/meeting"
)

// DefaultDuration is used for meetings without an end time
const DefaultDuration = 2 * time.Hour

// GenerateICS renders meetings as one VCALENDAR named calName.
// Meetings without a start time are left out; if none remain the result is "".
func GenerateICS(meetings []*meeting.Meeting, calName string) string {
	var events strings.Builder
	stamp := formatICSTime(time.Now())
	count := 0
	for _, m := range meetings {
		if m == nil || m.Start.IsZero() {
			continue
		}
		writeEvent(&events, m, stamp)
		count++
	}
	if count == 0 {
		return ""
	}

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//City Scrapers//city-scrapers//EN")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if calName != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(calName))
	}
	ics.WriteString(events.String())
	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(b *strings.Builder, m *meeting.Meeting, stamp string) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, fmt.Sprintf("UID:%s@city-scrapers", escapeICS(m.ID)))
	writeLine(b, "DTSTAMP:"+stamp)

	if m.AllDay {
		end := m.End
		if !m.HasEnd() || !end.After(m.Start) {
			end = m.Start.AddDate(0, 0, 1)
		}
		writeLine(b, "DTSTART;VALUE=DATE:"+m.Start.Format("20060102"))
		writeLine(b, "DTEND;VALUE=DATE:"+end.Format("20060102"))
	} else {
		end := m.End
		if !m.HasEnd() || !end.After(m.Start) {
			end = m.Start.Add(DefaultDuration)
		}
		writeLine(b, "DTSTART:"+formatICSTime(m.Start))
		writeLine(b, "DTEND:"+formatICSTime(end))
	}

	writeLine(b, "SUMMARY:"+escapeICS(m.Title))

	description := m.Description
	if m.TimeNotes != "" {
		description = strings.TrimSpace(description + "\n\n" + m.TimeNotes)
	}
	if description != "" {
		writeLine(b, "DESCRIPTION:"+escapeICS(description))
	}

	if location := formatLocation(m.Location); location != "" {
		writeLine(b, "LOCATION:"+escapeICS(location))
	}
	if m.Source != "" {
		writeLine(b, "URL:"+m.Source)
	}
	if m.Classification != "" && m.Classification != meeting.NotClassified {
		writeLine(b, "CATEGORIES:"+escapeICS(m.Classification))
	}
	writeLine(b, "STATUS:"+icsStatus(m.Status))
	writeLine(b, "END:VEVENT")
}

func formatLocation(loc meeting.Location) string {
	switch {
	case loc.Name != "" && loc.Address != "":
		return loc.Name + ", " + loc.Address
	case loc.Name != "":
		return loc.Name
	default:
		return loc.Address
	}
}

// icsStatus maps meeting statuses onto VEVENT STATUS values
func icsStatus(status string) string {
	switch status {
	case meeting.StatusCancelled:
		return "CANCELLED"
	case meeting.StatusTentative:
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes a content line, folding it at 75 octets
func writeLine(b *strings.Builder, line string) {
	// 75 octets per line, including the leading space of continuations
	limit := 75
	for len(line) > limit {
		cut := limit
		// never split a UTF-8 sequence
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = 74
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
