package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/calendar"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
	"github.com/pfrederiksen/city-scrapers/internal/spider"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time                     `json:"checked_at"`
	Spiders   []string                      `json:"spiders"`
	Meetings  []*meeting.Meeting            `json:"meetings"`
	Count     int                           `json:"count"`
	Failures  int                           `json:"failures"`
	BySpider  map[string][]*meeting.Meeting `json:"-"`
}

// add records a meeting produced by the named spider
func (r *OutputResult) add(spiderName string, m *meeting.Meeting) {
	if r.BySpider == nil {
		r.BySpider = make(map[string][]*meeting.Meeting)
	}
	r.Meetings = append(r.Meetings, m)
	r.BySpider[spiderName] = append(r.BySpider[spiderName], m)
	r.Count++
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		name := "City Scrapers"
		if len(result.Spiders) == 1 {
			name = result.Spiders[0]
		}
		_, err := io.WriteString(w, calendar.GenerateICS(result.Meetings, name))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Meetings == nil {
		result.Meetings = []*meeting.Meeting{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text, grouped by spider
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No meetings found.")
		return nil
	}

	names := make([]string, 0, len(result.BySpider))
	for name := range result.BySpider {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		meetings := result.BySpider[name]
		fmt.Fprintf(w, "\n%s (%d meetings):\n", name, len(meetings))
		for _, m := range meetings {
			fmt.Fprintf(w, "  %s  %s [%s]\n", formatStart(m), m.Title, m.Status)
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", m.ID)
				fmt.Fprintf(w, "       Classification: %s\n", m.Classification)
				if m.Location.Name != "" || m.Location.Address != "" {
					fmt.Fprintf(w, "       Location: %s %s\n", m.Location.Name, m.Location.Address)
				}
				for _, link := range m.Links {
					if link.Href != "" {
						fmt.Fprintf(w, "       Link: %s (%s)\n", link.Href, link.Title)
					}
				}
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d meetings across %d spiders\n", result.Count, len(result.BySpider))
	if result.Failures > 0 {
		fmt.Fprintf(w, "Failed: %d fragments could not be parsed\n", result.Failures)
	}
	return nil
}

func formatStart(m *meeting.Meeting) string {
	switch {
	case m.Start.IsZero():
		return "(no date)       "
	case m.AllDay:
		return m.Start.Format("2006-01-02") + "      "
	default:
		return m.Start.Format("2006-01-02 15:04")
	}
}

// spiderInfo is the listing shape of a registered spider
type spiderInfo struct {
	Name      string   `json:"name"`
	Agency    string   `json:"agency"`
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Timezone  string   `json:"timezone"`
	StartURLs []string `json:"start_urls"`
}

// writeSpiders lists registered spiders
func writeSpiders(w io.Writer, spiders []*spider.Spider, format OutputFormat) error {
	infos := make([]spiderInfo, 0, len(spiders))
	for _, sp := range spiders {
		infos = append(infos, spiderInfo{
			Name:      sp.Name(),
			Agency:    sp.Agency(),
			ID:        sp.ID(),
			Type:      sp.Type(),
			Timezone:  sp.Timezone(),
			StartURLs: sp.StartURLs(),
		})
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tAGENCY\tID\tTYPE")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Agency, info.ID, info.Type)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
