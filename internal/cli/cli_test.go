package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/city-scrapers/internal/config"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
	"github.com/pfrederiksen/city-scrapers/internal/spider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const councilPage = `
<html>
	<body>
		<ul>
			<li class="meetings">
				<span class="title">Regular Meeting</span>
				<span class="date">March 13, 2026 6:00 PM</span>
				<a href="/agenda.pdf">Agenda</a>
			</li>
			<li class="meetings">
				<span class="title">Budget Hearing - Cancelled</span>
				<span class="date">February 2, 2026 10:00 AM</span>
			</li>
			<li class="meetings">
				<span class="title">Annual Retreat</span>
				<span class="date">whenever</span>
			</li>
		</ul>
	</body>
</html>
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvLogLevel, config.EnvUserAgent, config.EnvRate} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spiders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func councilConfig(startURL string) string {
	return fmt.Sprintf(`
spiders:
  - type: TestCouncil
    name: test_council
    agency: Test City Council
    id: test_council
    start_urls: [%q]
    fields:
      title: span.title
      start: span.date
      links: a
`, startURL)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCmd(t *testing.T) {
	clearEnv(t)

	out, _, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "example_spider_1")
	assert.Contains(t, out, "Example Agency 2")

	out, _, err = run(t, "list", "--format", "json")
	require.NoError(t, err)

	var infos []spiderInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "example_spider_1", infos[0].Name)
	assert.Equal(t, "ExampleSpider1", infos[0].Type)
	assert.Equal(t, "America/Chicago", infos[0].Timezone)
}

func TestValidateCmd(t *testing.T) {
	clearEnv(t)

	out, _, err := run(t, "validate", "--config", writeConfig(t, councilConfig("https://www.example.com/")))
	require.NoError(t, err)
	assert.Equal(t, "OK: 1 spiders registered\n", out)
}

func TestValidateCmd_DefinitionError(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
spiders:
  - type: Incomplete
    name: incomplete
    id: incomplete
`)

	_, _, err := run(t, "validate", "--config", path)
	var defErr *spider.DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "Incomplete must define the following field(s): agency.", err.Error())
}

func TestCrawlCmd(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(councilPage)) // nolint:errcheck
	}))
	defer server.Close()
	path := writeConfig(t, councilConfig(server.URL+"/meetings"))

	out, _, err := run(t, "crawl", "test_council", "--config", path, "--format", "json", "--sort", "start", "--rate", "0")
	require.NoError(t, err)

	var result struct {
		Spiders  []string           `json:"spiders"`
		Meetings []*meeting.Meeting `json:"meetings"`
		Count    int                `json:"count"`
		Failures int                `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, []string{"test_council"}, result.Spiders)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.Failures)
	require.Len(t, result.Meetings, 2)

	assert.Equal(t, "Budget Hearing - Cancelled", result.Meetings[0].Title, "sorted by start")
	assert.Equal(t, meeting.StatusCancelled, result.Meetings[0].Status)
	assert.Equal(t, "Regular Meeting", result.Meetings[1].Title)
	assert.Equal(t, server.URL+"/agenda.pdf", result.Meetings[1].Links[0].Href)
	assert.Equal(t, server.URL+"/meetings", result.Meetings[1].Source)
	assert.Equal(t, "test_council/202603131800/x/regular_meeting", result.Meetings[1].ID)
}

func TestCrawlCmd_VerboseLogsMetrics(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(councilPage)) // nolint:errcheck
	}))
	defer server.Close()
	path := writeConfig(t, councilConfig(server.URL))

	_, stderr, err := run(t, "crawl", "--all", "--config", path, "--rate", "0", "--verbose")
	require.NoError(t, err)

	var metrics map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "crawl metrics" {
			metrics = entry
		}
	}
	require.NotNil(t, metrics, "verbose crawl should log a metrics entry")
	assert.Contains(t, metrics, "meetings.emitted")
	assert.Contains(t, metrics, "pages.fetched")
	assert.Contains(t, metrics, "crawl.spider.count")
}

func TestCrawlCmd_ICS(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(councilPage)) // nolint:errcheck
	}))
	defer server.Close()
	path := writeConfig(t, councilConfig(server.URL))

	out, _, err := run(t, "crawl", "--all", "--config", path, "--format", "ics", "--rate", "0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "STATUS:CANCELLED")
}

func TestCrawlCmd_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no spiders named", []string{"crawl"}, "--all"},
		{"unknown spider", []string{"crawl", "nope", "missing"}, "unknown spider: nope, missing"},
		{"bad format", []string{"crawl", "--all", "--format", "xml"}, "invalid format"},
		{"bad sort", []string{"crawl", "--all", "--sort", "size"}, "invalid sort order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCrawlCmd_FetchFailure(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	path := writeConfig(t, councilConfig(server.URL))

	out, stderr, err := run(t, "crawl", "--all", "--config", path, "--rate", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.Contains(t, out, "No meetings found.")
	assert.Contains(t, stderr, "fetch failed")
}

func TestParseCmd(t *testing.T) {
	clearEnv(t)
	page := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(page, []byte(councilPage), 0644))
	path := writeConfig(t, councilConfig("https://council.example.gov/meetings"))

	out, stderr, err := run(t, "parse", "test_council", page, "--config", path, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "test_council (2 meetings):")
	assert.Contains(t, out, "2026-03-13 18:00  Regular Meeting [")
	assert.Contains(t, out, "Link: https://council.example.gov/agenda.pdf (Agenda)")
	assert.Contains(t, out, "Failed: 1 fragments could not be parsed")
	assert.Contains(t, stderr, "meeting extraction failed")
}

func TestParseCmd_UnknownSpider(t *testing.T) {
	clearEnv(t)
	_, _, err := run(t, "parse", "missing", "page.html")
	assert.ErrorIs(t, err, spider.ErrUnknownSpider)
}

func TestParseCmd_Filter(t *testing.T) {
	clearEnv(t)
	page := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(page, []byte(councilPage), 0644))
	path := writeConfig(t, councilConfig("https://council.example.gov/meetings"))

	tests := []struct {
		name      string
		args      []string
		wantTitle []string
	}{
		{"since", []string{"--since", "2026-03-01"}, []string{"Regular Meeting"}},
		{"until", []string{"--until", "2026-02-02"}, []string{"Budget Hearing - Cancelled"}},
		{"status", []string{"--status", "cancelled"}, []string{"Budget Hearing - Cancelled"}},
		{"classification", []string{"--classification", "Board"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"parse", "test_council", page, "--config", path, "--format", "json"}, tt.args...)
			out, _, err := run(t, args...)
			require.NoError(t, err)

			var result struct {
				Meetings []*meeting.Meeting `json:"meetings"`
				Count    int                `json:"count"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &result))

			var titles []string
			for _, m := range result.Meetings {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.wantTitle, titles)
			assert.Equal(t, len(tt.wantTitle), result.Count)
		})
	}

	_, _, err := run(t, "parse", "test_council", page, "--config", path, "--since", "yesterday")
	assert.ErrorContains(t, err, "invalid since date")
}
