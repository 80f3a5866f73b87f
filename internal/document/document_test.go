package document

import (
	"strings"
	"testing"
)

const sampleHTML = `
<html>
	<body>
		<div class="meetings">
			<h3>  Board   Meeting </h3>
			<span class="date">March 13, 2026 6:00 PM</span>
			<a href="/agendas/1.pdf">Agenda</a>
			<a href="https://other.example.org/minutes.pdf"> Minutes </a>
		</div>
		<div class="meetings">
			<h3>Finance Committee</h3>
			<address data-room="4B">121 N LaSalle St</address>
		</div>
		<div class="other">Not a meeting</div>
	</body>
</html>
`

func TestFragments(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHTML), "https://www.example.com/meetings/")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if doc.URL() != "https://www.example.com/meetings/" {
		t.Errorf("URL() = %q, want page URL", doc.URL())
	}

	fragments := doc.Fragments(".meetings")
	if len(fragments) != 2 {
		t.Fatalf("Fragments() returned %d fragments, want 2", len(fragments))
	}

	if got := fragments[0].Text("h3"); got != "Board Meeting" {
		t.Errorf("Text(h3) = %q, want %q", got, "Board Meeting")
	}
	if got := fragments[1].Text("h3"); got != "Finance Committee" {
		t.Errorf("Text(h3) = %q, want %q", got, "Finance Committee")
	}
	if got := fragments[1].Attr("address", "data-room"); got != "4B" {
		t.Errorf("Attr() = %q, want 4B", got)
	}
	if got := fragments[1].Text("missing"); got != "" {
		t.Errorf("Text(missing) = %q, want empty", got)
	}
}

func TestFragments_NoMatches(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><body><p>Nothing here</p></body></html>`), "https://www.example.com/")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := doc.Fragments(".meetings"); len(got) != 0 {
		t.Errorf("Fragments() returned %d fragments, want 0", len(got))
	}
}

func TestLinks(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHTML), "https://www.example.com/meetings/")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	links := doc.Fragments(".meetings")[0].Links("")
	if len(links) != 2 {
		t.Fatalf("Links() returned %d links, want 2", len(links))
	}

	want := []Link{
		{Href: "https://www.example.com/agendas/1.pdf", Title: "Agenda"},
		{Href: "https://other.example.org/minutes.pdf", Title: "Minutes"},
	}
	for i, link := range links {
		if link != want[i] {
			t.Errorf("Links()[%d] = %+v, want %+v", i, link, want[i])
		}
	}
}

func TestText_FragmentItself(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<ul><li class="meetings"> Regular
	Meeting </li></ul>`), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	fragments := doc.Fragments(".meetings")
	if len(fragments) != 1 {
		t.Fatalf("Fragments() returned %d fragments, want 1", len(fragments))
	}
	if got := fragments[0].Text(""); got != "Regular Meeting" {
		t.Errorf("Text(\"\") = %q, want %q", got, "Regular Meeting")
	}
}
