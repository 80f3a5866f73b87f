package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone = "America/Chicago"
	DefaultStartURL = "https://www.example.com/"
	DefaultSelector = ".meetings"
)

// File is the on-disk shape of a variant list
type File struct {
	Spiders []Variant `yaml:"spiders"`
}

// Variant is one declarative spider definition.
// Type identifies the variant; it must be unique within a process and a
// repeated Type is ignored by the factory.
type Variant struct {
	Type      string   `yaml:"type" json:"type"`
	Name      string   `yaml:"name" json:"name"`
	Agency    string   `yaml:"agency" json:"agency"`
	ID        string   `yaml:"id" json:"id"`
	Timezone  string   `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	StartURLs []string `yaml:"start_urls,omitempty" json:"start_urls,omitempty"`
	Selector  string   `yaml:"selector,omitempty" json:"selector,omitempty"`
	Fields    Fields   `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Fields holds per-variant selector overrides, relative to a fragment.
// Empty selectors keep the template defaults.
type Fields struct {
	Title           string `yaml:"title,omitempty" json:"title,omitempty"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	Classification  string `yaml:"classification,omitempty" json:"classification,omitempty"`
	Start           string `yaml:"start,omitempty" json:"start,omitempty"`
	End             string `yaml:"end,omitempty" json:"end,omitempty"`
	DateLayout      string `yaml:"date_layout,omitempty" json:"date_layout,omitempty"`
	TimeNotes       string `yaml:"time_notes,omitempty" json:"time_notes,omitempty"`
	LocationName    string `yaml:"location_name,omitempty" json:"location_name,omitempty"`
	LocationAddress string `yaml:"location_address,omitempty" json:"location_address,omitempty"`
	Links           string `yaml:"links,omitempty" json:"links,omitempty"`
}

// Default returns the built-in example variants
func Default() []Variant {
	return []Variant{
		{
			Type:   "ExampleSpider1",
			Name:   "example_spider_1",
			Agency: "Example Agency 1",
			ID:     "example_agency_1",
		},
		{
			Type:   "ExampleSpider2",
			Name:   "example_spider_2",
			Agency: "Example Agency 2",
			ID:     "example_agency_2",
		},
	}
}

// Load reads a variant list from a YAML file.
// An empty path returns Default().
func Load(path string) ([]Variant, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML variant list. Unknown keys are rejected so typos in
// selector names do not silently fall back to defaults.
func Parse(data []byte) ([]Variant, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for i, v := range f.Spiders {
		if v.Type == "" {
			return nil, fmt.Errorf("parsing config: spider %d (name %q) has no type", i, v.Name)
		}
	}
	return f.Spiders, nil
}

// WithDefaults returns a copy of v with timezone, start URLs and selector filled in
func (v Variant) WithDefaults() Variant {
	if v.Timezone == "" {
		v.Timezone = DefaultTimezone
	}
	if len(v.StartURLs) == 0 {
		v.StartURLs = []string{DefaultStartURL}
	} else {
		v.StartURLs = append([]string(nil), v.StartURLs...)
	}
	if v.Selector == "" {
		v.Selector = DefaultSelector
	}
	return v
}
