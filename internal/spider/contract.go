package spider

import (
	"fmt"
	"time"
	_ "time/tzdata" // spiders must resolve their timezone on hosts without zoneinfo
)

// RequiredFields every spider definition must supply, in reporting order
var RequiredFields = []string{"agency", "name", "id"}

// Placeholder marks a required field that must be overridden. It satisfies
// the contract but leaves the spider abstract.
const Placeholder = "<must be overridden>"

// Attributes is the full field set of a proposed spider
type Attributes struct {
	Name      string
	Agency    string
	ID        string
	Timezone  string
	StartURLs []string
	Selector  string
	Extractor Extractor
	// Now overrides the clock used for status resolution.
	Now func() time.Time
}

func (a Attributes) field(name string) string {
	switch name {
	case "agency":
		return a.Agency
	case "name":
		return a.Name
	case "id":
		return a.ID
	}
	return ""
}

// Validate checks attrs against RequiredFields and returns a
// *DefinitionError naming every missing field.
func Validate(typeName string, attrs Attributes) error {
	var missing []string
	for _, f := range RequiredFields {
		if attrs.field(f) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &DefinitionError{Type: typeName, Missing: missing}
	}
	return nil
}

// Define validates attrs and returns a usable spider.
// No spider is returned when validation fails.
func Define(typeName string, attrs Attributes) (*Spider, error) {
	if err := Validate(typeName, attrs); err != nil {
		return nil, err
	}

	tz := attrs.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%s: loading timezone %q: %w", typeName, tz, err)
	}

	startURLs := append([]string(nil), attrs.StartURLs...)
	if len(startURLs) == 0 {
		startURLs = []string{DefaultStartURL}
	}

	selector := attrs.Selector
	if selector == "" {
		selector = DefaultSelector
	}

	extractor := attrs.Extractor
	if extractor == nil {
		extractor = BaseExtractor{}
	}

	now := attrs.Now
	if now == nil {
		now = time.Now
	}

	return &Spider{
		typeName:  typeName,
		name:      attrs.Name,
		agency:    attrs.Agency,
		id:        attrs.ID,
		timezone:  tz,
		location:  loc,
		startURLs: startURLs,
		selector:  selector,
		extractor: extractor,
		now:       now,
	}, nil
}

// MustDefine is like Define but panics on error. It is meant for package-level
// spider definitions, where a broken definition should stop the program at load.
func MustDefine(typeName string, attrs Attributes) *Spider {
	sp, err := Define(typeName, attrs)
	if err != nil {
		panic(err)
	}
	return sp
}

// Template is the shared spider definition. Its identity fields are
// placeholders, so it can never be registered or crawled.
var Template = MustDefine("Template", Attributes{
	Name:   Placeholder,
	Agency: Placeholder,
	ID:     Placeholder,
})
