package spider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAbstract is returned when registering a spider that still carries placeholder fields
	ErrAbstract = errors.New("spider is abstract")

	// ErrNameTaken is returned when a different spider type already uses the name
	ErrNameTaken = errors.New("spider name already registered")

	// ErrMissingType is returned when a variant has no type identifier
	ErrMissingType = errors.New("spider variant has no type")

	// ErrUnknownSpider is returned by lookups for names that were never registered
	ErrUnknownSpider = errors.New("unknown spider")
)

// DefinitionError reports a spider definition missing required fields.
// Missing lists every absent field in RequiredFields order.
type DefinitionError struct {
	Type    string
	Missing []string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s must define the following field(s): %s.", e.Type, strings.Join(e.Missing, ", "))
}

// ExtractionError reports a hook failure for one fragment of a document
type ExtractionError struct {
	Spider string
	URL    string
	Index  int
	Hook   string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: fragment %d of %s: %s: %v", e.Spider, e.Index, e.URL, e.Hook, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
