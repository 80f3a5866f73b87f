package spider

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/config"
	"github.com/pfrederiksen/city-scrapers/internal/logger"
)

// ExtractorFunc builds the extractor for a variant
type ExtractorFunc func(v config.Variant) Extractor

// Factory defines spiders from config variants and registers them
type Factory struct {
	registry   *Registry
	log        *logger.Logger
	extractors map[string]ExtractorFunc
	now        func() time.Time
}

// Option configures a Factory
type Option func(*Factory)

// WithLogger sets the logger used for registration events
func WithLogger(l *logger.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// WithExtractor installs a custom extractor for one variant type in place
// of the selector-driven default.
func WithExtractor(typeName string, fn ExtractorFunc) Option {
	return func(f *Factory) { f.extractors[typeName] = fn }
}

// WithClock sets the clock spiders use to decide whether a meeting has passed
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// NewFactory creates a factory that registers into registry
func NewFactory(registry *Registry, opts ...Option) *Factory {
	f := &Factory{
		registry:   registry,
		log:        logger.Default(),
		extractors: make(map[string]ExtractorFunc),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the registry the factory writes to
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Build defines and registers one spider per variant, in order.
//
// Variants whose type is already registered are skipped, so calling Build
// again with the same list changes nothing. The first definition error
// stops the build: earlier variants stay registered, the failing variant
// and everything after it are not.
func (f *Factory) Build(variants []config.Variant) error {
	for i, v := range variants {
		if v.Type == "" {
			err := fmt.Errorf("variant %d (name %q): %w", i, v.Name, ErrMissingType)
			f.log.Error("spider definition rejected", logger.Fields{"index": i, "spider": v.Name}, err)
			return err
		}
		if _, exists := f.registry.Lookup(v.Type); exists {
			f.log.Debug("spider already registered", logger.Fields{"type": v.Type})
			logger.IncrCounter("spiders.skipped")
			continue
		}

		sp, err := f.define(v)
		if err != nil {
			f.log.Error("spider definition rejected", logger.Fields{"type": v.Type}, err)
			return err
		}

		added, err := f.registry.Register(sp)
		switch {
		case errors.Is(err, ErrNameTaken):
			f.log.Warn("spider name collision, keeping first", logger.Fields{"type": v.Type, "spider": v.Name})
			continue
		case err != nil:
			return err
		case added:
			f.log.Debug("spider registered", logger.Fields{"type": v.Type, "spider": sp.Name(), "agency": sp.Agency()})
			logger.IncrCounter("spiders.registered")
		}
	}
	return nil
}

func (f *Factory) define(v config.Variant) (*Spider, error) {
	v = v.WithDefaults()

	var ext Extractor
	if fn, ok := f.extractors[v.Type]; ok {
		ext = fn(v)
	} else {
		ext = NewSelectorExtractor(v.Fields)
	}

	return Define(v.Type, Attributes{
		Name:      v.Name,
		Agency:    v.Agency,
		ID:        v.ID,
		Timezone:  v.Timezone,
		StartURLs: v.StartURLs,
		Selector:  v.Selector,
		Extractor: ext,
		Now:       f.now,
	})
}
