package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/city-scrapers/internal/logger"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
	"github.com/pfrederiksen/city-scrapers/internal/spider"
	"golang.org/x/time/rate"
)

// EmitFunc receives each meeting a spider produces. Returning an error
// stops the crawl.
type EmitFunc func(sp *spider.Spider, m *meeting.Meeting) error

// Stats summarizes one spider's crawl
type Stats struct {
	RunID    string        `json:"run_id"`
	Spider   string        `json:"spider"`
	Pages    int           `json:"pages"`
	Meetings int           `json:"meetings"`
	Failures int           `json:"failures"`
	Duration time.Duration `json:"duration"`
}

// Runner crawls spiders one page at a time
type Runner struct {
	fetcher Fetcher
	limiter *rate.Limiter
	log     *logger.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithRate limits fetches to perSecond requests. Zero or less disables the limit.
func WithRate(perSecond float64) Option {
	return func(r *Runner) {
		if perSecond <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the runner's logger
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner creates a runner fetching through fetcher, at one request per second by default
func NewRunner(fetcher Fetcher, opts ...Option) *Runner {
	r := &Runner{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Crawl runs sp over each of its start URLs in order
func (r *Runner) Crawl(ctx context.Context, sp *spider.Spider, emit EmitFunc) (stats Stats, err error) {
	started := time.Now()
	stats = Stats{RunID: uuid.NewString(), Spider: sp.Name()}
	log := r.log.With(logger.Fields{"run_id": stats.RunID, "spider": sp.Name()})

	defer func() {
		stats.Duration = time.Since(started)
		logger.RecordTiming("crawl.spider", stats.Duration)
	}()

	log.Info("crawl started", logger.Fields{"agency": sp.Agency(), "start_urls": len(sp.StartURLs())})

	for _, u := range sp.StartURLs() {
		if err := r.limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("%s: waiting to fetch %s: %w", sp.Name(), u, err)
		}

		page, err := r.fetcher.Fetch(ctx, u)
		if err != nil {
			log.Error("fetch failed", logger.Fields{"url": u}, err)
			return stats, fmt.Errorf("%s: %s: %w", sp.Name(), u, err)
		}
		stats.Pages++
		logger.IncrCounter("pages.fetched")

		for m, err := range sp.Parse(page) {
			if err != nil {
				stats.Failures++
				logger.IncrCounter("meetings.failed")
				log.Warn("meeting extraction failed", logger.Fields{"url": page.URL(), "error": err.Error()})
				continue
			}
			if err := emit(sp, m); err != nil {
				return stats, fmt.Errorf("%s: emitting meeting %s: %w", sp.Name(), m.ID, err)
			}
			stats.Meetings++
			logger.IncrCounter("meetings.emitted")
		}
	}

	log.Info("crawl finished", logger.Fields{
		"pages":    stats.Pages,
		"meetings": stats.Meetings,
		"failures": stats.Failures,
	})
	return stats, nil
}

// CrawlAll crawls each spider in turn. A failing spider does not stop the
// others; all failures are joined into the returned error. Cancelling ctx
// stops before the next spider.
func (r *Runner) CrawlAll(ctx context.Context, spiders []*spider.Spider, emit EmitFunc) ([]Stats, error) {
	all := make([]Stats, 0, len(spiders))
	var errs []error
	for _, sp := range spiders {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		stats, err := r.Crawl(ctx, sp, emit)
		all = append(all, stats)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return all, errors.Join(errs...)
}
