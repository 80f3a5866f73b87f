package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/city-scrapers/internal/config"
	"github.com/pfrederiksen/city-scrapers/internal/crawl"
	"github.com/pfrederiksen/city-scrapers/internal/document"
	"github.com/pfrederiksen/city-scrapers/internal/filter"
	"github.com/pfrederiksen/city-scrapers/internal/logger"
	"github.com/pfrederiksen/city-scrapers/internal/meeting"
	"github.com/pfrederiksen/city-scrapers/internal/spider"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

type options struct {
	configPath string
	envFile    string
	logLevel   string
	verbose    bool

	format string
	sort   string
	all    bool
	rate   float64
	url    string

	since           string
	until           string
	classifications []string
	statuses        []string
}

func addFilterFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.since, "since", "", "Only meetings starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.until, "until", "", "Only meetings starting on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.classifications, "classification", nil, "Only meetings with these classifications (repeatable)")
	cmd.Flags().StringSliceVar(&opts.statuses, "status", nil, "Only meetings with these statuses (repeatable)")
}

func (o *options) filter() (*filter.Filter, error) {
	return filter.New(o.since, o.until, o.classifications, o.statuses)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "city-scrapers",
		Short: "Scrape public meeting schedules from agency websites",
		Long: `A CLI tool that builds meeting scrapers from a declarative spider list
and normalizes every scraped meeting into a common schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Spider list YAML file (default: built-in examples, or $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading settings")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(
		newListCmd(opts),
		newValidateCmd(opts),
		newCrawlCmd(opts),
		newParseCmd(opts),
	)

	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered spiders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format, false)
			if err != nil {
				return err
			}
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return writeSpiders(cmd.OutOrStdout(), env.registry.List(), format)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every configured spider is complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d spiders registered\n", env.registry.Len())
			return nil
		},
	}
}

func newCrawlCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [spider...]",
		Short: "Run spiders against their start URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format, true)
			if err != nil {
				return err
			}
			order, err := ParseSortOrder(opts.sort)
			if err != nil {
				return err
			}
			f, err := opts.filter()
			if err != nil {
				return err
			}
			if len(args) == 0 && !opts.all {
				return fmt.Errorf("name at least one spider or pass --all")
			}

			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			spiders := env.registry.List()
			if !opts.all {
				spiders, err = lookup(env.registry, args)
				if err != nil {
					return err
				}
			}

			rate := env.settings.Rate
			if cmd.Flags().Changed("rate") {
				rate = opts.rate
			}
			runner := crawl.NewRunner(
				crawl.NewHTTPFetcher(env.settings.UserAgent),
				crawl.WithRate(rate),
				crawl.WithLogger(env.log),
			)

			result := &OutputResult{CheckedAt: time.Now().UTC()}
			for _, sp := range spiders {
				result.Spiders = append(result.Spiders, sp.Name())
			}

			stats, crawlErr := runner.CrawlAll(cmd.Context(), spiders, func(sp *spider.Spider, m *meeting.Meeting) error {
				if f.Matches(m) {
					result.add(sp.Name(), m)
				}
				return nil
			})
			for _, s := range stats {
				result.Failures += s.Failures
			}
			env.log.Debug("crawl metrics", logger.GetMetricsSnapshot().Fields())

			sortMeetings(result.Meetings, order)
			for name := range result.BySpider {
				sortMeetings(result.BySpider[name], order)
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if crawlErr != nil {
				return fmt.Errorf("crawling: %w", crawlErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort meetings by: start, title or status (default: crawl order)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Run every registered spider")
	cmd.Flags().Float64Var(&opts.rate, "rate", 1, "Maximum requests per second, 0 for no limit")
	addFilterFlags(cmd, opts)
	return cmd
}

func newParseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <spider> <file>",
		Short: "Run one spider over a saved HTML page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format, true)
			if err != nil {
				return err
			}
			order, err := ParseSortOrder(opts.sort)
			if err != nil {
				return err
			}

			f, err := opts.filter()
			if err != nil {
				return err
			}

			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			sp, err := env.registry.Get(args[0])
			if err != nil {
				return err
			}

			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening page: %w", err)
			}
			defer file.Close()

			pageURL := opts.url
			if pageURL == "" {
				pageURL = sp.StartURLs()[0]
			}
			page, err := document.Parse(file, pageURL)
			if err != nil {
				return err
			}

			result := &OutputResult{CheckedAt: time.Now().UTC(), Spiders: []string{sp.Name()}}
			for m, err := range sp.Parse(page) {
				if err != nil {
					result.Failures++
					env.log.Warn("meeting extraction failed", logger.Fields{"spider": sp.Name(), "error": err.Error()})
					continue
				}
				if f.Matches(m) {
					result.add(sp.Name(), m)
				}
			}
			sortMeetings(result.Meetings, order)
			sortMeetings(result.BySpider[sp.Name()], order)

			return WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort meetings by: start, title or status (default: document order)")
	cmd.Flags().StringVar(&opts.url, "url", "", "URL the page was saved from (default: the spider's first start URL)")
	addFilterFlags(cmd, opts)
	return cmd
}

// environment is everything a command needs after configuration is loaded
type environment struct {
	settings config.Settings
	log      *logger.Logger
	registry *spider.Registry
}

// setup loads settings, configures logging and builds the spider registry.
// Flags take precedence over environment settings.
func setup(cmd *cobra.Command, opts *options) (*environment, error) {
	settings, err := config.LoadEnv(opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.configPath != "" {
		settings.ConfigPath = opts.configPath
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	} else if opts.verbose {
		settings.LogLevel = string(logger.LevelDebug)
	}

	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)

	variants, err := config.Load(settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	registry := spider.NewRegistry()
	if err := spider.NewFactory(registry, spider.WithLogger(log)).Build(variants); err != nil {
		return nil, err
	}
	log.Debug("spiders loaded", logger.Fields{"count": registry.Len(), "config": settings.ConfigPath})

	return &environment{settings: settings, log: log, registry: registry}, nil
}

// lookup resolves spider names, reporting every unknown name at once
func lookup(registry *spider.Registry, names []string) ([]*spider.Spider, error) {
	spiders := make([]*spider.Spider, 0, len(names))
	var unknown []string
	for _, name := range names {
		sp, err := registry.Get(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		spiders = append(spiders, sp)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", spider.ErrUnknownSpider, strings.Join(unknown, ", "))
	}
	return spiders, nil
}

func parseFormat(s string, allowICS bool) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	switch {
	case format == FormatText, format == FormatJSON:
		return format, nil
	case format == FormatICS && allowICS:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s", s)
}

// Execute runs the CLI and exits with ExitError on failure
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		var defErr *spider.DefinitionError
		if errors.As(err, &defErr) {
			fmt.Fprintf(os.Stderr, "Invalid spider definition: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
