package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/config"
	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/internal/metrics"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/internal/rules"
	"github.com/RakeemAI/Rakeem/internal/server"
	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/RakeemAI/Rakeem/pkg/output"
	"github.com/RakeemAI/Rakeem/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build information, set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
	Language   string
	Today      string
}

// app carries state resolved once in the root pre-run and shared by all
// subcommands.
type app struct {
	conf    *config.Configuration
	logger  *zap.Logger
	profile profile.Profile
	today   time.Time
	now     func() time.Time
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{now: time.Now}

	cmd := &cobra.Command{
		Use:   "rakeem-deadlines",
		Short: "Compute upcoming Saudi regulatory deadlines for a company",
		Long: `rakeem-deadlines reads a catalog of compliance obligations and a company
fiscal profile and reports the next due date of each obligation, as a table,
CSV, JSON, a month calendar, an iCalendar feed or over HTTP.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup(opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "", "output format override: pretty, csv, json")
	pf.StringVar(&opts.Language, "lang", "", "output language override: en, ar")
	pf.StringVar(&opts.Today, "today", "", "reference date as YYYY-MM-DD (default: current local date)")

	cmd.AddCommand(
		newUpcomingCmd(a),
		newMonthCmd(a),
		newICSCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(opts *rootOptions) error {
	conf, err := loadConfiguration(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Output != "" {
		conf.Output.Format = opts.Output
	}
	if opts.Language != "" {
		conf.Output.Language = opts.Language
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, opts.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	p, err := conf.CompanyProfile()
	if err != nil {
		return err
	}

	today := datetime.Civil(a.now())
	if opts.Today != "" {
		if today, err = datetime.ParseDate(opts.Today); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	a.conf = conf
	a.logger = logger
	a.profile = p
	a.today = today
	return nil
}

// loadConfiguration reads path, falling back to defaults and environment
// variables when the default config file is absent.
func loadConfiguration(path string) (*config.Configuration, error) {
	if path == constants.DefaultConfigFile {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.LoadFromEnv()
		}
	}
	return config.LoadConfiguration(path)
}

func (a *app) loadCatalog() ([]catalog.Record, error) {
	records, err := catalog.NewLoader(a.logger).Load(a.conf.Catalog.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("catalog loaded",
		zap.String("op", "main"),
		zap.String("path", a.conf.Catalog.Path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (a *app) engine(applicableOnly bool) *deadlines.Engine {
	return deadlines.NewEngine(a.logger, deadlines.WithApplicableOnly(applicableOnly))
}

// windowFlags are shared by the commands that report a rolling window.
type windowFlags struct {
	days           int
	authorities    []string
	categories     []string
	applicableOnly bool
}

func (w *windowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&w.days, "days", "d", constants.DefaultDaysAhead, "number of days to look ahead (default from deadlines.daysAhead)")
	f.StringSliceVar(&w.authorities, "authority", nil, "only report obligations of these authorities")
	f.StringSliceVar(&w.categories, "category", nil, "only report obligations of these categories")
	f.BoolVar(&w.applicableOnly, "applicable-only", false, "skip obligations that do not apply to the profile")
}

// resolve fills unset flags from configuration.
func (w *windowFlags) resolve(cmd *cobra.Command, conf *config.Configuration) {
	if !cmd.Flags().Changed("days") {
		w.days = conf.Deadlines.DaysAhead
	}
	if !cmd.Flags().Changed("applicable-only") {
		w.applicableOnly = conf.Deadlines.ApplicableOnly
	}
}

func (a *app) window(cmd *cobra.Command, w *windowFlags) ([]deadlines.Entry, error) {
	w.resolve(cmd, a.conf)

	records, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	entries, err := a.engine(w.applicableOnly).Compute(records, w.days, a.profile, a.today)
	if err != nil {
		return nil, err
	}
	return deadlines.Filter{Authorities: w.authorities, Categories: w.categories}.Apply(entries), nil
}

func newUpcomingCmd(a *app) *cobra.Command {
	w := &windowFlags{}
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List obligations due within the next N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.window(cmd, w)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), a.conf.Output.Format, entries, a.conf.Output.Language)
		},
	}
	w.register(cmd)
	return cmd
}

func newMonthCmd(a *app) *cobra.Command {
	var (
		year           int
		month          int
		applicableOnly bool
	)
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the obligations falling due in one calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("year") {
				year = a.today.Year()
			}
			if !cmd.Flags().Changed("month") {
				month = int(a.today.Month())
			}
			if !cmd.Flags().Changed("applicable-only") {
				applicableOnly = a.conf.Deadlines.ApplicableOnly
			}

			records, err := a.loadCatalog()
			if err != nil {
				return err
			}
			entries, err := a.engine(applicableOnly).MonthEvents(records, year, time.Month(month), a.profile, a.today)
			if err != nil {
				return err
			}

			if a.conf.Output.Format == constants.OutputFormatPretty {
				return output.MonthGrid(cmd.OutOrStdout(), year, time.Month(month), entries, a.conf.Output.Language)
			}
			return output.Write(cmd.OutOrStdout(), a.conf.Output.Format, entries, a.conf.Output.Language)
		},
	}
	f := cmd.Flags()
	f.IntVar(&year, "year", 0, "calendar year (default: year of --today)")
	f.IntVar(&month, "month", 0, "calendar month 1-12 (default: month of --today)")
	f.BoolVar(&applicableOnly, "applicable-only", false, "skip obligations that do not apply to the profile")
	return cmd
}

func newICSCmd(a *app) *cobra.Command {
	w := &windowFlags{}
	var out string
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export upcoming obligations as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.window(cmd, w)
			if err != nil {
				return err
			}

			var dst io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer func() {
					_ = file.Close()
				}()
				dst = file
			}

			if err := output.WriteICal(dst, entries, a.now().UTC()); err != nil {
				return err
			}
			a.logger.Info("calendar exported",
				zap.String("op", "main"),
				zap.String("out", out),
				zap.Int("events", len(entries)),
			)
			return nil
		},
	}
	w.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the calendar to this file instead of stdout")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and catalog for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.loadCatalog()
			if err != nil {
				return err
			}

			warnings := a.conf.ValidateConfiguration()
			warnings = append(warnings, validation.ValidateCatalog(records, rules.NewResolver())...)

			w := cmd.OutOrStdout()
			for _, warning := range warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			fmt.Fprintf(w, "%s: %d records, %d warnings\n", a.conf.Catalog.Path, len(records), len(warnings))

			if strict && len(warnings) > 0 {
				return fmt.Errorf("validation found %d warnings", len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any warning is reported")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deadline API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m := metrics.New()

			store, err := catalog.NewStore(a.logger, a.conf.Catalog.Path, catalog.WithReloadHook(m.ObserveCatalogReload))
			if err != nil {
				return err
			}
			a.logger.Info("serving catalog",
				zap.String("op", "main"),
				zap.String("path", store.Path()),
				zap.Bool("watch", a.conf.Catalog.Watch),
			)
			if a.conf.Catalog.Watch {
				go func() {
					if err := store.Watch(ctx); err != nil {
						a.logger.Error("catalog watch stopped",
							zap.String("op", "main"),
							zap.Error(err),
						)
					}
				}()
			}

			sc := a.conf.Server
			if address != "" {
				sc.Address = address
			}
			cfg, err := server.NewConfig(sc)
			if err != nil {
				return err
			}

			handler, err := server.NewHandler(a.logger, store, server.Options{
				Profile:        a.profile,
				DaysAhead:      a.conf.Deadlines.DaysAhead,
				ApplicableOnly: a.conf.Deadlines.ApplicableOnly,
				Version:        Version,
				Metrics:        m,
			})
			if err != nil {
				return err
			}
			return server.Serve(ctx, a.logger, cfg, handler)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	return cmd
}
