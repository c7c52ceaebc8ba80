package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/scicalc/internal/config"
	"github.com/zephyrtronium/scicalc/session"
)

// options are the flags shared by every command.
type options struct {
	configFile string
	locale     string
	angle      string
	precision  int
	inverse    bool
	scientific bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "scicalc",
		Short: "Scientific calculator",
		Long: `Scicalc evaluates calculator expressions with decimal arithmetic.

Expressions use + - × ÷ ^ and # (modulo), postfix ! and %, the functions
sin cos tan asin acos atan sin⁻¹ cos⁻¹ tan⁻¹ ln log exp sqrt √, and the
constants π and e. Multiplication may be implied, as in 2π or 3(4+5).

Without a subcommand, scicalc starts the interactive display.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, &opts)
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "configuration file (TOML or YAML)")
	f.StringVar(&opts.locale, "locale", "", "locale for decimal and grouping separators")
	f.StringVar(&opts.angle, "angle", "", "angle mode: rad or deg")
	f.IntVar(&opts.precision, "precision", 0, "decimal places in results")
	f.BoolVar(&opts.inverse, "inverse", false, "map sin, cos, tan, ln to their inverses")
	f.BoolVar(&opts.scientific, "scientific", true, "show very large and small results in scientific notation")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newEvalCmd(&opts), newReplCmd(&opts))
	return root
}

// load builds the configuration from the config file and the flags that were
// set explicitly.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		c, err := config.Load(o.configFile)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	f := cmd.Flags()
	if f.Changed("locale") {
		cfg.Locale = o.locale
		cfg.DecimalSeparator, cfg.GroupingSeparator = "", ""
	}
	if f.Changed("angle") {
		cfg.AngleMode = o.angle
	}
	if f.Changed("precision") {
		cfg.Precision = o.precision
	}
	if f.Changed("inverse") {
		cfg.Inverse = o.inverse
	}
	if f.Changed("scientific") {
		cfg.Scientific.Enabled = o.scientific
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSession creates a session configured by cfg that logs to w.
func newSession(cfg config.Config, w io.Writer) *session.Session {
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return session.New(cfg.Context(), session.WithDisplay(cfg.Display()), session.WithLogger(log))
}
