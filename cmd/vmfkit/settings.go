package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vmfkit/internal/config"
	"vmfkit/internal/diagfmt"
	"vmfkit/internal/driver"
	"vmfkit/internal/observ"
	"vmfkit/internal/source"
)

// settings is vmfkit.toml with command-line flags applied on top.
type settings struct {
	cfg      config.Config
	color    bool // цвет для stderr
	quiet    bool
	timings  bool
	encoding source.Encoding
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Flags()
	explicit, err := flags.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(explicit, ".")
	if err != nil {
		return settings{}, err
	}

	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return settings{}, err
		}
	}
	if flags.Changed("max-diagnostics") {
		if cfg.Output.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return settings{}, err
		}
	}
	if flags.Changed("encoding") {
		if cfg.Parse.Encoding, err = flags.GetString("encoding"); err != nil {
			return settings{}, err
		}
	}
	// локальные флаги есть не у всех команд
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		if cfg.Parse.Jobs, err = flags.GetInt("jobs"); err != nil {
			return settings{}, err
		}
	}
	if f := flags.Lookup("copy"); f != nil && f.Changed {
		if cfg.Parse.Copy, err = flags.GetBool("copy"); err != nil {
			return settings{}, err
		}
	}
	if f := flags.Lookup("cache"); f != nil && f.Changed {
		if cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return settings{}, err
		}
	}

	s := settings{cfg: cfg}
	if s.encoding, err = source.ParseEncoding(strings.ToLower(cfg.Parse.Encoding)); err != nil {
		return settings{}, err
	}
	switch cfg.Output.Color {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto", "":
		s.color = isTerminal(os.Stderr)
	default:
		return settings{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", cfg.Output.Color)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return settings{}, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return settings{}, err
	}
	return s, nil
}

func (s settings) driverOptions() driver.Options {
	opts := driver.Options{
		MaxDiagnostics: s.cfg.Output.MaxDiagnostics,
		MaxDepth:       s.cfg.Parse.MaxDepth,
		Encoding:       s.encoding,
		Jobs:           s.cfg.Parse.Jobs,
		Copy:           s.cfg.Parse.Copy,
	}
	if s.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts
}

func (s settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   2,
		ShowNotes: true,
	}
}

func (s settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		Max:              s.cfg.Output.MaxDiagnostics,
	}
}

// printTimings writes the timer summary to stderr.
func printTimings(opts driver.Options) {
	if opts.Timer == nil {
		return
	}
	fmt.Fprint(os.Stderr, opts.Timer.Summary()) //nolint:errcheck
}
