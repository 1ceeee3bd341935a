package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vmfkit/internal/diag"
	"vmfkit/internal/diagfmt"
	"vmfkit/internal/driver"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
	"vmfkit/vmf"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.vmf|directory>",
	Short: "Parse a VMF file or directory",
	Long:  `Parse reads a VMF file, or every *.vmf file under a directory, and prints a summary, the typed values as JSON, or the block tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "", "output format (summary|json|tree); default from vmfkit.toml or summary")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	parseCmd.Flags().Bool("copy", false, "copy file contents so values do not alias the read buffer")
	parseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
}

type parseFileJSON struct {
	File        string                    `json:"file"`
	Values      []diagfmt.ValueJSON       `json:"values"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type parseOutputJSON struct {
	Files       []parseFileJSON            `json:"files"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = s.cfg.Output.Format
	}
	switch format {
	case "summary", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	opts := s.driverOptions()

	// Проверяем, файл это или директория
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	if !st.IsDir() {
		// Парсинг одного файла
		res, perr := driver.Parse(cmd.Context(), target, opts)
		if perr != nil {
			return fmt.Errorf("parsing failed: %w", perr)
		}
		fs = res.FileSet
		results = []driver.ParseDirResult{{
			Path:   target,
			Name:   target,
			File:   res.File,
			Doc:    res.Doc,
			Values: res.Values,
			Bag:    res.Bag,
			Err:    res.Err,
		}}
	} else {
		// Парсинг директории
		files, lerr := driver.ListFiles(target)
		if lerr != nil {
			return fmt.Errorf("failed to list %s: %w", target, lerr)
		}
		if len(files) == 0 {
			return fmt.Errorf("no .vmf files under %s", target)
		}
		if shouldUseTUI(mode, format == "json") {
			names := driver.DisplayNames(files, target)
			var perr error
			uiErr := runWithUI(cmd.Context(), "parsing maps", names, func(ctx context.Context, sink pipeline.ProgressSink) {
				o := opts
				o.Progress = sink
				fs, results, perr = driver.ParseFiles(ctx, files, target, o)
			})
			if uiErr != nil {
				return fmt.Errorf("progress UI: %w", uiErr)
			}
			err = perr
		} else {
			fs, results, err = driver.ParseFiles(cmd.Context(), files, target, opts)
		}
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
	}

	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
		}
	}

	switch format {
	case "json":
		err = writeParseJSON(results, fs, s, opts)
	case "tree":
		printDiagnostics(results, fs, s)
		err = writeParseTree(results, fs)
	default:
		printDiagnostics(results, fs, s)
		err = writeParseSummary(results, s.quiet)
	}
	if err != nil {
		return err
	}
	if format != "json" {
		printTimings(opts)
	}
	if failed {
		return errReported
	}
	return nil
}

func printDiagnostics(results []driver.ParseDirResult, fs *source.FileSet, s settings) {
	for _, r := range results {
		if r.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, r.Bag, fs, s.prettyOpts())
		}
	}
}

func writeParseJSON(results []driver.ParseDirResult, fs *source.FileSet, s settings, opts driver.Options) error {
	out := parseOutputJSON{Files: make([]parseFileJSON, 0, len(results))}
	for _, r := range results {
		out.Files = append(out.Files, parseFileJSON{
			File:        r.Name,
			Values:      diagfmt.BuildValuesJSON(r.Values),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, fs, s.jsonOpts()),
		})
	}
	if opts.Timer != nil {
		bag := diag.NewBag(1)
		driver.AppendTimings(bag, "parse", "", opts.Timer)
		run := diagfmt.BuildDiagnosticsOutput(bag, fs, s.jsonOpts())
		out.Diagnostics = &run
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeParseTree(results []driver.ParseDirResult, fs *source.FileSet) error {
	for i, r := range results {
		if r.Doc == nil {
			continue
		}
		if i > 0 {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				return err
			}
		}
		if err := diagfmt.FormatTreePretty(os.Stdout, r.Doc, fs); err != nil {
			return err
		}
	}
	return nil
}

// writeParseSummary prints one line per file: block kinds in order of first
// appearance with their counts. With quiet only failures are listed.
func writeParseSummary(results []driver.ParseDirResult, quiet bool) error {
	for _, r := range results {
		if r.Err != nil {
			if _, err := fmt.Fprintf(os.Stdout, "%s: failed\n", r.Name); err != nil {
				return err
			}
			continue
		}
		if quiet {
			continue
		}
		if _, err := fmt.Fprintf(os.Stdout, "%s: %d blocks (%s)\n", r.Name, len(r.Values), kindCounts(r.Values)); err != nil {
			return err
		}
	}
	return nil
}

func kindCounts(values []vmf.Value) string {
	var order []vmf.ValueKind
	counts := make(map[vmf.ValueKind]int)
	for _, v := range values {
		k := v.Kind()
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	parts := make([]string, len(order))
	for i, k := range order {
		parts[i] = fmt.Sprintf("%s %d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}
