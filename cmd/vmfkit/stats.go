package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vmfkit/internal/diagfmt"
	"vmfkit/internal/driver"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <file.vmf|directory>...",
	Short: "Count solids, sides, entities and displacements",
	Long:  `Stats parses maps and prints object counts. With --cache the counts are kept on disk, keyed by file content`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("cache", false, "reuse and store results in the disk cache")
	statsCmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
	statsCmd.Flags().String("format", "text", "output format (text|json)")
	statsCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	statsCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type statsFileJSON struct {
	File   string       `json:"file"`
	Cached bool         `json:"cached"`
	Error  string       `json:"error,omitempty"`
	Stats  driver.Stats `json:"stats"`
}

type statsOutputJSON struct {
	Files []statsFileJSON `json:"files"`
	Total driver.Stats    `json:"total"`
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	files, err := collectInputs(args)
	if err != nil {
		return err
	}

	var cache *driver.StatsCache
	if s.cfg.Cache.Enabled || clearCache {
		disk, derr := driver.OpenDiskCache(s.cfg.Cache.Dir)
		if derr != nil {
			return fmt.Errorf("failed to open cache: %w", derr)
		}
		if clearCache {
			if derr = disk.DropAll(); derr != nil {
				return fmt.Errorf("failed to clear cache %s: %w", disk.Dir(), derr)
			}
		}
		if s.cfg.Cache.Enabled {
			cache = driver.NewStatsCache(len(files), disk)
		}
	}

	opts := s.driverOptions()
	var (
		fs      *source.FileSet
		results []driver.StatsResult
	)
	if len(files) > 1 && shouldUseTUI(mode, format == "json") {
		var serr error
		uiErr := runWithUI(cmd.Context(), "counting", driver.DisplayNames(files, "."), func(ctx context.Context, sink pipeline.ProgressSink) {
			o := opts
			o.Progress = sink
			fs, results, serr = driver.CollectStats(ctx, files, ".", o, cache)
		})
		if uiErr != nil {
			return fmt.Errorf("progress UI: %w", uiErr)
		}
		err = serr
	} else {
		fs, results, err = driver.CollectStats(cmd.Context(), files, ".", opts, cache)
	}
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
		}
	}

	if format == "json" {
		err = writeStatsJSON(os.Stdout, results)
	} else {
		for _, r := range results {
			if r.Bag.Len() > 0 {
				diagfmt.Pretty(os.Stderr, r.Bag, fs, s.prettyOpts())
			}
		}
		err = writeStatsText(os.Stdout, results)
		printTimings(opts)
	}
	if err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return nil
}

// collectInputs expands directories into their *.vmf files; plain files are
// taken as given.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := driver.ListFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .vmf files found")
	}
	return files, nil
}

func writeStatsText(w io.Writer, results []driver.StatsResult) error {
	var total driver.Stats
	ok := 0
	for _, r := range results {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: failed\n", r.Name); err != nil {
				return err
			}
			continue
		}
		ok++
		total = total.Add(r.Stats)
		if err := writeStatsLine(w, r.Name, r.Stats, r.Cached); err != nil {
			return err
		}
	}
	if ok > 1 {
		return writeStatsLine(w, "total", total, false)
	}
	return nil
}

func writeStatsLine(w io.Writer, name string, st driver.Stats, cached bool) error {
	suffix := ""
	if cached {
		suffix = " (cached)"
	}
	_, err := fmt.Fprintf(w,
		"%s: %d solids, %d sides, %d displacements, %d entities (%d brush), %d materials, %d connections%s\n",
		name, st.Solids, st.Sides, st.Displacements, st.Entities, st.BrushEntities, st.Materials, st.Connections, suffix)
	return err
}

func writeStatsJSON(w io.Writer, results []driver.StatsResult) error {
	out := statsOutputJSON{Files: make([]statsFileJSON, 0, len(results))}
	for _, r := range results {
		item := statsFileJSON{File: r.Name, Cached: r.Cached, Stats: r.Stats}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			out.Total = out.Total.Add(r.Stats)
		}
		out.Files = append(out.Files, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
