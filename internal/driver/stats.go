package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vmfkit/internal/diag"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
	"vmfkit/internal/trace"
	"vmfkit/vmf"
)

// Stats counts the objects of one map.
type Stats struct {
	Blocks        int `json:"blocks"`
	Unknown       int `json:"unknown_blocks"`
	Entities      int `json:"entities"`
	BrushEntities int `json:"brush_entities"`
	Solids        int `json:"solids"`
	HiddenSolids  int `json:"hidden_solids"`
	Sides         int `json:"sides"`
	Displacements int `json:"displacements"`
	Materials     int `json:"materials"`
	Connections   int `json:"connections"`
	Groups        int `json:"groups"`
	Visgroups     int `json:"visgroups"`
	Cameras       int `json:"cameras"`
	Cordons       int `json:"cordons"`
}

// Summarize counts solids, sides, entities and the rest over parsed values.
// Materials are counted once per name, ignoring case.
func Summarize(values []vmf.Value) Stats {
	st := Stats{Blocks: len(values)}
	materials := make(map[string]struct{})
	solids := func(list []vmf.Solid) {
		for i := range list {
			st.Solids++
			st.Sides += len(list[i].Sides)
			for j := range list[i].Sides {
				side := &list[i].Sides[j]
				if side.Displacement != nil {
					st.Displacements++
				}
				materials[strings.ToUpper(side.Material)] = struct{}{}
			}
		}
	}

	for _, v := range values {
		switch v := v.(type) {
		case *vmf.World:
			solids(v.Solids)
			solids(v.Hidden)
			st.HiddenSolids += len(v.Hidden)
			st.Groups += len(v.Groups)
		case *vmf.Entity:
			st.Entities++
			if len(v.Solids)+len(v.Hidden) > 0 {
				st.BrushEntities++
			}
			solids(v.Solids)
			solids(v.Hidden)
			st.HiddenSolids += len(v.Hidden)
			st.Connections += len(v.Connections)
		case *vmf.Visgroups:
			for i := range v.Groups {
				v.Groups[i].Walk(func(*vmf.Visgroup) { st.Visgroups++ })
			}
		case *vmf.Cameras:
			st.Cameras += len(v.Cameras)
		case *vmf.Cordons:
			st.Cordons += len(v.Cordons)
		case *vmf.Unknown:
			st.Unknown++
		}
	}
	st.Materials = len(materials)
	return st
}

type StatsResult struct {
	Path   string
	Name   string
	File   *source.File
	Stats  Stats
	Cached bool
	Bag    *diag.Bag
	Err    error
}

// CollectStats loads files in order, then parses and summarizes them on up
// to opts.Jobs goroutines. A file whose key is in cache is not parsed.
// Failed files are not cached. cache may be nil.
func CollectStats(ctx context.Context, files []string, baseDir string, opts Options, cache *StatsCache) (*source.FileSet, []StatsResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "stats")
	defer span.End(fmt.Sprintf("%d files", len(files)))

	fileSet := source.NewFileSetWithBase(baseDir)
	fileSet.SetEncoding(opts.Encoding)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	names := DisplayNames(files, baseDir)
	pipeline.EmitQueued(opts.Progress, names)

	results := make([]StatsResult, len(files))
	for i, path := range files {
		results[i] = StatsResult{Path: path, Name: names[i], Bag: diag.NewBag(opts.MaxDiagnostics)}
		if err := ctx.Err(); err != nil {
			return fileSet, results, err
		}
		file, err := load(ctx, fileSet, path, opts.Timer)
		if err != nil {
			results[i].Err = err
			results[i].Bag.Add(loadDiagnostic(err))
			pipeline.Emit(opts.Progress, pipeline.Event{File: names[i], Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			continue
		}
		results[i].File = file
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	var hits, misses atomic.Int64
	for i := range results {
		r := &results[i]
		if r.File == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			key := statsKey(r.File.Hash, opts)

			st, ok, err := cache.Get(r.Path, key)
			if err != nil {
				// битый кэш не мешает пересчитать
				r.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: source.NoFile}, "cache read: "+err.Error()))
			}
			if ok {
				hits.Add(1)
				r.Stats, r.Cached = st, true
				pipeline.Emit(opts.Progress, pipeline.Event{File: r.Name, Stage: pipeline.StageStats, Status: pipeline.StatusCached, Elapsed: time.Since(start)})
				return nil
			}
			misses.Add(1)

			p := newFileParse(opts, 1, r.Name, r.Bag)
			_, values, err := p.run(gctx, r.File)
			if err != nil {
				r.Err = err
				p.report(err)
				return nil
			}

			pipeline.Emit(opts.Progress, pipeline.Event{File: r.Name, Stage: pipeline.StageStats, Status: pipeline.StatusWorking})
			done := opts.Timer.Begin("stats")
			r.Stats = Summarize(values)
			done("")

			if err := cache.Put(r.Path, key, r.Stats); err != nil {
				r.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: source.NoFile}, "cache write: "+err.Error()))
			}
			pipeline.Emit(opts.Progress, pipeline.Event{File: r.Name, Stage: pipeline.StageStats, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}

	err := g.Wait()
	span.WithExtra("cache_hits", strconv.FormatInt(hits.Load(), 10)).
		WithExtra("cache_misses", strconv.FormatInt(misses.Load(), 10))
	if err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// Add sums two Stats, for totals over several files. Materials becomes a
// sum of per-file counts.
func (s Stats) Add(o Stats) Stats {
	s.Blocks += o.Blocks
	s.Unknown += o.Unknown
	s.Entities += o.Entities
	s.BrushEntities += o.BrushEntities
	s.Solids += o.Solids
	s.HiddenSolids += o.HiddenSolids
	s.Sides += o.Sides
	s.Displacements += o.Displacements
	s.Materials += o.Materials
	s.Connections += o.Connections
	s.Groups += o.Groups
	s.Visgroups += o.Visgroups
	s.Cameras += o.Cameras
	s.Cordons += o.Cordons
	return s
}
