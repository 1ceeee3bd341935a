package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vmfkit/internal/diag"
	"vmfkit/internal/kv"
	"vmfkit/internal/observ"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
	"vmfkit/internal/trace"
	"vmfkit/vmf"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Doc     *kv.Document
	Values  []vmf.Value
	Bag     *diag.Bag
	// Err is the first parse failure; it is also in Bag.
	Err error
}

// Parse loads and parses one file. Top-level blocks are extracted on up to
// opts.Jobs goroutines. The returned error is non-nil only when the file
// cannot be read; parse failures are in ParseResult.Err.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "parse")
	defer span.End(path)

	fs := source.NewFileSet()
	fs.SetEncoding(opts.Encoding)
	file, err := load(ctx, fs, path, opts.Timer)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	p := newFileParse(opts, opts.Jobs, path, res.Bag)
	res.Doc, res.Values, res.Err = p.run(ctx, file)
	p.report(res.Err)
	return res, nil
}

func load(ctx context.Context, fs *source.FileSet, path string, timer *observ.Timer) (*source.File, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "load")
	done := timer.Begin("load")
	id, err := fs.Load(path)
	done("")
	if err != nil {
		trace.Fail(ctx, "load", err)
		span.End("failed")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(id)
	span.WithExtra("bytes", strconv.Itoa(len(file.Content))).End(path)
	return file, nil
}

// fileParse runs the tree and extract stages over one loaded file and
// reports them to the tracer, the timer and the progress sink.
type fileParse struct {
	opts Options
	jobs int
	name string // имя файла в событиях прогресса
	rep  diag.Reporter
}

// newFileParse routes lexer and builder diagnostics into bag. The builder
// reports its failure before returning it, so the reporter drops the second
// copy that report adds.
func newFileParse(opts Options, jobs int, name string, bag *diag.Bag) fileParse {
	return fileParse{
		opts: opts,
		jobs: jobs,
		name: name,
		rep:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
}

func (p fileParse) emit(stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
	pipeline.Emit(p.opts.Progress, pipeline.Event{
		File:    p.name,
		Stage:   stage,
		Status:  status,
		Err:     err,
		Elapsed: elapsed,
	})
}

func (p fileParse) run(ctx context.Context, file *source.File) (*kv.Document, []vmf.Value, error) {
	start := time.Now()
	vopts := append(p.opts.vmfOptions(file.Path), vmf.WithReporter(p.rep))

	p.emit(pipeline.StageTree, pipeline.StatusWorking, nil, 0)
	tctx, span := trace.Start(ctx, trace.ScopeFile, "tree")
	done := p.opts.Timer.Begin("tree")
	doc, err := vmf.Tree(file, vopts...)
	done("")
	if err != nil {
		trace.Fail(tctx, "tree", err)
		span.End("failed")
		p.emit(pipeline.StageTree, pipeline.StatusError, err, time.Since(start))
		return nil, nil, err
	}
	span.WithExtra("blocks", strconv.Itoa(len(doc.Blocks))).End("")

	p.emit(pipeline.StageExtract, pipeline.StatusWorking, nil, 0)
	ectx, span := trace.Start(ctx, trace.ScopeFile, "extract")
	done = p.opts.Timer.Begin("extract")
	values, err := vmf.Extract(doc, vmf.WithJobs(p.jobs))
	done("")
	if err != nil {
		trace.Fail(ectx, "extract", err)
		span.End("failed")
		p.emit(pipeline.StageExtract, pipeline.StatusError, err, time.Since(start))
		return doc, nil, err
	}
	span.WithExtra("values", strconv.Itoa(len(values))).End("")
	return doc, values, nil
}

// report converts a parse failure into a diagnostic.
func (p fileParse) report(err error) {
	if err == nil {
		return
	}
	d := diag.NewError(diag.UnknownCode, source.Span{File: source.NoFile}, err.Error())
	var ve *vmf.Error
	if errors.As(err, &ve) {
		d = ve.Diagnostic()
	}
	p.rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

func loadDiagnostic(err error) diag.Diagnostic {
	return diag.NewError(diag.IOLoadFileError, source.Span{File: source.NoFile}, "failed to load file: "+err.Error())
}
