package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"vmfkit/internal/diag"
	"vmfkit/internal/kv"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
	"vmfkit/internal/trace"
	"vmfkit/vmf"
)

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string       // Путь к файлу, как он был найден
	Name   string       // Имя для вывода (относительно каталога)
	File   *source.File // nil, если файл не загрузился
	Doc    *kv.Document
	Values []vmf.Value
	Bag    *diag.Bag
	Err    error
}

// ListFiles возвращает отсортированный список всех *.vmf файлов в директории
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".vmf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// DisplayNames maps files to the names used in progress events, keeping
// their order.
func DisplayNames(files []string, baseDir string) []string {
	base := baseDir
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = pipeline.DisplayPath(f, base)
	}
	return names
}

// ParseDir парсит все *.vmf файлы в директории параллельно
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return ParseFiles(ctx, files, dir, opts)
}

// ParseFiles parses files on up to opts.Jobs goroutines. Results are indexed
// like files. Loading happens first and in order, because FileSet is not
// safe for concurrent Add. The context is checked before each file; the
// returned error is the context error when the run was cancelled.
func ParseFiles(ctx context.Context, files []string, baseDir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "parse_files")
	defer span.End(fmt.Sprintf("%d files", len(files)))

	fileSet := source.NewFileSetWithBase(baseDir)
	fileSet.SetEncoding(opts.Encoding)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	names := DisplayNames(files, baseDir)
	pipeline.EmitQueued(opts.Progress, names)

	results := make([]ParseDirResult, len(files))
	for i, path := range files {
		results[i] = ParseDirResult{Path: path, Name: names[i], Bag: diag.NewBag(opts.MaxDiagnostics)}
		if err := ctx.Err(); err != nil {
			return fileSet, results, err
		}
		pipeline.Emit(opts.Progress, pipeline.Event{File: names[i], Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		file, err := load(ctx, fileSet, path, opts.Timer)
		if err != nil {
			// Файл не загрузился: ошибка I/O попадает в bag, остальные файлы продолжают
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

	for i := range results {
		r := &results[i]
		if r.File == nil {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fctx, fspan := trace.Start(gctx, trace.ScopeFile, "file")
			start := time.Now()
			// блоки одного файла извлекаются последовательно: параллелизм уже по файлам
			p := newFileParse(opts, 1, r.Name, r.Bag)
			r.Doc, r.Values, r.Err = p.run(fctx, r.File)
			p.report(r.Err)
			if r.Err == nil {
				p.emit(pipeline.StageExtract, pipeline.StatusDone, nil, time.Since(start))
			}
			fspan.End(r.Name)
			return nil
		})
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
