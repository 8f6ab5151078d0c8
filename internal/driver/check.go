// Package driver runs the checking façade over files: it loads them into a
// FileSet, picks a language, parses, checks every context root and reports
// progress, consulting the on-disk result cache on the way.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"prosecheck/internal/cache"
	"prosecheck/internal/check"
	"prosecheck/internal/observ"
	"prosecheck/internal/source"
	"prosecheck/internal/trace"
	"prosecheck/internal/tree"
)

// Options configures CheckFiles.
type Options struct {
	// Jobs bounds the files checked at once; 0 means GOMAXPROCS.
	Jobs int
	// Language forces one language for every file; empty detects it.
	Language string
	// Languages, when non-empty, skips files of other languages.
	Languages []string
	// Timeout bounds the work on a single file; 0 disables it.
	Timeout time.Duration
	// Cache, when set, stores and reuses per-file typos.
	Cache *cache.DiskCache
	// Settings fingerprints the checker setup; it is part of the cache key.
	Settings string
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Language string
	// Tree and Results are nil for cached files.
	Tree    *tree.Tree
	Results []*check.Result
	Typos   []check.Typo
	Roots   int
	// CheckerErrors counts roots whose external checker failed.
	CheckerErrors int
	Cached        bool
	// Skipped is set for files filtered out by Options.Languages.
	Skipped bool
	// Err holds a per-file failure (load, language, parse, timeout).
	Err error
}

// CheckFiles checks paths. Files are loaded into fs one after another,
// since FileSet is not safe for concurrent use, then checked in parallel.
// Per-file failures land in FileResult.Err; the returned error is set only
// when ctx ends.
func CheckFiles(ctx context.Context, fs *source.FileSet, paths []string, checker *check.Checker, opts Options) ([]FileResult, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeDriver, "driver.check_files", trace.CurrentSpan(ctx)).
		WithExtra("files", strconv.Itoa(len(paths)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	results := make([]FileResult, len(paths))
	for _, p := range paths {
		emit(opts.Progress, p, StageLoad, StatusQueued, nil, 0)
	}

	loadIdx := timerBegin(opts.Timer, "load")
	allow := make(map[string]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		allow[l] = true
	}
	for i, p := range paths {
		res := &results[i]
		res.Path = p
		id, err := fs.Load(p)
		if err != nil {
			res.Err = fmt.Errorf("failed to load file: %w", err)
			// placeholder so diagnostics still name the path
			res.FileID = fs.AddVirtual(p, nil)
			emit(opts.Progress, p, StageLoad, StatusError, res.Err, 0)
			continue
		}
		res.FileID = id
		lang := opts.Language
		if lang == "" {
			lang, err = DetectLanguage(p, fs.Get(id).Content)
			if err != nil {
				res.Err = err
				emit(opts.Progress, p, StageLoad, StatusError, err, 0)
				continue
			}
		}
		res.Language = lang
		if len(allow) > 0 && !allow[lang] {
			res.Skipped = true
			emit(opts.Progress, p, StageLoad, StatusDone, nil, 0)
		}
	}
	timerEnd(opts.Timer, loadIdx, strconv.Itoa(len(paths))+" files")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range results {
		res := &results[i]
		if res.Err != nil || res.Skipped {
			continue
		}
		file := fs.Get(res.FileID)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			checkFile(gctx, file, res, checker, opts)
			if res.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("%w: %w", check.ErrCanceled, context.Cause(ctx))
	}
	return results, nil
}

func checkFile(ctx context.Context, file *source.File, res *FileResult, checker *check.Checker, opts Options) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeDriver, "driver.file", trace.CurrentSpan(ctx)).
		WithExtra("path", res.Path).
		WithExtra("lang", res.Language)
	defer func() {
		detail := "ok"
		switch {
		case res.Err != nil:
			detail = res.Err.Error()
		case res.Cached:
			detail = "cached"
		}
		span.End(detail)
	}()
	ctx = trace.WithSpan(ctx, span)

	key := cache.Key(res.Language, opts.Settings, file.Content)
	if opts.Cache != nil {
		var entry cache.Entry
		ok, err := opts.Cache.Get(key, &entry)
		if err != nil {
			trace.Warn(tr, trace.ScopeDriver, "cache.read_failed", err.Error(), "path", res.Path)
		}
		if ok {
			res.Cached = true
			res.Roots = entry.Roots
			res.CheckerErrors = entry.CheckerErrors
			res.Typos = entry.Restore(file.ID)
			emit(opts.Progress, res.Path, StageCheck, StatusCached, nil, 0)
			return
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	emit(opts.Progress, res.Path, StageParse, StatusWorking, nil, 0)
	t, err := Parse(ctx, res.Language, file.ID, file.Content)
	parseDur := time.Since(start)
	timerAdd(opts.Timer, "parse", parseDur)
	if err != nil {
		res.Err = fmt.Errorf("parse %s: %w", res.Language, err)
		emit(opts.Progress, res.Path, StageParse, StatusError, res.Err, parseDur)
		return
	}
	res.Tree = t

	start = time.Now()
	emit(opts.Progress, res.Path, StageCheck, StatusWorking, nil, 0)
	rootResults, err := checker.CheckTree(ctx, res.Language, t)
	checkDur := time.Since(start)
	timerAdd(opts.Timer, "check", checkDur)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", opts.Timeout, err)
		}
		res.Err = err
		emit(opts.Progress, res.Path, StageCheck, StatusError, err, checkDur)
		return
	}
	res.Results = rootResults
	res.Roots = len(rootResults)
	res.Typos = check.Typos(rootResults)
	for _, r := range rootResults {
		if r != nil && r.CheckerErr != nil {
			res.CheckerErrors++
		}
	}
	// results with checker failures are not cached
	if opts.Cache != nil && res.CheckerErrors == 0 {
		if err := opts.Cache.Put(key, cache.NewEntry(res.Language, res.Roots, res.Typos, 0)); err != nil {
			trace.Warn(tr, trace.ScopeDriver, "cache.write_failed", err.Error(), "path", res.Path)
		}
	}
	emit(opts.Progress, res.Path, StageCheck, StatusDone, nil, parseDur+checkDur)
}

func timerBegin(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func timerEnd(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}

func timerAdd(t *observ.Timer, name string, d time.Duration) {
	if t != nil {
		t.Add(name, d)
	}
}
