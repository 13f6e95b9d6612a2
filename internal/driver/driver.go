// Package driver loads IR files, runs the local optimizer over them and
// caches the results on disk.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"localopt/internal/ir"
	"localopt/internal/localopt"
	"localopt/internal/observ"
	"localopt/internal/trace"
)

// Options configures a driver run.
type Options struct {
	Pass  localopt.Options
	Cache *DiskCache // nil disables caching
	Jobs  int        // concurrent files; <= 0 means GOMAXPROCS
	Timer *observ.Timer

	Progress ProgressSink
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	Module *ir.Module
	Result localopt.Result
	Cached bool
}

// OptimizeFile reads path and optimizes it.
func OptimizeFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", path, err)
		emit(opts.Progress, Event{File: path, Status: StatusError, Err: err})
		return nil, err
	}
	return OptimizeSource(ctx, path, src, opts)
}

// OptimizeSource parses src, validates it, runs the pass and validates the
// result again. A cache hit skips all of that.
func OptimizeSource(ctx context.Context, path string, src []byte, opts Options) (*FileResult, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeDriver, "file", trace.ParentSpan(ctx)).WithExtra("path", path)
	start := time.Now()
	res, err := optimizeSource(trace.WithParent(ctx, span.ID()), path, src, opts)
	detail := ""
	if err != nil {
		detail = err.Error()
		emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
	} else {
		span.WithExtra("cached", strconv.FormatBool(res.Cached))
		emit(opts.Progress, Event{File: path, Status: StatusDone, Elapsed: time.Since(start), Fired: res.Result.Total()})
	}
	span.End(detail)
	return res, err
}

func optimizeSource(ctx context.Context, path string, src []byte, opts Options) (*FileResult, error) {
	key := CacheKey(src, opts.Pass)
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		if res, ok := loadCached(opts.Cache, key, path); ok {
			return res, nil
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	var m *ir.Module
	err := opts.Timer.Track("parse "+path, func() error {
		var err error
		m, err = ir.Parse(path, string(src))
		if err != nil {
			return err
		}
		return ir.Validate(m)
	})
	if err != nil {
		return nil, err
	}

	emit(opts.Progress, Event{File: path, Stage: StageOptimize, Status: StatusWorking})
	var res localopt.Result
	err = opts.Timer.Track("optimize "+path, func() error {
		var err error
		if res, err = localopt.Run(ctx, m, opts.Pass); err != nil {
			return err
		}
		if err := ir.Validate(m); err != nil {
			return fmt.Errorf("%s: optimizer produced invalid IR: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		storeCached(opts.Cache, key, path, m, res)
	}
	return &FileResult{Path: path, Module: m, Result: res}, nil
}

// Cache failures never fail a run; a bad entry is treated as a miss.
func loadCached(c *DiskCache, key Digest, path string) (*FileResult, bool) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return nil, false
	}
	m, err := ir.Decode(bytes.NewReader(payload.Module))
	if err != nil {
		return nil, false
	}
	return &FileResult{Path: path, Module: m, Result: payload.Result, Cached: true}, true
}

func storeCached(c *DiskCache, key Digest, path string, m *ir.Module, res localopt.Result) {
	var buf bytes.Buffer
	if err := ir.Encode(&buf, m); err != nil {
		return
	}
	_ = c.Put(key, &DiskPayload{Path: path, Result: res, Module: buf.Bytes()}) //nolint:errcheck
}
