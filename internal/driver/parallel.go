package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// IRExt is the file extension of textual IR.
const IRExt = ".ir"

// ListIRFiles returns a sorted list of all *.ir files under dir.
func ListIRFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, IRExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ExpandPaths replaces every directory in paths by the IR files it holds.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := ListIRFiles(p)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%s: no %s files", p, IRExt)
		}
		out = append(out, files...)
	}
	return out, nil
}

// OptimizeFiles optimizes every file concurrently, one module per
// goroutine. Results keep the order of paths. All files are attempted;
// failures are joined into the returned error and leave a nil entry.
func OptimizeFiles(ctx context.Context, paths []string, opts Options) ([]*FileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusQueued})
	}

	// Each goroutine owns its own index.
	results := make([]*FileResult, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err})
				return nil
			}
			res, err := OptimizeFile(ctx, path, opts)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}
