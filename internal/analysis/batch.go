package analysis

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"satyls/internal/source"
	"satyls/internal/symbols"
)

// FileResult is the outcome of analyzing one file in a batch.
type FileResult struct {
	Path string
	Snap *Snapshot
	Err  error
}

// AnalyzeFiles checks a set of files in parallel. Results come back
// sorted by path regardless of completion order. Jobs limits the
// number of concurrent analyses; zero means one per file.
func AnalyzeFiles(ctx context.Context, loader *Loader, paths []string, jobs int) []FileResult {
	if jobs <= 0 || jobs > len(paths) {
		jobs = len(paths)
	}
	results := make([]FileResult, 0, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, path := range paths {
		g.Go(func() error {
			res := analyzeOne(ctx, loader, path)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

func analyzeOne(ctx context.Context, loader *Loader, path string) FileResult {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	file := fs.Get(id)
	var deps []*symbols.Table
	if loader != nil {
		deps = loader.LoadFor(ctx, fs, file)
	}
	snap, err := build(ctx, fs, file, 0, deps)
	return FileResult{Path: path, Snap: snap, Err: err}
}
