package project

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/namedgen/internal/gen"
)

// RunOptions configures a generation run across directories.
type RunOptions struct {
	Gen    gen.Options
	Jobs   int  // max directories processed concurrently; <=0 means 1
	DryRun bool // diagnose and report, write nothing
}

// Run processes each directory concurrently and returns the results in
// directory order. Outputs are written only for directories that
// generated cleanly; I/O errors abort the run.
func Run(ctx context.Context, dirs []string, opts RunOptions) ([]*gen.Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	var mu sync.Mutex
	results := make([]*gen.Result, 0, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := gen.ProcessDir(dir, opts.Gen)
			if err != nil {
				return err
			}
			if !opts.DryRun && res.Ok() {
				if err := res.WriteOutputs(); err != nil {
					return err
				}
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Dir < results[j].Dir })
	return results, nil
}
