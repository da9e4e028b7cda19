package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// progressInterval is how often Batch logs progress.
var progressInterval = 2 * time.Second

// Collect lists the files in dir matching pattern, sorted by name. With no
// output directory configured, files that already carry the output suffix
// are skipped so a rerun does not convert its own output.
func (p *Processor) Collect(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = p.cfg.Batch.Pattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("batch pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	suffix := p.cfg.Output.Suffix
	if p.cfg.Output.Dir != "" || suffix == "" {
		return matches, nil
	}
	files := matches[:0]
	for _, f := range matches {
		base := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if strings.HasSuffix(base, suffix) {
			p.log.Debug("skipping converted file", zap.String("path", f))
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// Batch converts files with a pool of workers. Each worker owns the mesh
// it is converting. Results are in the order of files. Files not started
// before ctx is cancelled get ctx.Err() as their error.
func (p *Processor) Batch(ctx context.Context, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	workers := p.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n := processed.Load()
				if n > 0 {
					rate := float64(n) / time.Since(start).Seconds()
					p.log.Info("batch progress",
						zap.Int64("done", n),
						zap.Int("total", total),
						zap.Float64("files_per_sec", rate))
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.Convert(files[idx], "")
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
feed:
	for ; sent < total; sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- sent:
		}
	}
	close(jobs)
	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Input: files[i], Err: ctx.Err()}
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	p.log.Info("batch complete",
		zap.Int("total", total),
		zap.Int("failed", failed),
		zap.Int("workers", workers),
		zap.Duration("took", time.Since(start)))
	return results
}

// Errors combines the failures in results into one error, nil when all
// conversions succeeded. multierr.Errors recovers the individual errors.
func Errors(results []Result) error {
	var err error
	for _, r := range results {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}
	return err
}
