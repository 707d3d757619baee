// Package check loads a slide index and fetches every slide's fragment,
// reporting which slides would fail to open in the gallery.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/slide-gallery/internal/progress"
	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

// Result is the outcome of fetching one slide's fragment.
type Result struct {
	Position int
	Path     string
	Title    string
	Empty    bool
	Err      error
	Duration time.Duration
}

// OK reports whether the fragment loaded.
func (r Result) OK() bool { return r.Err == nil }

// Report summarizes a check run. Results are in index order.
type Report struct {
	Results []Result
}

// Failed returns the results whose fragment could not be loaded.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Checker fetches fragments with bounded concurrency.
type Checker struct {
	Index       widget.IndexLoader
	Fragments   widget.FragmentLoader
	Concurrency int
	Reporter    progress.Reporter
	Logger      *slog.Logger
}

// Run loads the index and checks every slide. An index failure is returned
// as an error; fragment failures are recorded in the report.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	index, err := c.Index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slide index: %w", err)
	}

	report := &Report{Results: make([]Result, len(index))}
	if c.Reporter != nil {
		c.Reporter.Start(len(index))
		defer c.Reporter.Finish()
	}

	limit := c.Concurrency
	if limit <= 0 {
		limit = 1
	}

	var (
		mu   sync.Mutex
		done int
	)
	var g errgroup.Group
	g.SetLimit(limit)
	for i, summary := range index {
		g.Go(func() error {
			start := time.Now()
			html, err := c.Fragments.Load(ctx, summary.Path)
			res := Result{
				Position: i,
				Path:     summary.Path,
				Title:    summary.Title,
				Empty:    err == nil && html.IsEmpty(),
				Err:      err,
				Duration: time.Since(start),
			}
			if err != nil {
				logger.Warn("check: fragment failed", "path", summary.Path, "error", err)
			}

			mu.Lock()
			report.Results[i] = res
			done++
			if c.Reporter != nil {
				c.Reporter.Update(done, summary.Path)
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
