package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/appicon/appicon"
	"github.com/nvr-ai/appicon/config"
	"github.com/nvr-ai/appicon/internal/ctxlog"
	"github.com/nvr-ai/appicon/profiler"
	"github.com/nvr-ai/appicon/util"
)

// runner generates icons for a list of tasks, a bounded number at a time.
type runner struct {
	jobs    int
	debug   bool
	tracker *profiler.Tracker
}

func newRunner(jobs int, debug bool) *runner {
	return &runner{
		jobs:    max(1, jobs),
		debug:   debug,
		tracker: profiler.NewTracker(),
	}
}

// run generates every task and returns the first error. Tasks still running
// when one fails are cancelled between sizes.
func (r *runner) run(ctx context.Context, tasks []config.Task) error {
	if err := checkDistinctOutputs(tasks); err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	results := make([]*appicon.Result, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			gen := appicon.NewGenerator(
				appicon.WithFilter(task.Filter),
				appicon.WithTracker(r.tracker),
			)
			gen.SetDebugMode(r.debug)

			res, err := gen.Generate(ctx, task.Request)
			if err != nil {
				return errors.Wrapf(err, "generate %s", task.Request.InputPath)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	files := 0
	for _, res := range results {
		files += len(res.Files)
	}
	logger.Info("app icons generated", "inputs", len(tasks), "files", files)

	if r.debug {
		for _, stat := range r.tracker.Snapshot() {
			logger.Debug("total stage timing",
				"stage", stat.Name,
				"count", stat.Count,
				"avg", stat.Average(),
				"min", stat.MinTime,
				"max", stat.MaxTime,
			)
		}
	}
	return nil
}

// checkDistinctOutputs rejects task lists in which two inputs would write the
// same icon file.
func checkDistinctOutputs(tasks []config.Task) error {
	seen := make(map[string]string)
	for _, task := range tasks {
		req := task.Request
		sizes, err := appicon.ParseSizes(req.Size)
		if err != nil {
			return errors.Wrapf(err, "plan %s", req.InputPath)
		}

		name := filepath.Base(req.InputPath)
		base := strings.TrimSuffix(name, filepath.Ext(name))
		for _, size := range sizes {
			path := filepath.Join(filepath.Clean(req.OutputDir), appicon.OutputName(base, size))
			if prev, ok := seen[path]; ok {
				return &appicon.Error{
					Kind: appicon.ErrInvalidArgument,
					Op:   "plan batch",
					Err:  fmt.Errorf("%s and %s would both write %s", prev, req.InputPath, path),
				}
			}
			seen[path] = req.InputPath
		}
	}
	return nil
}

// directoryTasks creates one task per image found directly inside dir.
func directoryTasks(dir string, defaults config.Defaults) ([]config.Task, error) {
	files, err := util.ListImageFiles(dir)
	if err != nil {
		return nil, errors.Wrap(err, "list input directory")
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no images found in %s", dir)
	}

	tasks := make([]config.Task, 0, len(files))
	for _, file := range files {
		task, err := defaults.Task(file.Path)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
