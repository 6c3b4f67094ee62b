package main

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/nvr-ai/appicon/config"
	"github.com/nvr-ai/appicon/internal/ctxlog"
)

// settleDelay is how long a source must stay quiet before it is regenerated.
const settleDelay = 250 * time.Millisecond

// watchTasks regenerates the icons of a task whenever its source image is
// written or recreated. It returns nil once ctx is done. Generation failures
// are logged and do not stop the watch.
func watchTasks(ctx context.Context, r *runner, tasks []config.Task) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	bySource := sourceIndex(tasks)
	dirs := make(map[string]bool)
	for path := range bySource {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}
	logger.Info("watching for changes", "sources", len(bySource), "dirs", len(dirs))

	pending := make(map[string]bool)
	timer := time.NewTimer(settleDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := cleanPath(event.Name)
			if _, ok := bySource[path]; !ok {
				continue
			}
			pending[path] = true
			timer.Reset(settleDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			clear(pending)

			var batch []config.Task
			for _, path := range changed {
				batch = append(batch, bySource[path]...)
			}
			logger.Info("sources changed", "files", changed)
			if err := r.run(ctx, batch); err != nil {
				logger.Error("regeneration failed", "error", err)
			}
		}
	}
}

// sourceIndex groups tasks by the cleaned absolute path of their input.
func sourceIndex(tasks []config.Task) map[string][]config.Task {
	index := make(map[string][]config.Task, len(tasks))
	for _, task := range tasks {
		path := cleanPath(task.Request.InputPath)
		index[path] = append(index[path], task)
	}
	return index
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
