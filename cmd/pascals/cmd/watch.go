package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pascals/pkg/utils"
)

const debounceDelay = 200 * time.Millisecond

// watch calls rerun with the path as given whenever one of files is written,
// until ctx is cancelled. Parent directories are watched so that editors
// which replace files on save are still seen.
func (a *app) watch(ctx context.Context, w io.Writer, files []string, rerun func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		full, dir, err := utils.GetPathInfo(f)
		if err != nil {
			return err
		}
		targets[full] = f
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory: %w", err)
		}
		dirs[dir] = true
	}
	a.log.Info("watching", "files", len(targets), "dirs", len(dirs))
	fmt.Fprintln(w, a.styles.render(a.styles.muted, "Watching for changes. Press Ctrl+C to stop."))

	// Saves arrive as several events; a file is rerun once it has been
	// quiet for debounceDelay.
	pending := make(map[string]bool)
	settle := time.NewTimer(debounceDelay)
	settle.Stop()
	defer settle.Stop()

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
			name := filepath.Clean(event.Name)
			if _, ok := targets[name]; !ok {
				continue
			}
			a.log.Debug("source changed", "file", targets[name], "op", event.Op.String())
			pending[name] = true
			settle.Reset(debounceDelay)

		case <-settle.C:
			for _, f := range files {
				full, _, _ := utils.GetPathInfo(f)
				if !pending[full] {
					continue
				}
				delete(pending, full)
				fmt.Fprintf(w, "\n%s %s\n", a.styles.render(a.styles.warning, "Changed:"), f)
				rerun(f)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Error("watcher error", "error", err)
		}
	}
}
