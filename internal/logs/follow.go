package logs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PollInterval is how often Follow re-reads the file when fsnotify is unavailable.
var PollInterval = 250 * time.Millisecond

// Follow calls fn for every complete line appended to path after offset until
// ctx is cancelled or fn returns an error. It returns the offset reached.
// Cancellation is not reported as an error.
func Follow(ctx context.Context, path string, offset int64, fn func(string) error) (int64, error) {
	if err := checkFile(path); err != nil {
		return offset, err
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		// Watch the directory so truncation or recreation by the server is seen.
		if addErr := watcher.Add(filepath.Dir(path)); addErr == nil {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	drain := func() error {
		lines, next, err := readForward(path, offset)
		if err != nil {
			return err
		}
		offset = next
		for _, line := range lines {
			if err := fn(line); err != nil {
				return err
			}
		}
		return nil
	}

	if err := drain(); err != nil {
		return offset, err
	}

	for {
		select {
		case <-ctx.Done():
			return offset, nil
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
		case watchErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return offset, fmt.Errorf("watch log file: %w", watchErr)
		case <-ticker.C:
		}

		if err := truncated(path, &offset); err != nil {
			return offset, err
		}
		if err := drain(); err != nil {
			return offset, err
		}
	}
}

func truncated(path string, offset *int64) error {
	size, err := fileSize(path)
	if err != nil {
		return err
	}
	if size < *offset {
		*offset = 0
	}
	return nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat log file: %w", err)
	}
	return info.Size(), nil
}
