package render_box

import (
	"context"
	"fmt"
	"golang.org/x/sync/errgroup"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindLatestAudio Path of the most recently modified file with extension ext in dir
func FindLatestAudio(dir string, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot list %s : %w", dir, err)
	}
	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed in between
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(dir, entry.Name())
			latestTime = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no %s file found in %s", ext, dir)
	}
	return latest, nil
}

// ListAudio Paths of every file with extension ext in dir, sorted by name
func ListAudio(dir string, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s : %w", dir, err)
	}
	var paths []string
	// ReadDir entries are already sorted by name
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// RenderAll Run every job with at most limit of them at once. The first failure cancels
// the context handed to the others, and is returned. A limit <= 0 means no limit
func RenderAll[J any](ctx context.Context, jobs []J, limit int, run func(context.Context, J) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, job := range jobs {
		g.Go(func() error {
			// Do not start anything once a job failed
			if err := gCtx.Err(); err != nil {
				return err
			}
			return run(gCtx, job)
		})
	}
	return g.Wait()
}
