package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vie-scout/vigie/refresh"
)

// fileTracker keeps a single RFC3339Nano timestamp in its own file.
type fileTracker struct {
	options refresh.Options
	path    string
}

func (t *fileTracker) Last(ctx context.Context) (time.Time, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last refresh: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		slog.Warn("unreadable last refresh timestamp, treating as never refreshed", "path", t.path, "error", err)
		return time.Time{}, nil
	}

	return ts, nil
}

func (t *fileTracker) Mark(ctx context.Context, ts time.Time) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tracker dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp tracker: %w", err)
	}

	if _, err := tmp.WriteString(ts.UTC().Format(time.RFC3339Nano)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write tracker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close tracker: %w", err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace tracker: %w", err)
	}

	return nil
}

func NewTracker(opts ...refresh.Option) refresh.Tracker {
	options := refresh.NewOptions(opts...)

	t := &fileTracker{
		options: options,
		path:    options.Location,
	}

	if len(t.path) == 0 {
		t.path = "vigie_last_refresh"
	}

	return t
}
