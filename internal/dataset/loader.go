package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

type Options struct {
	HTTPClient *http.Client
	// CacheDir holds gob snapshots of parsed tables. Empty disables caching.
	CacheDir string
	CacheTTL time.Duration
	Logger   *slog.Logger
}

type Loader struct {
	client   *http.Client
	cacheDir string
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewLoader(opts Options) *Loader {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client:   client,
		cacheDir: opts.CacheDir,
		cacheTTL: opts.CacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the dataset from an http(s) URL or a local file path.
func (l *Loader) Load(ctx context.Context, source string) (*Table, error) {
	if source == "" {
		return nil, fmt.Errorf("dataset source cannot be empty")
	}

	if snap, err := l.loadSnapshot(source); err == nil {
		if l.snapshotFresh(source, snap) {
			l.logger.Info("loaded dataset from cache",
				"source", source,
				"records", len(snap.Records),
				"saved_at", snap.SavedAt,
			)
			return NewTable(source, snap.SavedAt, snap.Records), nil
		}
	}

	start := l.now()
	l.logger.Info("loading dataset", "source", source)

	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	result, err := Parse(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	if result.Skipped > 0 {
		l.logger.Warn("skipped invalid rows", "count", result.Skipped)
	}

	loadedAt := l.now()
	table := NewTable(source, loadedAt, result.Records)

	if err := l.saveSnapshot(source, loadedAt, result.Records); err != nil {
		l.logger.Warn("failed to save dataset cache", "error", err)
	}

	l.logger.Info("dataset loaded",
		"records", table.Len(),
		"duration", time.Since(start),
	)
	return table, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !isRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
