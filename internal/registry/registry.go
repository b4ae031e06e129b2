// Package registry maintains the in-memory signal registry: the authoritative
// list of intersections used to place map markers and resolve signal IDs.
// The registry refreshes from the metrics API on an interval and persists a
// compressed snapshot to disk so a restart can serve the map before the first
// upstream fetch completes.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// SignalFetcher is the upstream surface the registry depends on.
type SignalFetcher interface {
	AllSignals(ctx context.Context) ([]types.Signal, error)
}

// Registry caches the signal list with a TTL. Reads never block on a refresh:
// a stale list is served while a failed refresh is retried on the next read.
type Registry struct {
	fetcher      SignalFetcher
	interval     time.Duration
	snapshotPath string
	logger       *slog.Logger
	nowFn        func() time.Time

	mu        sync.RWMutex
	signals   []types.Signal
	byID      map[string]types.Signal
	fetchedAt time.Time
}

// snapshot is the on-disk representation of the registry contents.
type snapshot struct {
	FetchedAt time.Time      `json:"fetchedAt"`
	Signals   []types.Signal `json:"signals"`
}

// New creates a Registry. If a snapshot exists at the configured path it is
// loaded immediately so the first read can serve data; load failures are
// logged and ignored.
func New(fetcher SignalFetcher, cfg config.RegistryConfig, logger *slog.Logger) *Registry {
	r := &Registry{
		fetcher:      fetcher,
		interval:     cfg.RefreshInterval,
		snapshotPath: cfg.SnapshotPath,
		logger:       logger,
		nowFn:        time.Now,
	}
	if cfg.SnapshotPath != "" {
		if err := r.loadSnapshot(); err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("failed to load signal registry snapshot",
					"path", cfg.SnapshotPath,
					"error", err,
				)
			}
		}
	}
	return r
}

// Signals returns the current signal list, refreshing from upstream when the
// cached copy is older than the refresh interval. When a refresh fails and a
// previous list exists, the stale list is returned instead of the error.
func (r *Registry) Signals(ctx context.Context) ([]types.Signal, error) {
	r.mu.RLock()
	signals, fetchedAt := r.signals, r.fetchedAt
	r.mu.RUnlock()

	if signals != nil && r.nowFn().Sub(fetchedAt) < r.interval {
		return signals, nil
	}

	fresh, err := r.Refresh(ctx)
	if err != nil {
		if signals != nil {
			r.logger.Warn("signal registry refresh failed, serving stale list",
				"age", r.nowFn().Sub(fetchedAt).String(),
				"error", err,
			)
			return signals, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Lookup resolves a signal by its ID.
func (r *Registry) Lookup(signalID string) (types.Signal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[signalID]
	return s, ok
}

// Len reports the number of signals currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.signals)
}

// Refresh fetches the signal list from upstream, replaces the cached copy, and
// writes the disk snapshot.
func (r *Registry) Refresh(ctx context.Context) ([]types.Signal, error) {
	signals, err := r.fetcher.AllSignals(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.Signal, len(signals))
	for _, s := range signals {
		if s.SignalID != "" {
			byID[s.SignalID] = s
		}
	}

	now := r.nowFn()
	r.mu.Lock()
	r.signals = signals
	r.byID = byID
	r.fetchedAt = now
	r.mu.Unlock()

	if r.snapshotPath != "" {
		if err := r.writeSnapshot(snapshot{FetchedAt: now, Signals: signals}); err != nil {
			r.logger.Warn("failed to write signal registry snapshot",
				"path", r.snapshotPath,
				"error", err,
			)
		}
	}

	r.logger.Info("signal registry refreshed", "signals", len(signals))
	return signals, nil
}

// Run refreshes the registry on the configured interval until ctx is
// cancelled. An immediate refresh is attempted on entry so the registry is
// warm before the first tick.
func (r *Registry) Run(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("initial signal registry refresh failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				r.logger.Error("signal registry refresh failed", "error", err)
			}
		}
	}
}

// loadSnapshot restores the registry from the zstd-compressed snapshot file.
func (r *Registry) loadSnapshot() error {
	compressed, err := os.ReadFile(r.snapshotPath)
	if err != nil {
		return err
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("decompressing snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}

	byID := make(map[string]types.Signal, len(snap.Signals))
	for _, s := range snap.Signals {
		if s.SignalID != "" {
			byID[s.SignalID] = s
		}
	}

	r.mu.Lock()
	r.signals = snap.Signals
	r.byID = byID
	r.fetchedAt = snap.FetchedAt
	r.mu.Unlock()

	r.logger.Info("signal registry restored from snapshot",
		"signals", len(snap.Signals),
		"fetchedAt", snap.FetchedAt,
	)
	return nil
}

// writeSnapshot persists the registry atomically: compress to a temp file in
// the same directory, then rename over the target.
func (r *Registry) writeSnapshot(snap snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	compressed := encoder.EncodeAll(data, nil)
	encoder.Close()

	dir := filepath.Dir(r.snapshotPath)
	tmp, err := os.CreateTemp(dir, ".registry-*.zst")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.snapshotPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
