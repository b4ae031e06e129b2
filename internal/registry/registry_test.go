package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

type stubFetcher struct {
	signals []types.Signal
	err     error
	calls   atomic.Int32
}

func (f *stubFetcher) AllSignals(ctx context.Context) ([]types.Signal, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.signals, nil
}

func testSignals() []types.Signal {
	return []types.Signal{
		{SignalID: "1001", Intersection: "SR 9 @ Main St", Latitude: 33.9, Longitude: -84.3},
		{SignalID: "1002", Intersection: "US 78 @ Oak Rd", Latitude: 33.8, Longitude: -84.2},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSignalsFetchesOnFirstRead(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())

	signals, err := r.Signals(context.Background())

	require.NoError(t, err)
	assert.Len(t, signals, 2)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestSignalsServedFromCacheWithinTTL(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())

	_, err := r.Signals(context.Background())
	require.NoError(t, err)
	_, err = r.Signals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestSignalsRefreshesAfterTTL(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())
	now := time.Now()
	r.nowFn = func() time.Time { return now }

	_, err := r.Signals(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = r.Signals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestSignalsServesStaleOnRefreshFailure(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())
	now := time.Now()
	r.nowFn = func() time.Time { return now }

	_, err := r.Signals(context.Background())
	require.NoError(t, err)

	fetcher.err = errors.New("upstream down")
	now = now.Add(2 * time.Hour)
	signals, err := r.Signals(context.Background())

	require.NoError(t, err)
	assert.Len(t, signals, 2)
}

func TestSignalsErrorWhenEmptyAndUpstreamDown(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())

	_, err := r.Signals(context.Background())

	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())
	_, err := r.Signals(context.Background())
	require.NoError(t, err)

	s, ok := r.Lookup("1002")
	require.True(t, ok)
	assert.Equal(t, "US 78 @ Oak Rd", s.Intersection)

	_, ok = r.Lookup("9999")
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.zst")
	fetcher := &stubFetcher{signals: testSignals()}
	cfg := config.RegistryConfig{RefreshInterval: time.Hour, SnapshotPath: path}

	r := New(fetcher, cfg, testLogger())
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	// A new registry with a failing fetcher serves from the snapshot.
	restored := New(&stubFetcher{err: errors.New("upstream down")}, cfg, testLogger())
	signals, err := restored.Signals(context.Background())

	require.NoError(t, err)
	assert.Len(t, signals, 2)
	s, ok := restored.Lookup("1001")
	require.True(t, ok)
	assert.Equal(t, "SR 9 @ Main St", s.Intersection)
}

func TestMissingSnapshotIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.zst")
	fetcher := &stubFetcher{signals: testSignals()}

	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour, SnapshotPath: path}, testLogger())

	assert.Zero(t, r.Len())
}

func TestRefreshReplacesPreviousList(t *testing.T) {
	fetcher := &stubFetcher{signals: testSignals()}
	r := New(fetcher, config.RegistryConfig{RefreshInterval: time.Hour}, testLogger())
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	fetcher.signals = []types.Signal{{SignalID: "2001", Intersection: "SR 20 @ Elm St"}}
	signals, err := r.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, signals, 1)
	_, ok := r.Lookup("1001")
	assert.False(t, ok)
	_, ok = r.Lookup("2001")
	assert.True(t, ok)
}
