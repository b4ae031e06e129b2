// Package pages orchestrates the per-page metric fetch cycles: fan-out across
// the gateway, per-section error isolation, and stale-cycle suppression. Each
// page holds its own derived state; a refresh that is superseded by a newer
// one commits nothing.
package pages

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
)

// MetricsAPI is the gateway surface the page orchestrators fetch through.
type MetricsAPI interface {
	FilterSeries(ctx context.Context, req upstream.MeasureRequest, params types.FilterParams) ([]types.TrendRow, error)
	AverageByLocation(ctx context.Context, req upstream.MeasureRequest, dashboard bool, params types.FilterParams) ([]types.LocationAvg, error)
	StraightAverage(ctx context.Context, req upstream.MeasureRequest, params types.FilterParams) (types.StraightAverage, error)
	SignalsFilterAverage(ctx context.Context, req upstream.MeasureRequest, params types.FilterParams) ([]types.LocationAvg, error)
	SummaryTrends(ctx context.Context, params types.FilterParams) (types.SummaryTrends, error)
	Trend(ctx context.Context, req upstream.TrendRequest) ([]types.HealthRow, error)
	MonthAverages(ctx context.Context, zoneGroup, month string) (types.RegionAverage, error)
	WatchdogData(ctx context.Context, params types.WatchdogParams) ([]types.WatchdogData, error)
}

// SignalSource supplies the signal registry for map joins.
type SignalSource interface {
	Signals(ctx context.Context) ([]types.Signal, error)
}

// Section is one independently fetched slice of a page: its data, whether a
// fetch is in flight, and the user-facing message of the last failure. A
// failed section never takes the rest of the page down.
type Section[T any] struct {
	Data    T      `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func sectionOK[T any](data T) Section[T] {
	return Section[T]{Data: data}
}

func sectionErr[T any](err error) Section[T] {
	return Section[T]{Error: userMessage(err)}
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// cycle numbers refresh rounds so a slow fetch can detect it has been lapped.
type cycle struct {
	gen atomic.Uint64
}

// begin starts a new round and returns its number.
func (c *cycle) begin() uint64 {
	return c.gen.Add(1)
}

// current reports whether round g is still the newest.
func (c *cycle) current(g uint64) bool {
	return c.gen.Load() == g
}

// peek returns the current round number without starting a new one. Section
// retries observe the round they run under; a full refresh beginning
// afterwards supersedes them.
func (c *cycle) peek() uint64 {
	return c.gen.Load()
}

// fanOutLimit bounds concurrent gateway calls within one page refresh.
const fanOutLimit = 4
