package pages

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// Watchdog filter option lists.
var (
	WatchdogAlerts = []string{
		"No Camera Image",
		"Bad Vehicle Detection",
		"Bad Ped Pushbuttons",
		"Pedestrian Activations",
		"Force Offs",
		"Max Outs",
		"Count",
		"Missing Records",
	}
	WatchdogPhases     = []string{"All", "1", "2", "3", "4", "5", "6", "7", "8"}
	WatchdogStreaks    = []string{"All", "Active", "Active 3-days"}
	WatchdogZoneGroups = []string{
		"Central Metro",
		"Eastern Metro",
		"Western Metro",
		"North",
		"Southeast",
		"Southwest",
		"Ramp Meters",
	}
)

// watchdogWindowDays is the default look-back for the alert window.
const watchdogWindowDays = 7

// DefaultWatchdogParams returns the initial alert filter: the last seven
// days, camera-image alerts, all phases and streaks, Central Metro.
func DefaultWatchdogParams(now time.Time) types.WatchdogParams {
	return types.WatchdogParams{
		StartDate:          now.AddDate(0, 0, -watchdogWindowDays).UTC().Format(time.RFC3339),
		EndDate:            now.UTC().Format(time.RFC3339),
		Alert:              "No Camera Image",
		Phase:              "All",
		IntersectionFilter: "",
		Streak:             "All",
		ZoneGroup:          "Central Metro",
	}
}

// WatchdogState is the watchdog page's derived state: the heatmap plus alert
// table payload for the current filter.
type WatchdogState struct {
	Params     types.WatchdogParams        `json:"params"`
	Data       Section[types.WatchdogData] `json:"data"`
	Generation uint64                      `json:"generation"`
}

// Watchdog orchestrates the equipment-alert page. Filter edits funnel through
// SetParams, which trailing-debounces the fetch so a burst of control changes
// issues a single request for the final filter.
type Watchdog struct {
	api    MetricsAPI
	logger *slog.Logger
	wait   time.Duration

	mu      sync.RWMutex
	cyc     cycle
	state   WatchdogState
	timer   *time.Timer
	fetchFn func(types.WatchdogParams) // injectable for debounce tests
}

// NewWatchdog wires the watchdog page. wait is the debounce window for filter
// edits.
func NewWatchdog(api MetricsAPI, wait time.Duration, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watchdog{
		api:    api,
		logger: logger,
		wait:   wait,
		state:  WatchdogState{Params: DefaultWatchdogParams(time.Now())},
	}
	w.fetchFn = func(p types.WatchdogParams) {
		w.Refresh(context.Background(), p)
	}
	return w
}

// State returns the last committed snapshot.
func (w *Watchdog) State() WatchdogState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// SetParams records a filter edit and schedules a debounced fetch. Each edit
// within the wait window pushes the fetch out; only the final filter is
// fetched.
func (w *Watchdog) SetParams(params types.WatchdogParams) {
	w.mu.Lock()
	w.state.Params = params
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.wait, func() {
		w.fetchFn(params)
	})
	w.mu.Unlock()
}

// Stop cancels any pending debounced fetch.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

// Refresh fetches alert data for the given filter immediately, bypassing the
// debounce. Used for the initial load and explicit reloads.
func (w *Watchdog) Refresh(ctx context.Context, params types.WatchdogParams) WatchdogState {
	gen := w.cyc.begin()

	w.mu.Lock()
	w.state.Data.Loading = true
	w.mu.Unlock()

	var section Section[types.WatchdogData]
	data, err := w.api.WatchdogData(ctx, params)
	switch {
	case err != nil:
		w.logger.Warn("watchdog fetch failed", "alert", params.Alert, "error", err)
		section = sectionErr[types.WatchdogData](err)
	case len(data) == 0:
		section = sectionOK(types.WatchdogData{})
	default:
		// The endpoint wraps the payload in a single-element array.
		section = sectionOK(data[0])
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.cyc.current(gen) {
		w.logger.Debug("discarding stale watchdog cycle", "generation", gen)
		return w.state
	}
	w.state = WatchdogState{Params: params, Data: section, Generation: gen}
	return w.state
}
