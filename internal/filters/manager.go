package filters

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
)

// OptionsAPI is the subset of the metrics gateway the filter sidebar needs:
// the attribute option list endpoints.
type OptionsAPI interface {
	ZoneGroups(ctx context.Context) ([]string, error)
	Zones(ctx context.Context) ([]string, error)
	ZonesByZoneGroup(ctx context.Context, zoneGroup string) ([]string, error)
	Agencies(ctx context.Context) ([]string, error)
	Counties(ctx context.Context) ([]string, error)
	Cities(ctx context.Context) ([]string, error)
	Corridors(ctx context.Context) ([]string, error)
	CorridorsByFilter(ctx context.Context, filter upstream.OptionFilter) ([]string, error)
	Subcorridors(ctx context.Context) ([]string, error)
	SubcorridorsByCorridor(ctx context.Context, corridor string) ([]string, error)
	Priorities(ctx context.Context) ([]string, error)
	Classifications(ctx context.Context) ([]string, error)
}

// OptionCache is an optional read-through cache for the static option lists.
// Implementations must be safe for concurrent use. A nil cache disables
// caching entirely; the gateway itself never caches.
type OptionCache interface {
	GetOptions(ctx context.Context, key string) ([]string, bool)
	SetOptions(ctx context.Context, key string, opts []string)
}

// DefaultsStore persists saved filter defaults per profile.
type DefaultsStore interface {
	Save(ctx context.Context, profile string, saved types.SavedFilters) error
	Load(ctx context.Context, profile string) (types.SavedFilters, bool, error)
}

// Manager drives the filter sidebar state machine on top of the Store:
// idle -> filtering on any control edit (set by the Store actions), and back
// to idle on Apply, Clear, or SaveAsDefaults. Attribute-list fetch failures
// set the warning error state but never block other filters from functioning.
type Manager struct {
	store    *Store
	api      OptionsAPI
	cache    OptionCache   // may be nil
	defaults DefaultsStore // may be nil
	logger   *slog.Logger
}

// NewManager wires a Manager. cache and defaults may be nil.
func NewManager(store *Store, api OptionsAPI, cache OptionCache, defaults DefaultsStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, api: api, cache: cache, defaults: defaults, logger: logger}
}

// Store exposes the underlying filter store.
func (m *Manager) Store() *Store {
	return m.store
}

// optionLoadLimit bounds concurrent option-list fetches in one load cycle.
const optionLoadLimit = 4

// LoadOptions fetches all attribute option lists concurrently. Each list has
// its own loading flag, set before dispatch and cleared on both success and
// failure. A failed list sets the warning error state; the remaining lists
// still load. An empty zones result keeps the existing zones.
func (m *Manager) LoadOptions(ctx context.Context) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(optionLoadLimit)

	lists := []struct {
		key         string
		fetch       func(context.Context) ([]string, error)
		assign      func(*types.FilterState, []string)
		keepOnEmpty bool
	}{
		{"zoneGroups", m.api.ZoneGroups, func(st *types.FilterState, v []string) { st.ZoneGroups = v }, false},
		{"zones", m.api.Zones, func(st *types.FilterState, v []string) { st.Zones = v }, true},
		{"agencies", m.api.Agencies, func(st *types.FilterState, v []string) { st.Agencies = v }, false},
		{"counties", m.api.Counties, func(st *types.FilterState, v []string) { st.Counties = v }, false},
		{"cities", m.api.Cities, func(st *types.FilterState, v []string) { st.Cities = v }, false},
		{"corridors", m.api.Corridors, func(st *types.FilterState, v []string) { st.Corridors = v }, false},
		{"subcorridors", m.api.Subcorridors, func(st *types.FilterState, v []string) { st.Subcorridors = v }, false},
		{"priorities", m.api.Priorities, func(st *types.FilterState, v []string) { st.Priorities = v }, false},
		{"classifications", m.api.Classifications, func(st *types.FilterState, v []string) { st.Classifications = v }, false},
	}

	for _, list := range lists {
		list := list
		m.setLoading(list.key, true)
		g.Go(func() error {
			defer m.setLoading(list.key, false)
			opts, err := m.fetchCached(gCtx, list.key, list.fetch)
			if err != nil {
				m.logger.Warn("option list fetch failed", "list", list.key, "error", err)
				m.store.SetErrorState(types.ErrorStateWarning)
				return nil
			}
			if len(opts) == 0 && list.keepOnEmpty {
				m.logger.Warn("received empty option list, keeping existing", "list", list.key)
				return nil
			}
			m.store.modify(func(st *types.FilterState) { list.assign(st, opts) })
			return nil
		})
	}

	_ = g.Wait()
}

// Apply runs the dependent lookups for the current selections (districts for
// the selected region, corridors narrowed by region/district/agency/county/
// city, subcorridors for the selected corridor) and then flips the shared
// FiltersApplied toggle that all pages watch.
func (m *Manager) Apply(ctx context.Context) {
	st := m.store.State()

	if st.SelectedSignalGroup != "" {
		m.setLoading("zones", true)
		zones, err := m.api.ZonesByZoneGroup(ctx, st.SelectedSignalGroup)
		m.setLoading("zones", false)
		switch {
		case err != nil:
			// Keep existing zones; no error state change.
			m.logger.Warn("filtered zones fetch failed", "zoneGroup", st.SelectedSignalGroup, "error", err)
		case len(zones) == 0:
			m.logger.Warn("no zones for zone group, keeping existing", "zoneGroup", st.SelectedSignalGroup)
		default:
			m.store.modify(func(s *types.FilterState) { s.Zones = zones })
		}
	}

	m.setLoading("corridors", true)
	corridors, err := m.api.CorridorsByFilter(ctx, upstream.OptionFilter{
		ZoneGroup: st.SelectedSignalGroup,
		Zone:      st.SelectedDistrict,
		Agency:    st.SelectedAgency,
		County:    st.SelectedCounty,
		City:      st.SelectedCity,
	})
	m.setLoading("corridors", false)
	if err != nil {
		m.logger.Warn("filtered corridors fetch failed", "error", err)
		m.store.SetErrorState(types.ErrorStateWarning)
	} else {
		m.store.modify(func(s *types.FilterState) { s.Corridors = corridors })
	}

	if st.SelectedCorridor != "" {
		m.setLoading("subcorridors", true)
		subs, err := m.api.SubcorridorsByCorridor(ctx, st.SelectedCorridor)
		m.setLoading("subcorridors", false)
		if err != nil {
			m.logger.Warn("subcorridors fetch failed", "corridor", st.SelectedCorridor, "error", err)
			m.store.SetErrorState(types.ErrorStateWarning)
		} else {
			m.store.modify(func(s *types.FilterState) { s.Subcorridors = subs })
		}
	}

	m.store.markApplied()
}

// Clear resets all selections to defaults and re-issues the initial attribute
// option fetches.
func (m *Manager) Clear(ctx context.Context) {
	m.store.Reset()
	m.LoadOptions(ctx)
}

// SaveAsDefaults persists the current selections under the given profile and
// ends the filtering episode.
func (m *Manager) SaveAsDefaults(ctx context.Context, profile string) error {
	if m.defaults != nil {
		if err := m.defaults.Save(ctx, profile, m.store.Snapshot()); err != nil {
			return err
		}
	}
	m.store.markApplied()
	return nil
}

// LoadSavedDefaults restores previously saved selections for the profile, if
// any. Missing profiles are not an error; the bool reports whether a saved
// blob was found and applied.
func (m *Manager) LoadSavedDefaults(ctx context.Context, profile string) (bool, error) {
	if m.defaults == nil {
		return false, nil
	}
	saved, ok, err := m.defaults.Load(ctx, profile)
	if err != nil {
		return false, err
	}
	if ok {
		m.store.ApplySaved(saved)
	}
	return ok, nil
}

func (m *Manager) setLoading(key string, loading bool) {
	m.store.modify(func(st *types.FilterState) { st.Loading[key] = loading })
}

// fetchCached consults the option cache before hitting the gateway and
// populates it after a successful fetch.
func (m *Manager) fetchCached(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if m.cache != nil {
		if opts, ok := m.cache.GetOptions(ctx, "options:"+key); ok {
			return opts, nil
		}
	}
	opts, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if m.cache != nil && len(opts) > 0 {
		m.cache.SetOptions(ctx, "options:"+key, opts)
	}
	return opts, nil
}
