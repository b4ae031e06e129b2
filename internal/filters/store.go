// Package filters owns the dashboard's filter state: the single shared mutable
// resource every page reads. The Store holds an immutable FilterState snapshot
// and replaces it wholesale on every mutation (replace-on-write); consumers
// subscribe for change notification and re-derive rather than mutate.
//
// All writes are discrete, named actions. Two invariants are enforced at
// mutation time:
//   - Setting a signal ID clears every attribute selector (signal-level lookup
//     supersedes attribute filtering).
//   - Selecting a non-custom date range clears explicit start/end dates and
//     resets time-of-day to the full day.
package filters

import (
	"sync"
	"time"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// Store is an observable container for FilterState. The zero value is not
// usable; construct with NewStore.
type Store struct {
	mu      sync.RWMutex
	state   types.FilterState
	subs    map[int]chan types.FilterState
	nextSub int

	// now is injectable for deterministic custom-date seeding in tests.
	now func() time.Time
}

// NewStore creates a Store holding the default filter selections.
func NewStore() *Store {
	return &Store{
		state: types.DefaultFilterState(),
		subs:  make(map[int]chan types.FilterState),
		now:   time.Now,
	}
}

// State returns the current snapshot. The returned value must be treated as
// immutable; slices and maps inside it are never mutated after publication.
func (s *Store) State() types.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a change listener. Each state replacement is delivered
// on the returned channel; if the subscriber lags, older snapshots are dropped
// so that only the latest state is pending (latest wins). Callers must
// Unsubscribe with the returned id when done.
func (s *Store) Subscribe() (int, <-chan types.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan types.FilterState, 1)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// modify applies fn to a copy of the current state, publishes the copy as the
// new snapshot, and notifies subscribers. The Loading map is cloned so that
// published snapshots are never mutated.
func (s *Store) modify(fn func(*types.FilterState)) {
	s.mu.Lock()
	next := s.state
	loading := make(map[string]bool, len(s.state.Loading))
	for k, v := range s.state.Loading {
		loading[k] = v
	}
	next.Loading = loading
	fn(&next)
	s.state = next
	for _, ch := range s.subs {
		// Latest wins: drop a pending stale snapshot before sending.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
	s.mu.Unlock()
}

// SetDateOption selects a date-range option. Choosing anything but Custom
// clears explicit dates and resets time-of-day to the full day; choosing
// Custom seeds today's date as both start and end.
func (s *Store) SetDateOption(code string) {
	today := s.now().Format("2006-01-02")
	s.modify(func(st *types.FilterState) {
		st.SelectedDateOption = code
		if code != types.DateOptionCustom {
			st.StartDate = ""
			st.EndDate = ""
			st.StartTime = types.DayStart
			st.EndTime = types.DayEnd
			st.AllDayChecked = true
		} else {
			st.StartDate = today
			st.EndDate = today
		}
		st.IsFiltering = true
	})
}

// SetStartDate sets the explicit range start (custom date option only).
func (s *Store) SetStartDate(date string) {
	s.modify(func(st *types.FilterState) {
		st.StartDate = date
		st.IsFiltering = true
	})
}

// SetEndDate sets the explicit range end.
func (s *Store) SetEndDate(date string) {
	s.modify(func(st *types.FilterState) {
		st.EndDate = date
		st.IsFiltering = true
	})
}

// SetStartTime sets the time-of-day lower bound, unchecking the all-day flag
// when moved off the start of day.
func (s *Store) SetStartTime(t string) {
	s.modify(func(st *types.FilterState) {
		st.StartTime = t
		if t != types.DayStart {
			st.AllDayChecked = false
		}
		st.IsFiltering = true
	})
}

// SetEndTime sets the time-of-day upper bound, unchecking the all-day flag
// when moved off the end of day.
func (s *Store) SetEndTime(t string) {
	s.modify(func(st *types.FilterState) {
		st.EndTime = t
		if t != types.DayEnd {
			st.AllDayChecked = false
		}
		st.IsFiltering = true
	})
}

// SetAllDayChecked toggles the all-day flag, resetting the stored times to the
// full day when checked.
func (s *Store) SetAllDayChecked(checked bool) {
	s.modify(func(st *types.FilterState) {
		st.AllDayChecked = checked
		if checked {
			st.StartTime = types.DayStart
			st.EndTime = types.DayEnd
		}
		st.IsFiltering = true
	})
}

// SetAggregationOption selects the aggregation period.
func (s *Store) SetAggregationOption(code string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedAggregationOption = code
		st.IsFiltering = true
	})
}

// SetSignalID sets the signal identifier. A non-empty signal ID clears every
// attribute selector: signal-level lookup supersedes attribute filtering.
func (s *Store) SetSignalID(id string) {
	s.modify(func(st *types.FilterState) {
		st.SignalID = id
		if id != "" {
			st.SelectedSignalGroup = ""
			st.SelectedDistrict = ""
			st.SelectedAgency = ""
			st.SelectedCounty = ""
			st.SelectedCity = ""
			st.SelectedCorridor = ""
			st.SelectedSubcorridor = ""
			st.SelectedPriority = ""
			st.SelectedClassification = ""
		}
	})
}

// SetSignalGroup selects the zone group (region), resetting the dependent
// district selection.
func (s *Store) SetSignalGroup(zoneGroup string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedSignalGroup = zoneGroup
		st.SelectedDistrict = ""
		st.IsFiltering = true
	})
}

// SetDistrict selects the zone (district).
func (s *Store) SetDistrict(zone string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedDistrict = zone
		st.IsFiltering = true
	})
}

// SetAgency selects the agency.
func (s *Store) SetAgency(agency string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedAgency = agency
		st.IsFiltering = true
	})
}

// SetCounty selects the county.
func (s *Store) SetCounty(county string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedCounty = county
		st.IsFiltering = true
	})
}

// SetCity selects the city.
func (s *Store) SetCity(city string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedCity = city
		st.IsFiltering = true
	})
}

// SetCorridor selects the corridor, resetting the dependent subcorridor.
func (s *Store) SetCorridor(corridor string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedCorridor = corridor
		st.SelectedSubcorridor = ""
		st.IsFiltering = true
	})
}

// SetSubcorridor selects the subcorridor.
func (s *Store) SetSubcorridor(subcorridor string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedSubcorridor = subcorridor
		st.IsFiltering = true
	})
}

// SetPriority selects the priority.
func (s *Store) SetPriority(priority string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedPriority = priority
		st.IsFiltering = true
	})
}

// SetClassification selects the classification.
func (s *Store) SetClassification(classification string) {
	s.modify(func(st *types.FilterState) {
		st.SelectedClassification = classification
		st.IsFiltering = true
	})
}

// SetErrorState sets the sidebar error level.
func (s *Store) SetErrorState(level int) {
	s.modify(func(st *types.FilterState) {
		st.ErrorState = level
	})
}

// Reset restores all selections to their defaults, keeps the loaded option
// lists, and toggles FiltersApplied so pages refetch.
func (s *Store) Reset() {
	s.modify(func(st *types.FilterState) {
		defaults := types.DefaultFilterState()
		st.SelectedDateOption = defaults.SelectedDateOption
		st.StartDate = ""
		st.EndDate = ""
		st.StartTime = defaults.StartTime
		st.EndTime = defaults.EndTime
		st.SelectedAggregationOption = defaults.SelectedAggregationOption
		st.SignalID = ""
		st.SelectedSignalGroup = defaults.SelectedSignalGroup
		st.SelectedDistrict = ""
		st.SelectedAgency = ""
		st.SelectedCounty = ""
		st.SelectedCity = ""
		st.SelectedCorridor = ""
		st.SelectedSubcorridor = ""
		st.SelectedPriority = ""
		st.SelectedClassification = ""
		st.AllDayChecked = true
		st.ErrorState = types.ErrorStateNormal
		st.IsFiltering = false
		st.FiltersApplied = !st.FiltersApplied
	})
}

// markApplied ends a filtering episode: the state machine returns to idle and
// FiltersApplied toggles so pages know a refetch is due.
func (s *Store) markApplied() {
	s.modify(func(st *types.FilterState) {
		st.IsFiltering = false
		st.FiltersApplied = !st.FiltersApplied
	})
}

// Snapshot captures the persisted subset of the current selections.
func (s *Store) Snapshot() types.SavedFilters {
	st := s.State()
	return types.SavedFilters{
		SelectedDateOption:        st.SelectedDateOption,
		StartDate:                 st.StartDate,
		EndDate:                   st.EndDate,
		StartTime:                 st.StartTime,
		EndTime:                   st.EndTime,
		SelectedAggregationOption: st.SelectedAggregationOption,
		SignalID:                  st.SignalID,
		SelectedSignalGroup:       st.SelectedSignalGroup,
		SelectedDistrict:          st.SelectedDistrict,
		SelectedAgency:            st.SelectedAgency,
		SelectedCounty:            st.SelectedCounty,
		SelectedCity:              st.SelectedCity,
		SelectedCorridor:          st.SelectedCorridor,
		SelectedSubcorridor:       st.SelectedSubcorridor,
		SelectedPriority:          st.SelectedPriority,
		SelectedClassification:    st.SelectedClassification,
		AllDayChecked:             st.AllDayChecked,
	}
}

// ApplySaved restores previously saved selections. Empty enum and time fields
// fall back to the defaults, so a partially-populated blob never leaves the
// store in an unusable state.
func (s *Store) ApplySaved(saved types.SavedFilters) {
	defaults := types.DefaultFilterState()
	s.modify(func(st *types.FilterState) {
		st.SelectedDateOption = orDefault(saved.SelectedDateOption, defaults.SelectedDateOption)
		st.StartDate = saved.StartDate
		st.EndDate = saved.EndDate
		st.StartTime = orDefault(saved.StartTime, defaults.StartTime)
		st.EndTime = orDefault(saved.EndTime, defaults.EndTime)
		st.SelectedAggregationOption = orDefault(saved.SelectedAggregationOption, defaults.SelectedAggregationOption)
		st.SignalID = saved.SignalID
		st.SelectedSignalGroup = saved.SelectedSignalGroup
		st.SelectedDistrict = saved.SelectedDistrict
		st.SelectedAgency = saved.SelectedAgency
		st.SelectedCounty = saved.SelectedCounty
		st.SelectedCity = saved.SelectedCity
		st.SelectedCorridor = saved.SelectedCorridor
		st.SelectedSubcorridor = saved.SelectedSubcorridor
		st.SelectedPriority = saved.SelectedPriority
		st.SelectedClassification = saved.SelectedClassification
		st.AllDayChecked = saved.AllDayChecked
	})
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
