package filters

import (
	"strconv"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// Project derives the normalized request payload from a filter snapshot. It is
// pure and deterministic: identical inputs always yield structurally equal
// FilterParams, which lets callers key request deduplication on a serialized
// form of the result.
//
// Rules: the string enum codes are parsed to the integer codes the metrics API
// expects; start/end time are nulled whenever the all-day flag is set,
// regardless of the stored values; attribute selectors default to null when
// unset, except signal ID, priority, and classification, which stay empty
// strings.
func Project(st types.FilterState) types.FilterParams {
	return types.FilterParams{
		DateRange:      atoi(st.SelectedDateOption),
		TimePeriod:     atoi(st.SelectedAggregationOption),
		CustomStart:    nullable(st.StartDate),
		CustomEnd:      nullable(st.EndDate),
		DaysOfWeek:     nil,
		StartTime:      unlessAllDay(st.AllDayChecked, st.StartTime),
		EndTime:        unlessAllDay(st.AllDayChecked, st.EndTime),
		ZoneGroup:      st.SelectedSignalGroup,
		Zone:           nullable(st.SelectedDistrict),
		Agency:         nullable(st.SelectedAgency),
		County:         nullable(st.SelectedCounty),
		City:           nullable(st.SelectedCity),
		Corridor:       nullable(st.SelectedCorridor),
		SignalID:       st.SignalID,
		Priority:       st.SelectedPriority,
		Classification: st.SelectedClassification,
	}
}

func atoi(code string) int {
	n, _ := strconv.Atoi(code)
	return n
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func unlessAllDay(allDay bool, t string) *string {
	if allDay {
		return nil
	}
	return nullable(t)
}
