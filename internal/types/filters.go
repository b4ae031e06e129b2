package types

// Date range option codes. Stored as string codes in FilterState because they
// arrive from select controls; the projector parses them to the integer codes
// the metrics API expects.
const (
	DateOptionPriorDay     = "0"
	DateOptionPriorWeek    = "1"
	DateOptionPriorMonth   = "2"
	DateOptionPriorQuarter = "3"
	DateOptionPriorYear    = "4"
	DateOptionCustom       = "5"
)

// Aggregation period option codes.
const (
	AggregationQuarterHour = "0"
	AggregationHourly      = "1"
	AggregationDaily       = "2"
	AggregationWeekly      = "3"
	AggregationMonthly     = "4"
	AggregationQuarterly   = "5"
)

// Full-day time bounds. Selecting a time of day other than these unchecks the
// all-day flag.
const (
	DayStart = "00:00"
	DayEnd   = "23:59"
)

// FilterState holds the current filter selections plus the attribute option
// lists and bookkeeping flags for the filter sidebar. It is treated as an
// immutable snapshot: every mutation produces a new value (replace-on-write).
type FilterState struct {
	// Filter selections
	SelectedDateOption        string
	StartDate                 string // ISO date, empty unless custom range
	EndDate                   string
	StartTime                 string
	EndTime                   string
	SelectedAggregationOption string
	SignalID                  string
	SelectedSignalGroup       string
	SelectedDistrict          string
	SelectedAgency            string
	SelectedCounty            string
	SelectedCity              string
	SelectedCorridor          string
	SelectedSubcorridor       string
	SelectedPriority          string
	SelectedClassification    string
	AllDayChecked             bool

	// Dropdown options
	ZoneGroups      []string
	Zones           []string
	Agencies        []string
	Counties        []string
	Cities          []string
	Corridors       []string
	Subcorridors    []string
	Priorities      []string
	Classifications []string

	// Per-list loading flags, keyed by option list name ("zones", "corridors", ...)
	Loading map[string]bool

	// 1 = normal, 2 = warning, 3 = error
	ErrorState int

	// True while at least one control changed since last apply
	IsFiltering bool

	// Toggled on every apply/reset; pages watch it to know a refetch is due
	FiltersApplied bool
}

// DefaultFilterState returns the initial filter selections: prior-year range,
// monthly aggregation, the Central Metro zone group, and the full day.
func DefaultFilterState() FilterState {
	return FilterState{
		SelectedDateOption:        DateOptionPriorYear,
		StartTime:                 DayStart,
		EndTime:                   DayEnd,
		SelectedAggregationOption: AggregationMonthly,
		SelectedSignalGroup:       "Central Metro",
		AllDayChecked:             true,
		Loading:                   map[string]bool{},
		ErrorState:                ErrorStateNormal,
	}
}

// ErrorState values for the filter sidebar.
const (
	ErrorStateNormal  = 1
	ErrorStateWarning = 2
	ErrorStateError   = 3
)

// SavedFilters is the persisted subset of FilterState: the primitive selection
// fields only, mirroring what a "save as defaults" action captures.
type SavedFilters struct {
	SelectedDateOption        string `json:"selectedDateOption"`
	StartDate                 string `json:"startDate,omitempty"`
	EndDate                   string `json:"endDate,omitempty"`
	StartTime                 string `json:"startTime"`
	EndTime                   string `json:"endTime"`
	SelectedAggregationOption string `json:"selectedAggregationOption"`
	SignalID                  string `json:"signalId"`
	SelectedSignalGroup       string `json:"selectedSignalGroup"`
	SelectedDistrict          string `json:"selectedDistrict"`
	SelectedAgency            string `json:"selectedAgency"`
	SelectedCounty            string `json:"selectedCounty"`
	SelectedCity              string `json:"selectedCity"`
	SelectedCorridor          string `json:"selectedCorridor"`
	SelectedSubcorridor       string `json:"selectedSubcorridor"`
	SelectedPriority          string `json:"selectedPriority"`
	SelectedClassification    string `json:"selectedClassification"`
	AllDayChecked             bool   `json:"allDayChecked"`
}

// FilterParams is the normalized projection of FilterState into the request
// payload every metrics endpoint consumes. Derived, never mutated directly.
// Nullable attributes are pointers so they serialize as JSON null when unset.
type FilterParams struct {
	DateRange      int      `json:"dateRange"`
	TimePeriod     int      `json:"timePeriod"`
	CustomStart    *string  `json:"customStart"`
	CustomEnd      *string  `json:"customEnd"`
	DaysOfWeek     []string `json:"daysOfWeek"`
	StartTime      *string  `json:"startTime"`
	EndTime        *string  `json:"endTime"`
	ZoneGroup      string   `json:"zone_Group"`
	Zone           *string  `json:"zone"`
	Agency         *string  `json:"agency"`
	County         *string  `json:"county"`
	City           *string  `json:"city"`
	Corridor       *string  `json:"corridor"`
	SignalID       string   `json:"signalId"`
	Priority       string   `json:"priority"`
	Classification string   `json:"classification"`
}
