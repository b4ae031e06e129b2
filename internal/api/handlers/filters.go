// Package handlers contains the HTTP handler implementations for the
// dashboard API: the filter sidebar, the page orchestrators, and the rendered
// chart views.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/core"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/filters"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// FilterHandler maps HTTP requests to the filter sidebar state machine.
type FilterHandler struct {
	manager   *filters.Manager
	validator *core.Validator
	logger    *slog.Logger
}

// NewFilterHandler creates a FilterHandler with the provided dependencies.
func NewFilterHandler(manager *filters.Manager, val *core.Validator, logger *slog.Logger) *FilterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterHandler{
		manager:   manager,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the filter endpoints onto the mux.
func (h *FilterHandler) RegisterRoutes(r chi.Router) {
	r.Route("/filters", func(r chi.Router) {
		r.Get("/", h.HandleGetState)
		r.Get("/params", h.HandleGetParams)
		r.Patch("/", h.HandleUpdateSelection)
		r.Post("/apply", h.HandleApply)
		r.Post("/clear", h.HandleClear)
		r.Post("/options/reload", h.HandleReloadOptions)
		r.Post("/defaults", h.HandleSaveDefaults)
		r.Get("/defaults/{profile}", h.HandleLoadDefaults)
	})
}

// filterStateResponse is the sidebar state as served to the client.
type filterStateResponse struct {
	SelectedDateOption        string `json:"selectedDateOption"`
	StartDate                 string `json:"startDate"`
	EndDate                   string `json:"endDate"`
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

	ZoneGroups      []string `json:"zoneGroups"`
	Zones           []string `json:"zones"`
	Agencies        []string `json:"agencies"`
	Counties        []string `json:"counties"`
	Cities          []string `json:"cities"`
	Corridors       []string `json:"corridors"`
	Subcorridors    []string `json:"subcorridors"`
	Priorities      []string `json:"priorities"`
	Classifications []string `json:"classifications"`

	Loading        map[string]bool `json:"loading"`
	ErrorState     int             `json:"errorState"`
	IsFiltering    bool            `json:"isFiltering"`
	FiltersApplied bool            `json:"filtersApplied"`
}

func stateResponse(st types.FilterState) filterStateResponse {
	return filterStateResponse{
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
		ZoneGroups:                st.ZoneGroups,
		Zones:                     st.Zones,
		Agencies:                  st.Agencies,
		Counties:                  st.Counties,
		Cities:                    st.Cities,
		Corridors:                 st.Corridors,
		Subcorridors:              st.Subcorridors,
		Priorities:                st.Priorities,
		Classifications:           st.Classifications,
		Loading:                   st.Loading,
		ErrorState:                st.ErrorState,
		IsFiltering:               st.IsFiltering,
		FiltersApplied:            st.FiltersApplied,
	}
}

// HandleGetState handles GET /api/filters.
func (h *FilterHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}

// HandleGetParams handles GET /api/filters/params: the normalized projection
// the metrics endpoints consume, for clients that build their own requests.
func (h *FilterHandler) HandleGetParams(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, filters.Project(h.manager.Store().State()))
}

// UpdateSelectionRequest carries one batch of control edits. Absent fields
// are untouched; present fields run the corresponding store action, so the
// selection invariants (signal ID clearing attributes, date option resetting
// custom dates) apply exactly as if each control had been edited in turn.
type UpdateSelectionRequest struct {
	DateOption        *string `json:"dateOption" validate:"omitempty,oneof=0 1 2 3 4 5"`
	StartDate         *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate           *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime         *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime           *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	AllDay            *bool   `json:"allDay"`
	AggregationOption *string `json:"aggregationOption" validate:"omitempty,oneof=0 1 2 3 4 5"`
	SignalID          *string `json:"signalId"`
	ZoneGroup         *string `json:"zoneGroup"`
	District          *string `json:"district"`
	Agency            *string `json:"agency"`
	County            *string `json:"county"`
	City              *string `json:"city"`
	Corridor          *string `json:"corridor"`
	Subcorridor       *string `json:"subcorridor"`
	Priority          *string `json:"priority"`
	Classification    *string `json:"classification"`
}

// HandleUpdateSelection handles PATCH /api/filters.
func (h *FilterHandler) HandleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req UpdateSelectionRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}

	store := h.manager.Store()
	// Range controls first, then attribute selectors, then the signal ID so a
	// lookup request in the same batch supersedes the attribute edits.
	if req.DateOption != nil {
		store.SetDateOption(*req.DateOption)
	}
	if req.StartDate != nil {
		store.SetStartDate(*req.StartDate)
	}
	if req.EndDate != nil {
		store.SetEndDate(*req.EndDate)
	}
	if req.StartTime != nil {
		store.SetStartTime(*req.StartTime)
	}
	if req.EndTime != nil {
		store.SetEndTime(*req.EndTime)
	}
	if req.AllDay != nil {
		store.SetAllDayChecked(*req.AllDay)
	}
	if req.AggregationOption != nil {
		store.SetAggregationOption(*req.AggregationOption)
	}
	if req.ZoneGroup != nil {
		store.SetSignalGroup(*req.ZoneGroup)
	}
	if req.District != nil {
		store.SetDistrict(*req.District)
	}
	if req.Agency != nil {
		store.SetAgency(*req.Agency)
	}
	if req.County != nil {
		store.SetCounty(*req.County)
	}
	if req.City != nil {
		store.SetCity(*req.City)
	}
	if req.Corridor != nil {
		store.SetCorridor(*req.Corridor)
	}
	if req.Subcorridor != nil {
		store.SetSubcorridor(*req.Subcorridor)
	}
	if req.Priority != nil {
		store.SetPriority(*req.Priority)
	}
	if req.Classification != nil {
		store.SetClassification(*req.Classification)
	}
	if req.SignalID != nil {
		store.SetSignalID(*req.SignalID)
	}

	core.JSON(w, r, http.StatusOK, stateResponse(store.State()))
}

// HandleApply handles POST /api/filters/apply: runs the dependent option
// lookups for the current selections and flips the applied toggle the pages
// watch.
func (h *FilterHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	h.manager.Apply(r.Context())
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}

// HandleClear handles POST /api/filters/clear.
func (h *FilterHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.manager.Clear(r.Context())
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}

// HandleReloadOptions handles POST /api/filters/options/reload: re-issues the
// attribute option list fetches without touching the selections.
func (h *FilterHandler) HandleReloadOptions(w http.ResponseWriter, r *http.Request) {
	h.manager.LoadOptions(r.Context())
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}

// SaveDefaultsRequest names the profile the current selections are saved
// under.
type SaveDefaultsRequest struct {
	Profile string `json:"profile" validate:"required,max=128"`
}

// HandleSaveDefaults handles POST /api/filters/defaults.
func (h *FilterHandler) HandleSaveDefaults(w http.ResponseWriter, r *http.Request) {
	var req SaveDefaultsRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.manager.SaveAsDefaults(r.Context(), req.Profile); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}

// HandleLoadDefaults handles GET /api/filters/defaults/{profile}: restores a
// previously saved profile into the live selections.
func (h *FilterHandler) HandleLoadDefaults(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")
	found, err := h.manager.LoadSavedDefaults(r.Context(), profile)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if !found {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundProfile,
			"no saved filter defaults for profile "+profile,
			nil,
		))
		return
	}
	core.JSON(w, r, http.StatusOK, stateResponse(h.manager.Store().State()))
}
