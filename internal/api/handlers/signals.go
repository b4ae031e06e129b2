package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/core"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// SignalDirectory is the registry surface the signal endpoints read.
type SignalDirectory interface {
	Signals(ctx context.Context) ([]types.Signal, error)
	Lookup(signalID string) (types.Signal, bool)
}

// SignalHandler serves the corridor signal directory: the full roster and
// per-signal detail lookups.
type SignalHandler struct {
	directory SignalDirectory
	logger    *slog.Logger
}

// NewSignalHandler creates a SignalHandler backed by the given directory.
func NewSignalHandler(directory SignalDirectory, logger *slog.Logger) *SignalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignalHandler{directory: directory, logger: logger}
}

// RegisterRoutes mounts the signal endpoints onto the mux.
func (h *SignalHandler) RegisterRoutes(r chi.Router) {
	r.Route("/signals", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{signalID}", h.HandleGet)
	})
}

// HandleList handles GET /api/signals: the full signal roster.
func (h *SignalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	signals, err := h.directory.Signals(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, signals)
}

// HandleGet handles GET /api/signals/{signalID}: one signal's detail record.
func (h *SignalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	signalID := chi.URLParam(r, "signalID")

	// Prime the directory so a cold start still resolves known signals.
	if _, err := h.directory.Signals(r.Context()); err != nil {
		h.logger.Warn("signal roster refresh failed, using last snapshot", "error", err)
	}

	sig, ok := h.directory.Lookup(signalID)
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeNotFoundSignal, "no signal with id "+signalID, nil))
		return
	}
	core.JSON(w, r, http.StatusOK, sig)
}
