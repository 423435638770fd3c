package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/okian/geodraw/internal/domain/dedupe"
	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/internal/domain/types"
)

// StrokeDependencies defines the interface for stroke submission dependencies.
type StrokeDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s model.Stroke) bool
	Session(ctx context.Context, id string) (types.SessionView, error)
}

// StrokesHandler handles stroke requests.
type StrokesHandler struct {
	deps StrokeDependencies
}

// NewStrokesHandler creates a new strokes handler.
func NewStrokesHandler(deps StrokeDependencies) *StrokesHandler {
	return &StrokesHandler{deps: deps}
}

// HandlePostStroke handles POST /strokes requests.
func (h *StrokesHandler) HandlePostStroke(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_stroke"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req strokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.StrokeID == "" {
		req.StrokeID = uuid.NewString()
	}

	if _, err := h.deps.Session(r.Context(), req.SessionID); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.StrokeID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", StrokeID: req.StrokeID, Duplicate: true})
		return
	}

	stroke := model.Stroke{StrokeID: req.StrokeID, SessionID: req.SessionID, Points: req.Points}
	if ok := h.deps.Enqueue(r.Context(), stroke); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.StrokeID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", StrokeID: req.StrokeID})
}
