package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/geodraw/internal/domain/types"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (string, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
}

// SessionsHandler handles session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreateSession handles POST /sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}

// HandleGetSession handles GET /sessions/{session_id} requests.
func (h *SessionsHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /sessions/
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Session(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
