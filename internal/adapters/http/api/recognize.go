package api

import (
	"context"
	"net/http"

	"github.com/okian/geodraw/internal/domain/geometry"
	"github.com/okian/geodraw/internal/domain/types"
)

// RecognizeDependencies defines the interface for synchronous recognition.
type RecognizeDependencies interface {
	Recognize(ctx context.Context, p geometry.Path) (types.Recognition, error)
	Explain(ctx context.Context, p geometry.Path) ([]types.TemplateScore, error)
}

// RecognizeHandler handles recognition requests.
type RecognizeHandler struct {
	deps RecognizeDependencies
}

// NewRecognizeHandler creates a new recognize handler.
func NewRecognizeHandler(deps RecognizeDependencies) *RecognizeHandler {
	return &RecognizeHandler{deps: deps}
}

// HandleRecognize handles POST /recognize requests. A stroke that cannot be
// classified is still a 200 with accepted=false and a reason. With ?debug=1
// the response also lists every template's score.
func (h *RecognizeHandler) HandleRecognize(w http.ResponseWriter, r *http.Request) {
	const op = "api.recognize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recognizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.Recognize(r.Context(), req.Points)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if debugRequested(r) {
		scores, err := h.deps.Explain(r.Context(), req.Points)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		rec.Scores = scores
	}
	writeJSON(w, http.StatusOK, rec)
}

func debugRequested(r *http.Request) bool {
	switch r.URL.Query().Get("debug") {
	case "1", "true":
		return true
	}
	return false
}
