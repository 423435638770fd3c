package api

import (
	"net/http"

	"github.com/okian/geodraw/internal/domain/types"
)

// ShapesDependencies defines the interface for the shape catalog.
type ShapesDependencies interface {
	Shapes() []types.Shape
}

// ShapesHandler handles shape catalog requests.
type ShapesHandler struct {
	deps ShapesDependencies
}

// NewShapesHandler creates a new shapes handler.
func NewShapesHandler(deps ShapesDependencies) *ShapesHandler {
	return &ShapesHandler{deps: deps}
}

// HandleGetShapes handles GET /shapes requests.
func (h *ShapesHandler) HandleGetShapes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Shapes())
}
