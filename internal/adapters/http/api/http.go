// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/geodraw/internal/domain/dedupe"
	"github.com/okian/geodraw/internal/domain/geometry"
	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Recognize classifies a path synchronously.
	Recognize(ctx context.Context, p geometry.Path) (types.Recognition, error)
	// Explain scores a path against every template.
	Explain(ctx context.Context, p geometry.Path) ([]types.TemplateScore, error)

	// Enqueue pushes a stroke for async judging. Returns false on backpressure.
	Enqueue(ctx context.Context, s model.Stroke) bool

	// Session operations.
	CreateSession(ctx context.Context) (string, error)
	Session(ctx context.Context, id string) (types.SessionView, error)

	// Read operations expose leaderboard and catalog data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Shapes() []types.Shape
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	recognizeHandler   *RecognizeHandler
	sessionsHandler    *SessionsHandler
	strokesHandler     *StrokesHandler
	leaderboardHandler *LeaderboardHandler
	shapesHandler      *ShapesHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /leaderboard?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		recognizeHandler:   NewRecognizeHandler(deps),
		sessionsHandler:    NewSessionsHandler(deps),
		strokesHandler:     NewStrokesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		shapesHandler:      NewShapesHandler(deps),
	}
}

// Route labels used in metrics.
const (
	routeHealth      = "healthz"
	routeStats       = "stats"
	routeRecognize   = "recognize"
	routeSessions    = "sessions"
	routeSession     = "session"
	routeStrokes     = "strokes"
	routeLeaderboard = "leaderboard"
	routeShapes      = "shapes"
)

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, routeHealth))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, routeStats))
	mux.HandleFunc("/recognize", MetricsMiddleware(s.recognizeHandler.HandleRecognize, routeRecognize))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, routeSessions))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleGetSession, routeSession))
	mux.HandleFunc("/strokes", MetricsMiddleware(s.strokesHandler.HandlePostStroke, routeStrokes))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, routeLeaderboard))
	mux.HandleFunc("/shapes", MetricsMiddleware(s.shapesHandler.HandleGetShapes, routeShapes))
}

// recognizeRequest is the body of POST /recognize.
type recognizeRequest struct {
	Points geometry.Path `json:"points"`
}

func (r recognizeRequest) validate() error {
	if len(r.Points) == 0 {
		return errors.New("missing points")
	}
	return nil
}

// strokeRequest is the body of POST /strokes.
type strokeRequest struct {
	StrokeID  string        `json:"stroke_id"`
	SessionID string        `json:"session_id"`
	Points    geometry.Path `json:"points"`
}

func (s strokeRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SessionID) == "":
		return errors.New("missing session_id")
	case len(s.Points) == 0:
		return errors.New("missing points")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	StrokeID  string `json:"stroke_id"`
	Duplicate bool   `json:"duplicate"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// maxBodyBytes caps stroke-carrying request bodies. Recognition cost grows
// with the point count, so oversized paths are refused before decoding.
const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document of at most maxBodyBytes from r,
// rejecting unknown fields. An oversized body yields ErrTooLarge.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrTooLarge
	}
	return err
}

// writeDecodeError reports a body decodeJSON refused.
func writeDecodeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", NewKind(op, ErrTooLarge))
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
