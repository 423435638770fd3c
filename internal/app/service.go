// Package service wires the recognizer, the session store and the stroke
// pipeline into the operations the HTTP API depends on.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	strokequeue "github.com/okian/geodraw/internal/adapters/mq/queue"
	workerpool "github.com/okian/geodraw/internal/adapters/mq/worker"
	"github.com/okian/geodraw/internal/adapters/repository"
	"github.com/okian/geodraw/internal/domain/align"
	"github.com/okian/geodraw/internal/domain/dedupe"
	"github.com/okian/geodraw/internal/domain/game"
	"github.com/okian/geodraw/internal/domain/geometry"
	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/internal/domain/normalize"
	"github.com/okian/geodraw/internal/domain/recognizer"
	"github.com/okian/geodraw/internal/domain/template"
	"github.com/okian/geodraw/internal/domain/types"
	"github.com/okian/geodraw/pkg/logger"
	"github.com/okian/geodraw/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Service implements the API dependencies of the shape game.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions   repository.Store
	deduper    dedupe.Deduper
	strokes    *strokequeue.InMemoryQueue
	workerPool *workerpool.Pool
	templates  *template.Store
	recognizer *recognizer.Recognizer
	judge      *game.Judge

	// Configuration
	workerCount        int
	queueSize          int
	dedupeSize         int
	shardCount         int
	storeKind          string
	sqlitePath         string
	templatesPath      string
	resamplePoints     int
	referenceSize      float64
	angleRange         float64
	anglePrecision     float64
	minPoints          int
	threshold          float64
	pointsPerDiscovery int
	now                func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU(),
		queueSize:          10_000,
		dedupeSize:         dedupe.DefaultMaxSize,
		shardCount:         repository.DefaultShardCount,
		storeKind:          StoreMemory,
		resamplePoints:     normalize.DefaultResampleCount,
		referenceSize:      normalize.DefaultReferenceSize,
		angleRange:         align.DefaultHigh,
		anglePrecision:     align.DefaultPrecision,
		minPoints:          recognizer.DefaultMinPoints,
		threshold:          game.DefaultThreshold,
		pointsPerDiscovery: game.DefaultPointsPerDiscovery,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the templates and starts the stroke pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting geodraw service...")

	if err := s.buildRecognizer(); err != nil {
		return fmt.Errorf("build recognizer: %w", err)
	}
	s.judge = game.NewJudge(
		game.WithThreshold(s.threshold),
		game.WithPointsPerDiscovery(s.pointsPerDiscovery),
	)

	sessions, err := s.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	s.sessions = sessions

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.strokes = strokequeue.NewInMemoryQueue(strokequeue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.strokes, s, s,
		workerpool.WithLogger(s.logger.Named("worker")))
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "geodraw service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("templates", s.templates.Len()),
		logger.String("store", s.storeKind),
		logger.Float64("threshold", s.judge.Threshold()),
	)
	return nil
}

func (s *Service) buildRecognizer() error {
	nz := normalize.New(
		normalize.WithResampleCount(s.resamplePoints),
		normalize.WithReferenceSize(s.referenceSize),
	)

	defs := template.DefaultDefinitions()
	if s.templatesPath != "" {
		extra, err := template.LoadDefinitions(s.templatesPath)
		if err != nil {
			return err
		}
		defs = template.Merge(defs, extra)
	}
	store, err := template.Build(defs, nz)
	if err != nil {
		return err
	}

	r, err := recognizer.New(store,
		recognizer.WithNormalizer(nz),
		recognizer.WithSearch(align.Symmetric(s.angleRange, s.anglePrecision)),
		recognizer.WithMinPoints(s.minPoints),
	)
	if err != nil {
		return err
	}
	s.templates = store
	s.recognizer = r
	metrics.UpdateTemplatesLoaded(store.Len())
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	switch s.storeKind {
	case StoreMemory:
		return repository.NewMemoryStore(repository.WithShardCount(s.shardCount)), nil
	case StoreSQLite:
		return repository.NewSQLiteStore(ctx, s.sqlitePath)
	default:
		return nil, fmt.Errorf("%q: %w", s.storeKind, ErrUnknownStore)
	}
}

// Stop drains the stroke queue and closes the session store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping geodraw service...")
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if err := s.sessions.Close(); err != nil {
		s.logger.Error(ctx, "closing session store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "geodraw service stopped")
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// evaluate classifies p and judges the result.
func (s *Service) evaluate(p geometry.Path) game.Verdict {
	start := time.Now()
	res, err := s.recognizer.Recognize(p)
	v := s.judge.Evaluate(res, err)

	outcome := "accepted"
	if !v.Accepted {
		outcome = string(v.Reason)
	}
	metrics.RecordRecognition(v.Shape, outcome, v.Score, float64(time.Since(start).Microseconds())/1000)
	return v
}

// Recognize classifies a path without touching any session.
func (s *Service) Recognize(ctx context.Context, p geometry.Path) (types.Recognition, error) {
	if !s.isStarted() {
		return types.Recognition{}, ErrNotStarted
	}

	v := s.evaluate(p)
	def, _ := s.templates.Definition(v.Shape)
	out := types.Recognition{
		Matched:  v.Shape != "",
		Name:     v.Shape,
		Score:    v.Score,
		Accepted: v.Accepted,
		Reason:   string(v.Reason),
		Message:  game.Feedback(v, def),
	}
	if v.Accepted {
		shape := shapeInfo(def)
		out.Shape = &shape
	}
	s.logger.Debug(ctx, "recognized path",
		logger.Int("points", len(p)),
		logger.String("shape", v.Shape),
		logger.Float64("score", v.Score),
		logger.Bool("accepted", v.Accepted),
	)
	return out, nil
}

// Explain scores p against every template in store order. Paths the
// recognizer rejects have no scores.
func (s *Service) Explain(_ context.Context, p geometry.Path) ([]types.TemplateScore, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	matches, err := s.recognizer.Scores(p)
	if err != nil {
		return nil, nil //nolint:nilerr // a rejected path is reported through Recognize
	}
	out := make([]types.TemplateScore, len(matches))
	for i, m := range matches {
		out[i] = types.TemplateScore{Name: m.Name, Score: m.Score, Distance: m.Distance}
	}
	return out, nil
}

// Judge classifies a queued stroke. It is the workers' Recognizer.
func (s *Service) Judge(_ context.Context, st model.Stroke) game.Verdict { //nolint:gocritic // hugeParam: strokes travel by value
	return s.evaluate(st.Points)
}

// Record stores a verdict against the stroke's session. It is the workers'
// Recorder.
func (s *Service) Record(ctx context.Context, st model.Stroke, v game.Verdict) error { //nolint:gocritic // hugeParam: strokes travel by value
	now := s.now()
	if err := s.sessions.RecordAttempt(ctx, st.SessionID, now); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	if !v.Accepted {
		return nil
	}
	fresh, err := s.sessions.Discover(ctx, st.SessionID, s.judge.Discovery(v, now))
	if err != nil {
		return fmt.Errorf("record discovery: %w", err)
	}
	if fresh {
		metrics.RecordDiscovery(v.Shape)
		s.logger.Info(ctx, "shape discovered",
			logger.String("session_id", st.SessionID),
			logger.String("shape", v.Shape),
			logger.Float64("score", v.Score),
		)
	}
	return nil
}

// SeenAndRecord reports whether a stroke id was already submitted and
// records it if not. Before Start nothing is recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	if !s.isStarted() {
		return false
	}
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordStrokeDuplicate()
	}
	return seen
}

// Unrecord forgets a stroke id so it can be resubmitted.
func (s *Service) Unrecord(ctx context.Context, id string) {
	if !s.isStarted() {
		return
	}
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of remembered stroke ids.
func (s *Service) Size() int64 {
	if !s.isStarted() {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a stroke for asynchronous judging. Returns false on
// backpressure or when the service is not running.
func (s *Service) Enqueue(ctx context.Context, st model.Stroke) bool { //nolint:gocritic // hugeParam: strokes travel by value
	if !s.isStarted() {
		return false
	}
	if st.ReceivedAt.IsZero() {
		st.ReceivedAt = s.now()
	}
	if !s.strokes.Enqueue(ctx, st) {
		s.logger.Warn(ctx, "stroke queue rejected stroke",
			logger.String("stroke_id", st.StrokeID),
			logger.Int("queue_length", s.strokes.Len(ctx)),
		)
		return false
	}
	metrics.RecordStrokeReceived()
	return true
}

// CreateSession starts a new game session and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	if !s.isStarted() {
		return "", ErrNotStarted
	}
	id := uuid.NewString()
	if err := s.sessions.Create(ctx, id, s.now()); err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "session created", logger.String("session_id", id))
	return id, nil
}

// Session returns the read view of a session.
func (s *Service) Session(ctx context.Context, id string) (types.SessionView, error) {
	if !s.isStarted() {
		return types.SessionView{}, ErrNotStarted
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.SessionView{}, err
	}
	view := types.SessionView{
		SessionID:      sess.ID,
		Score:          sess.Score,
		CorrectAnswers: sess.CorrectAnswers,
		Attempts:       sess.Attempts,
		Discoveries:    make([]types.Discovery, len(sess.Discoveries)),
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	}
	for i, d := range sess.Discoveries {
		view.Discoveries[i] = types.Discovery{
			Shape:        d.Shape,
			Score:        d.Score,
			Points:       d.Points,
			DiscoveredAt: d.DiscoveredAt,
		}
	}
	return view, nil
}

// TopN returns the top N sessions by score.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	return s.sessions.TopN(ctx, n)
}

// Shapes returns the recognizable shapes in template order, or nil before
// the first Start.
func (s *Service) Shapes() []types.Shape {
	s.mu.RLock()
	templates := s.templates
	s.mu.RUnlock()
	if templates == nil {
		return nil
	}
	defs := templates.Definitions()
	out := make([]types.Shape, len(defs))
	for i, d := range defs {
		out[i] = shapeInfo(d)
	}
	return out
}

func shapeInfo(d template.Definition) types.Shape {
	return types.Shape{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Emoji:       d.Emoji,
		Properties:  d.Properties,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:        s.started,
		Store:          s.storeKind,
		WorkerCount:    s.workerCount,
		QueueCapacity:  s.queueSize,
		DedupeCapacity: s.dedupeSize,
	}
	if !s.started {
		return stats
	}
	ctx := context.Background()
	stats.QueueLength = s.strokes.Len(ctx)
	stats.Sessions = s.sessions.Count(ctx)
	stats.Templates = s.templates.Names()
	stats.Threshold = s.judge.Threshold()
	stats.Processed = s.workerPool.Processed()
	stats.ActiveWorkers = s.workerPool.Active()
	stats.DedupeEntries = s.deduper.Size()

	metrics.UpdateSessionsTotal(stats.Sessions)
	return stats
}
