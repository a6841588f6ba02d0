// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/internal/domain/refresh"
	"github.com/okian/rove/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	// Recommendations serves the user's ranked venue list.
	Recommendations(ctx context.Context, userID string, coord model.Coordinate, k int) ([]model.ScoredCandidate, bool, error)

	// CheckRefresh reports refresh eligibility and retry delay.
	CheckRefresh(ctx context.Context, userID string) (refresh.Status, error)

	// ProposeSchedule computes a visit window for an accepted venue.
	ProposeSchedule(ctx context.Context, userID, venueID string, preferred time.Duration) (model.ScheduleProposal, error)

	// ConfirmSchedule persists a confirmed proposal; returns event id.
	ConfirmSchedule(ctx context.Context, userID string, proposal model.ScheduleProposal) (string, error)

	// ValidateTime reports a conflict for a manual override window.
	ValidateTime(ctx context.Context, userID string, start, end time.Time) (bool, error)

	// Feedback idempotency and submission.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueFeedback(ctx context.Context, e model.FeedbackEvent) bool
}

// Recommendation mirrors the read shape returned by ranking queries.
type Recommendation = types.Recommendation

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	refreshHandler         *RefreshHandler
	scheduleHandler        *ScheduleHandler
	validateHandler        *ValidateHandler
	feedbackHandler        *FeedbackHandler
}

// NewServer creates a new API server with all handlers. maxK caps the
// k query parameter on /recommendations.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxK int) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		recommendationsHandler: NewRecommendationsHandler(deps, maxK),
		refreshHandler:         NewRefreshHandler(deps),
		scheduleHandler:        NewScheduleHandler(deps),
		validateHandler:        NewValidateHandler(deps),
		feedbackHandler:        NewFeedbackHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleCheckRefresh, "refresh"))
	mux.HandleFunc("/schedule", MetricsMiddleware(s.scheduleHandler.HandleProposeSchedule, "schedule"))
	mux.HandleFunc("/schedule/confirm", MetricsMiddleware(s.scheduleHandler.HandleConfirmSchedule, "schedule_confirm"))
	mux.HandleFunc("/validate", MetricsMiddleware(s.validateHandler.HandleValidateTime, "validate"))
	mux.HandleFunc("/feedback", MetricsMiddleware(s.feedbackHandler.HandlePostFeedback, "feedback"))
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
