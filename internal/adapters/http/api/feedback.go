package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/rove/internal/domain/model"
)

// FeedbackHandler accepts accept/decline events for asynchronous
// application to user profiles.
type FeedbackHandler struct {
	deps Dependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps Dependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

type feedbackRequest struct {
	EventID  string `json:"event_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	VenueID  string `json:"venue_id" validate:"required"`
	Category string `json:"category" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=accepted declined"`
	TS       string `json:"ts"`
}

type feedbackResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
}

// HandlePostFeedback handles POST /feedback requests. Delivery is
// at-least-once: duplicates by event id are acknowledged without being
// re-applied.
func (h *FeedbackHandler) HandlePostFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("decode feedback request", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("validate feedback request", ErrBadRequest, err))
		return
	}
	category, err := model.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("parse category", ErrBadRequest, err))
		return
	}
	ts := time.Now()
	if req.TS != "" {
		if ts, err = time.Parse(time.RFC3339, req.TS); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind("parse ts", ErrBadRequest, err))
			return
		}
	}

	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, feedbackResponse{Status: "duplicate", EventID: req.EventID})
		return
	}

	ok := h.deps.EnqueueFeedback(r.Context(), model.FeedbackEvent{
		EventID:  req.EventID,
		UserID:   req.UserID,
		VenueID:  req.VenueID,
		Category: category,
		Accepted: req.Action == "accepted",
		TS:       ts,
	})
	if !ok {
		// Roll back the dedupe record so the client can retry.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind("enqueue feedback", ErrBackpressure))
		return
	}

	writeJSON(w, http.StatusAccepted, feedbackResponse{Status: "accepted", EventID: req.EventID})
}
