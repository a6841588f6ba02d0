package api

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/rove/internal/app"
	"github.com/okian/rove/internal/domain/model"
)

// ScheduleHandler proposes and confirms visit windows.
type ScheduleHandler struct {
	deps Dependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps Dependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

type proposeRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	VenueID         string `json:"venue_id" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
}

type proposalResponse struct {
	ProposalID    string `json:"proposal_id,omitempty"`
	VenueID       string `json:"venue_id"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	Conflict      bool   `json:"conflict"`
	TightSchedule bool   `json:"tight_schedule"`
}

// HandleProposeSchedule handles POST /schedule requests.
func (h *ScheduleHandler) HandleProposeSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("decode schedule request", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("validate schedule request", ErrBadRequest, err))
		return
	}

	preferred := time.Duration(req.DurationMinutes) * time.Minute
	proposal, err := h.deps.ProposeSchedule(r.Context(), req.UserID, req.VenueID, preferred)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnknownVenue):
			writeError(w, http.StatusNotFound, "unknown_venue", err)
		case errors.Is(err, app.ErrBadInput):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		default:
			writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
		}
		return
	}

	// A conflict is a first-class answer, not an error.
	writeJSON(w, http.StatusOK, toProposalResponse(proposal))
}

type confirmRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	ProposalID    string `json:"proposal_id"`
	VenueID       string `json:"venue_id" validate:"required"`
	Start         string `json:"start" validate:"required"`
	End           string `json:"end" validate:"required"`
	TightSchedule bool   `json:"tight_schedule"`
}

type confirmResponse struct {
	EventID string `json:"event_id"`
}

// HandleConfirmSchedule handles POST /schedule/confirm requests.
func (h *ScheduleHandler) HandleConfirmSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("decode confirm request", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("validate confirm request", ErrBadRequest, err))
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("parse start", ErrBadRequest, err))
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("parse end", ErrBadRequest, err))
		return
	}

	eventID, err := h.deps.ConfirmSchedule(r.Context(), req.UserID, model.ScheduleProposal{
		ID:            req.ProposalID,
		VenueID:       req.VenueID,
		Start:         start,
		End:           end,
		TightSchedule: req.TightSchedule,
	})
	if err != nil {
		if errors.Is(err, app.ErrBadInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
		return
	}

	writeJSON(w, http.StatusCreated, confirmResponse{EventID: eventID})
}

func toProposalResponse(p model.ScheduleProposal) proposalResponse {
	resp := proposalResponse{
		ProposalID:    p.ID,
		VenueID:       p.VenueID,
		Conflict:      p.Conflict,
		TightSchedule: p.TightSchedule,
	}
	if !p.Start.IsZero() {
		resp.Start = p.Start.Format(time.RFC3339)
		resp.End = p.End.Format(time.RFC3339)
	}
	return resp
}
