package api

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/rove/internal/app"
)

// ValidateHandler checks manual override windows against the calendar.
type ValidateHandler struct {
	deps Dependencies
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(deps Dependencies) *ValidateHandler {
	return &ValidateHandler{deps: deps}
}

type validateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
}

type validateResponse struct {
	Conflict bool `json:"conflict"`
}

// HandleValidateTime handles POST /validate requests.
func (h *ValidateHandler) HandleValidateTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("decode validate request", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("validate request", ErrBadRequest, err))
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

	conflict, err := h.deps.ValidateTime(r.Context(), req.UserID, start, end)
	if err != nil {
		if errors.Is(err, app.ErrBadInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{Conflict: conflict})
}
