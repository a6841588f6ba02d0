package api

import (
	"errors"
	"net/http"

	"github.com/okian/rove/internal/app"
)

// RefreshHandler answers refresh-eligibility queries.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Eligible          bool   `json:"eligible"`
	State             string `json:"state"`
	RetryAfterSeconds int64  `json:"retry_after_seconds"`
}

// HandleCheckRefresh handles GET /refresh requests.
func (h *RefreshHandler) HandleCheckRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind("check refresh", ErrBadRequest))
		return
	}

	status, err := h.deps.CheckRefresh(r.Context(), userID)
	if err != nil {
		if errors.Is(err, app.ErrBadInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Eligible:          status.Eligible,
		State:             status.State.String(),
		RetryAfterSeconds: int64(status.RetryAfter.Seconds()),
	})
}
