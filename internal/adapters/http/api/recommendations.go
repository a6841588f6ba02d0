package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/okian/rove/internal/app"
	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/internal/domain/types"
)

const defaultK = 10

var validate = validator.New()

// RecommendationsHandler serves ranked venue feeds.
type RecommendationsHandler struct {
	deps Dependencies
	maxK int
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps Dependencies, maxK int) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps, maxK: maxK}
}

type recommendationsQuery struct {
	UserID string  `validate:"required"`
	Lat    float64 `validate:"gte=-90,lte=90"`
	Lon    float64 `validate:"gte=-180,lte=180"`
	K      int     `validate:"gte=1"`
}

type recommendationsResponse struct {
	Items           []Recommendation `json:"items"`
	ServedFromCache bool             `json:"served_from_cache"`
}

// HandleGetRecommendations handles GET /recommendations requests.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	q, err := parseRecommendationsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if q.K > h.maxK {
		q.K = h.maxK
	}

	coord := model.Coordinate{Lat: q.Lat, Lon: q.Lon}
	items, fromCache, err := h.deps.Recommendations(r.Context(), q.UserID, coord, q.K)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrBadInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	case errors.Is(err, app.ErrUpstreamUnavailable) && len(items) > 0:
		// Degraded service: the last-known ranking still satisfies the
		// request, so answer 200 and flag the cached origin.
	default:
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
		return
	}

	out := make([]Recommendation, len(items))
	for i, c := range items {
		out[i] = types.FromCandidate(i+1, c)
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Items: out, ServedFromCache: fromCache})
}

func parseRecommendationsQuery(r *http.Request) (recommendationsQuery, error) {
	const op = "parse recommendations query"

	q := recommendationsQuery{
		UserID: r.URL.Query().Get("user_id"),
		K:      defaultK,
	}
	var err error
	if q.Lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64); err != nil {
		return q, WrapKind(op, ErrBadRequest, err)
	}
	if q.Lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64); err != nil {
		return q, WrapKind(op, ErrBadRequest, err)
	}
	if raw := r.URL.Query().Get("k"); raw != "" {
		if q.K, err = strconv.Atoi(raw); err != nil {
			return q, WrapKind(op, ErrBadRequest, err)
		}
	}
	if err := validate.Struct(q); err != nil {
		return q, WrapKind(op, ErrBadRequest, err)
	}
	return q, nil
}
