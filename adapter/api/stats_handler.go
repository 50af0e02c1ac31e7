package api

import (
	"net/http"
	"strconv"

	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
)

func (s *Server) statsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.handlers.GetOverview.Handle(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"stats": overview})
}

func (s *Server) statsProductivity(w http.ResponseWriter, r *http.Request) {
	days := insightsQueries.DefaultProductivityDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeAppError(w, r, apperrors.Validation(insightsQueries.ErrInvalidDays))
			return
		}
		days = n
	}

	rows, err := s.handlers.GetProductivity.Handle(r.Context(), insightsQueries.GetProductivityQuery{Days: days})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"productivity": rows})
}
