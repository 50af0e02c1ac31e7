package api

import (
	"net/http"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
)

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	pending, err := s.handlers.ListPending.Handle(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{
		"suggestions": s.handlers.Suggestions.Suggest(pending, s.clock()),
	})
}

func (s *Server) smartSort(w http.ResponseWriter, r *http.Request) {
	pending, err := s.handlers.ListPending.Handle(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	scored := s.handlers.SmartSort.Sort(pending, s.clock())
	sorted := make([]queries.TaskDTO, 0, len(scored))
	for _, st := range scored {
		s.logger.DebugContext(r.Context(), "smart sort score",
			"task_id", st.Task.ID(),
			"score", st.Score,
			"explanation", st.Explanation,
		)
		sorted = append(sorted, queries.ToTaskDTO(st.Task))
	}

	writeSuccess(w, http.StatusOK, envelope{
		"sorted_tasks": sorted,
		"message":      "Tasks sorted by AI priority algorithm",
	})
}
