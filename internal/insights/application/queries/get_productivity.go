package queries

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
)

// DefaultProductivityDays is the window used when no day count is given.
const DefaultProductivityDays = 7

// ErrInvalidDays is returned for a negative day window. Such a window is
// rejected as a validation error instead of answered with an empty list.
var ErrInvalidDays = errors.New("days must be a non-negative integer")

// DailyStatsDTO is the API representation of a stats row.
type DailyStatsDTO struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksCreated   int     `json:"tasks_created"`
	TotalTimeSpent int     `json:"total_time_spent"`
	FocusScore     float64 `json:"focus_score"`
}

// GetProductivityQuery asks for the stats of the last Days days plus today.
type GetProductivityQuery struct {
	Days int
}

// GetProductivityHandler handles productivity history queries.
type GetProductivityHandler struct {
	repo  domain.StatsRepository
	clock func() time.Time
}

// NewGetProductivityHandler creates a new handler. A nil clock uses time.Now.
func NewGetProductivityHandler(repo domain.StatsRepository, clock func() time.Time) *GetProductivityHandler {
	if clock == nil {
		clock = time.Now
	}
	return &GetProductivityHandler{repo: repo, clock: clock}
}

// Handle returns rows dated on or after today minus Days, oldest first.
func (h *GetProductivityHandler) Handle(ctx context.Context, query GetProductivityQuery) ([]DailyStatsDTO, error) {
	if query.Days < 0 {
		return nil, apperrors.Validation(ErrInvalidDays)
	}

	since := domain.DayOf(h.clock()).AddDate(0, 0, -query.Days)
	rows, err := h.repo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	dtos := make([]DailyStatsDTO, 0, len(rows))
	for _, s := range rows {
		dtos = append(dtos, toDailyStatsDTO(s))
	}
	return dtos, nil
}

func toDailyStatsDTO(s *domain.DailyStats) DailyStatsDTO {
	return DailyStatsDTO{
		ID:             s.ID,
		Date:           s.Date.Format("2006-01-02"),
		TasksCompleted: s.TasksCompleted,
		TasksCreated:   s.TasksCreated,
		TotalTimeSpent: s.TotalTimeSpent,
		FocusScore:     s.FocusScore,
	}
}
