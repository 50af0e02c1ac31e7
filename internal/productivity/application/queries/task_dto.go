package queries

import (
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

// TimestampLayout renders timestamps as RFC 3339 with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// TaskDTO is the wire representation of a task.
type TaskDTO struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	Category      *string  `json:"category"`
	DueDate       *string  `json:"due_date"`
	CreatedAt     string   `json:"created_at"`
	CompletedAt   *string  `json:"completed_at"`
	EstimatedTime *int     `json:"estimated_time"`
	Tags          []string `json:"tags"`
}

// ToTaskDTO converts a task into its wire representation.
func ToTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID(),
		Title:         t.Title(),
		Description:   optionalString(t.Description()),
		Priority:      t.Priority().String(),
		Status:        t.Status().String(),
		Category:      optionalString(t.Category()),
		DueDate:       formatOptional(t.DueDate()),
		CreatedAt:     formatTimestamp(t.CreatedAt()),
		CompletedAt:   formatOptional(t.CompletedAt()),
		EstimatedTime: t.Estimate().Ptr(),
		Tags:          t.Tags().Strings(),
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil.
func ToTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, ToTaskDTO(t))
	}
	return dtos
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
