package mcp

import (
	"errors"
	"fmt"
)

var errNotConfigured = errors.New("handler not configured - database connection required")

func parseTaskID(id int64) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("invalid task_id %d", id)
	}
	return id, nil
}
