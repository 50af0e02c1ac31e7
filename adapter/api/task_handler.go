package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type createTaskRequest struct {
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Priority      *string         `json:"priority"`
	Category      *string         `json:"category"`
	DueDate       json.RawMessage `json:"due_date"`
	EstimatedTime *int            `json:"estimated_time"`
	Tags          []string        `json:"tags"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.handlers.ListTasks.Handle(r.Context(), queries.ListTasksQuery{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"tasks": tasks, "count": len(tasks)})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	dto, err := s.handlers.GetTask.Handle(r.Context(), queries.GetTaskQuery{TaskID: id})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"task": dto})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeAppError(w, r, err)
		return
	}

	due, _ := dueDateText(req.DueDate)
	dto, err := s.handlers.CreateTask.Handle(r.Context(), commands.CreateTaskCommand{
		Title:         req.Title,
		Description:   deref(req.Description),
		Priority:      deref(req.Priority),
		Category:      deref(req.Category),
		DueDate:       due,
		EstimatedTime: req.EstimatedTime,
		Tags:          req.Tags,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, envelope{"task": dto, "message": "Task created successfully"})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if err := decodeBody(r, &fields); err != nil && !errors.Is(err, io.EOF) {
		s.writeAppError(w, r, err)
		return
	}

	cmd, err := updateCommand(id, fields)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	dto, err := s.handlers.UpdateTask.Handle(r.Context(), cmd)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"task": dto, "message": "Task updated successfully"})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.handlers.DeleteTask.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: id}); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"message": "Task deleted successfully"})
}

// updateCommand maps the fields present in a PUT body onto an update
// command. A JSON null clears optional fields.
func updateCommand(id int64, fields map[string]json.RawMessage) (commands.UpdateTaskCommand, error) {
	cmd := commands.UpdateTaskCommand{TaskID: id}

	for _, name := range []string{"title", "description", "priority", "status", "category"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		value, err := decodeNullable[string](name, raw)
		if err != nil {
			return cmd, err
		}
		v := deref(value)
		switch name {
		case "title":
			cmd.Title = &v
		case "description":
			cmd.Description = &v
		case "priority":
			cmd.Priority = &v
		case "status":
			cmd.Status = &v
		case "category":
			cmd.Category = &v
		}
	}

	if raw, ok := fields["due_date"]; ok {
		if due, present := dueDateText(raw); present {
			cmd.DueDate = &due
		} else {
			cmd.ClearDueDate = true
		}
	}

	if raw, ok := fields["estimated_time"]; ok {
		minutes, err := decodeNullable[int]("estimated_time", raw)
		if err != nil {
			return cmd, err
		}
		cmd.EstimatedTime = minutes
		cmd.ClearEstimatedTime = minutes == nil
	}

	if raw, ok := fields["tags"]; ok {
		tags, err := decodeNullable[[]string]("tags", raw)
		if err != nil {
			return cmd, err
		}
		if tags == nil {
			tags = &[]string{}
		}
		cmd.Tags = tags
	}

	return cmd, nil
}

// decodeNullable decodes raw into a T, returning nil for a JSON null.
func decodeNullable[T any](field string, raw json.RawMessage) (*T, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid value for %s", field), err)
	}
	return &v, nil
}

// dueDateText returns due_date as text for the date policy. A value that is
// not a JSON string is passed on verbatim so it fails parsing like any other
// malformed date. present is false for null or a missing value.
func dueDateText(raw json.RawMessage) (text string, present bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, true
	}
	return string(trimmed), true
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return apperrors.NewValidationError(msgInvalidJSON, err)
	}
	return nil
}

// taskID reads the numeric {id} path segment. The route pattern only admits
// digits, so a failure here means the value overflowed.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
