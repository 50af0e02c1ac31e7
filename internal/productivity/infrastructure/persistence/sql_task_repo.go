package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
)

// SQLTaskRepository implements task.Repository on a database.Connection.
// Queries use ? placeholders; the PostgreSQL connection rebinds them.
type SQLTaskRepository struct {
	conn database.Connection
}

// NewSQLTaskRepository creates a new task repository.
func NewSQLTaskRepository(conn database.Connection) *SQLTaskRepository {
	return &SQLTaskRepository{conn: conn}
}

const taskColumns = `
	id, title, description, priority, status, category, due_date,
	created_at, completed_at, estimated_time, tags`

// Save inserts a new task and assigns its ID, or overwrites an existing one.
func (r *SQLTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	s := t.Snapshot()

	tags, err := s.Tags.Serialize()
	if err != nil {
		return fmt.Errorf("serialize tags: %w", err)
	}

	if t.IsNew() {
		var id int64
		err := exec.QueryRow(ctx, `
			INSERT INTO tasks (
				title, description, priority, status, category, due_date,
				created_at, completed_at, estimated_time, tags
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			s.Title,
			nullString(s.Description),
			s.Priority.String(),
			s.Status.String(),
			nullString(s.Category),
			database.FormatNullableTimestamp(s.DueDate),
			database.FormatTimestamp(s.CreatedAt),
			database.FormatNullableTimestamp(s.CompletedAt),
			nullInt(s.Estimate),
			tags,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		t.AssignID(id)
		return nil
	}

	result, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, priority = ?, status = ?, category = ?,
			due_date = ?, completed_at = ?, estimated_time = ?, tags = ?
		WHERE id = ?`,
		s.Title,
		nullString(s.Description),
		s.Priority.String(),
		s.Status.String(),
		nullString(s.Category),
		database.FormatNullableTimestamp(s.DueDate),
		database.FormatNullableTimestamp(s.CompletedAt),
		nullInt(s.Estimate),
		tags,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", s.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *SQLTaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, nil
}

// List returns tasks matching every non-empty filter field, newest first.
func (r *SQLTaskRepository) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return r.query(ctx, query, args...)
}

// FindPending returns pending tasks in insertion order.
func (r *SQLTaskRepository) FindPending(ctx context.Context) ([]*task.Task, error) {
	return r.query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY id`,
		task.StatusPending.String(),
	)
}

// Delete removes a task.
func (r *SQLTaskRepository) Delete(ctx context.Context, id int64) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// Count aggregates the task table in one pass.
func (r *SQLTaskRepository) Count(ctx context.Context, completedSince time.Time) (task.Counts, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' AND priority = 'urgent' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' AND priority = 'high' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' AND completed_at >= ? THEN 1 ELSE 0 END), 0)
		FROM tasks`,
		database.FormatTimestamp(completedSince),
	)

	var total, pending, inProgress, completed, urgent, high, thisWeek int64
	if err := row.Scan(&total, &pending, &inProgress, &completed, &urgent, &high, &thisWeek); err != nil {
		return task.Counts{}, fmt.Errorf("count tasks: %w", err)
	}
	return task.Counts{
		Total:             int(total),
		Pending:           int(pending),
		InProgress:        int(inProgress),
		Completed:         int(completed),
		UrgentPending:     int(urgent),
		HighPending:       int(high),
		CompletedThisWeek: int(thisWeek),
	}, nil
}

func (r *SQLTaskRepository) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		id            int64
		title         string
		description   sql.NullString
		priority      string
		status        string
		category      sql.NullString
		dueDate       database.NullTime
		createdAt     database.NullTime
		completedAt   database.NullTime
		estimatedTime sql.NullInt64
		tags          sql.NullString
	)

	if err := row.Scan(
		&id,
		&title,
		&description,
		&priority,
		&status,
		&category,
		&dueDate,
		&createdAt,
		&completedAt,
		&estimatedTime,
		&tags,
	); err != nil {
		return nil, err
	}

	estimate := value_objects.NoEstimate()
	if estimatedTime.Valid {
		if e, err := value_objects.NewEstimate(int(estimatedTime.Int64)); err == nil {
			estimate = e
		}
	}

	return task.Rehydrate(task.Snapshot{
		ID:          id,
		Title:       title,
		Description: description.String,
		Status:      task.Status(status),
		Priority:    value_objects.Priority(priority),
		Category:    category.String,
		DueDate:     dueDate.Ptr(),
		CreatedAt:   createdAt.Time,
		CompletedAt: completedAt.Ptr(),
		Estimate:    estimate,
		Tags:        value_objects.ParseTags(tags.String),
	}), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(e value_objects.Estimate) any {
	if p := e.Ptr(); p != nil {
		return *p
	}
	return nil
}
