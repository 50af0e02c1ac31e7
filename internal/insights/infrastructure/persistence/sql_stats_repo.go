package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
)

// SQLStatsRepository implements domain.StatsRepository on a database.Connection.
type SQLStatsRepository struct {
	conn database.Connection
}

// NewSQLStatsRepository creates a new stats repository.
func NewSQLStatsRepository(conn database.Connection) *SQLStatsRepository {
	return &SQLStatsRepository{conn: conn}
}

const statsColumns = `id, date, tasks_completed, tasks_created, total_time_spent, focus_score`

// FindByDate returns the row for the given day.
func (r *SQLStatsRepository) FindByDate(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx,
		`SELECT `+statsColumns+` FROM productivity_stats WHERE date = ?`,
		database.FormatDate(date),
	)

	stats, err := scanStats(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("find stats for %s: %w", database.FormatDate(date), err)
	}
	return stats, nil
}

// Save upserts the row keyed by its date and assigns the ID.
func (r *SQLStatsRepository) Save(ctx context.Context, stats *domain.DailyStats) error {
	query := `
		INSERT INTO productivity_stats (
			date, tasks_completed, tasks_created, total_time_spent, focus_score
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			tasks_completed = excluded.tasks_completed,
			tasks_created = excluded.tasks_created,
			total_time_spent = excluded.total_time_spent,
			focus_score = excluded.focus_score
		RETURNING id
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		database.FormatDate(stats.Date),
		stats.TasksCompleted,
		stats.TasksCreated,
		stats.TotalTimeSpent,
		stats.FocusScore,
	).Scan(&stats.ID)
	if err != nil {
		return fmt.Errorf("save stats for %s: %w", database.FormatDate(stats.Date), err)
	}
	return nil
}

// ListSince returns rows dated on or after since, oldest first.
func (r *SQLStatsRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.DailyStats, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx,
		`SELECT `+statsColumns+` FROM productivity_stats WHERE date >= ? ORDER BY date`,
		database.FormatDate(since),
	)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.DailyStats, 0)
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, rows.Err()
}

func scanStats(row database.Row) (*domain.DailyStats, error) {
	var (
		stats domain.DailyStats
		date  database.NullTime
	)
	if err := row.Scan(
		&stats.ID,
		&date,
		&stats.TasksCompleted,
		&stats.TasksCreated,
		&stats.TotalTimeSpent,
		&stats.FocusScore,
	); err != nil {
		return nil, err
	}
	stats.Date = domain.DayOf(date.Time)
	return &stats, nil
}
