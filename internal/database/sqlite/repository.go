/**
 * CONTEXT:   Schedule repository for SQLite database operations
 * INPUT:     Task catalogue, week-master, schedule run metadata, and occurrence rows
 * OUTPUT:    Database persistence for a complete scheduling run
 * BUSINESS:  Every run is recorded with the task/week-master snapshot it used and the schedule it produced
 * CHANGE:    Initial implementation
 * RISK:      Low - straightforward repository, no business logic beyond persistence
 */

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// Repository handles database operations for the scheduling domain.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new schedule repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveTasks replaces the task catalogue with tasks.
func (r *Repository) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clearing tasks: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tasks (
				key, data_source, task_description, task_sequence, task_sequence_weeks,
				trade, hrs, base_date, estimated_last_service_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing task insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range tasks {
			_, err := stmt.ExecContext(ctx,
				t.Key, t.DataSource, t.TaskDescription, t.TaskSequence, t.TaskSequenceWeeks,
				t.Trade, t.Hrs, formatDate(t.BaseDate), formatDate(t.EstimatedLastServiceDate),
			)
			if err != nil {
				return fmt.Errorf("inserting task %d: %w", t.Key, err)
			}
		}
		return nil
	})
}

// LoadTasks returns every task, sorted by Key.
func (r *Repository) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, data_source, task_description, task_sequence, task_sequence_weeks,
		       trade, hrs, base_date, estimated_last_service_date
		FROM tasks ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var baseDate, lastService string
		if err := rows.Scan(&t.Key, &t.DataSource, &t.TaskDescription, &t.TaskSequence,
			&t.TaskSequenceWeeks, &t.Trade, &t.Hrs, &baseDate, &lastService); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.BaseDate, err = parseDate(baseDate)
		if err != nil {
			return nil, err
		}
		t.EstimatedLastServiceDate, err = parseDate(lastService)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SaveWeekMaster replaces the week-master table with rows.
func (r *Repository) SaveWeekMaster(ctx context.Context, rows []domain.WeekMasterRow) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM week_master`); err != nil {
			return fmt.Errorf("clearing week_master: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO week_master (scheduled_week, allowed_hours, allowed_tasks, notes)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing week_master insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, formatDate(row.ScheduledWeek), row.AllowedHours, row.AllowedTasks, row.Notes); err != nil {
				return fmt.Errorf("inserting week_master row %s: %w", formatDate(row.ScheduledWeek), err)
			}
		}
		return nil
	})
}

// LoadWeekMaster returns every week-master row, sorted by scheduled_week.
func (r *Repository) LoadWeekMaster(ctx context.Context) ([]domain.WeekMasterRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scheduled_week, allowed_hours, allowed_tasks, notes FROM week_master ORDER BY scheduled_week
	`)
	if err != nil {
		return nil, fmt.Errorf("querying week_master: %w", err)
	}
	defer rows.Close()

	var out []domain.WeekMasterRow
	for rows.Next() {
		var row domain.WeekMasterRow
		var week string
		if err := rows.Scan(&week, &row.AllowedHours, &row.AllowedTasks, &row.Notes); err != nil {
			return nil, fmt.Errorf("scanning week_master row: %w", err)
		}
		row.ScheduledWeek, err = parseDate(week)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RecordRun persists the metadata of a completed scheduling run.
func (r *Repository) RecordRun(ctx context.Context, run domain.ScheduleRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_runs (
			run_id, strategy, seed, forecast_years, started_at, finished_at, task_count, occurrence_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID, run.Strategy, run.Seed, run.ForecastYears,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.TaskCount, run.OccurrenceCount,
	)
	if err != nil {
		return fmt.Errorf("recording schedule run %s: %w", run.RunID, err)
	}
	return nil
}

// SaveOccurrences persists runID's schedule. Occurrences from prior runs
// are never deleted; each run_id partitions its own rows.
func (r *Repository) SaveOccurrences(ctx context.Context, runID string, occurrences []domain.Occurrence) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO occurrences (
				run_id, key, data_source, task_description, task_sequence, task_sequence_weeks,
				trade, hrs, scheduled_date, scheduled_week, delta_weeks, total_count,
				ten_year_total, hard_capped, year, week
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing occurrence insert: %w", err)
		}
		defer stmt.Close()

		for _, occ := range occurrences {
			_, err := stmt.ExecContext(ctx,
				runID, occ.Key, occ.DataSource, occ.TaskDescription, occ.TaskSequence, occ.TaskSequenceWeeks,
				occ.Trade, occ.Hrs, formatDate(occ.ScheduledDate), formatDate(occ.ScheduledWeek),
				occ.DeltaWeeks, occ.TotalCount, occ.TenYearTotal, occ.HardCapped, occ.Year, occ.Week,
			)
			if err != nil {
				return fmt.Errorf("inserting occurrence for run %s key %d: %w", runID, occ.Key, err)
			}
		}
		return nil
	})
}

// LoadOccurrences returns runID's persisted schedule, sorted by scheduled_date.
func (r *Repository) LoadOccurrences(ctx context.Context, runID string) ([]domain.Occurrence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, data_source, task_description, task_sequence, task_sequence_weeks,
		       trade, hrs, scheduled_date, scheduled_week, delta_weeks, total_count,
		       ten_year_total, hard_capped, year, week
		FROM occurrences WHERE run_id = ? ORDER BY scheduled_date
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying occurrences for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []domain.Occurrence
	for rows.Next() {
		var occ domain.Occurrence
		var scheduledDate, scheduledWeek string
		if err := rows.Scan(&occ.Key, &occ.DataSource, &occ.TaskDescription, &occ.TaskSequence,
			&occ.TaskSequenceWeeks, &occ.Trade, &occ.Hrs, &scheduledDate, &scheduledWeek,
			&occ.DeltaWeeks, &occ.TotalCount, &occ.TenYearTotal, &occ.HardCapped, &occ.Year, &occ.Week); err != nil {
			return nil, fmt.Errorf("scanning occurrence: %w", err)
		}
		occ.ScheduledDate, err = parseDate(scheduledDate)
		if err != nil {
			return nil, err
		}
		occ.ScheduledWeek, err = parseDate(scheduledWeek)
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, rows.Err()
}

// LoadRun returns the metadata of a single recorded run.
func (r *Repository) LoadRun(ctx context.Context, runID string) (domain.ScheduleRun, error) {
	var run domain.ScheduleRun
	var startedAt, finishedAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT run_id, strategy, seed, forecast_years, started_at, finished_at, task_count, occurrence_count
		FROM schedule_runs WHERE run_id = ?
	`, runID).Scan(&run.RunID, &run.Strategy, &run.Seed, &run.ForecastYears, &startedAt, &finishedAt, &run.TaskCount, &run.OccurrenceCount)
	if err != nil {
		return domain.ScheduleRun{}, fmt.Errorf("loading run %s: %w", runID, err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return domain.ScheduleRun{}, fmt.Errorf("parsing started_at for run %s: %w", runID, err)
	}
	run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
	if err != nil {
		return domain.ScheduleRun{}, fmt.Errorf("parsing finished_at for run %s: %w", runID, err)
	}
	return run, nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
