/**
 * CONTEXT:   Narrow collaborator contracts between the CLI dispatcher and its storage/logging backends
 * INPUT:     n/a - interface definitions only
 * OUTPUT:    n/a
 * BUSINESS:  run and validate depend on these contracts rather than on *sqlite.Repository directly, so a
 *            test double or a future backend can stand in without changing either command's body
 * CHANGE:    Initial implementation
 * RISK:      Low - thin interface layer, no behavior of its own
 */

package arch

import (
	"context"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// TaskSource supplies the cleaned task catalogue a scheduling run is built from.
type TaskSource interface {
	LoadTasks(ctx context.Context) ([]domain.Task, error)
}

// TaskSink persists a task catalogue snapshot alongside the run it was used for.
type TaskSink interface {
	SaveTasks(ctx context.Context, tasks []domain.Task) error
}

// WeekMasterSource supplies the capacity ledger a scheduling run is checked against.
type WeekMasterSource interface {
	LoadWeekMaster(ctx context.Context) ([]domain.WeekMasterRow, error)
}

// WeekMasterSink persists a week-master snapshot alongside the run it was used for.
type WeekMasterSink interface {
	SaveWeekMaster(ctx context.Context, rows []domain.WeekMasterRow) error
}

// ScheduleSink persists the occurrences produced by a finished run.
type ScheduleSink interface {
	SaveOccurrences(ctx context.Context, runID string, occurrences []domain.Occurrence) error
}

// OccurrenceSource looks up a previously persisted schedule by run ID.
type OccurrenceSource interface {
	LoadOccurrences(ctx context.Context, runID string) ([]domain.Occurrence, error)
}

// RunRecorder persists a run's metadata: strategy, seed, timing, row counts.
type RunRecorder interface {
	RecordRun(ctx context.Context, run domain.ScheduleRun) error
}

// RunSource looks up a previously recorded run by ID, for post-hoc validation.
type RunSource interface {
	LoadRun(ctx context.Context, runID string) (domain.ScheduleRun, error)
}

// Logger is the structured logging contract the run command logs through.
// pkg/logger.DefaultLogger implements it.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
}

// TimeProvider is the wall-clock contract the run command books a run's
// started_at/finished_at timestamps through, so tests can pin it.
type TimeProvider interface {
	Now() time.Time
}

// SystemClock is the production TimeProvider: the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Store is the full persistence contract the run command writes through and
// the validate command reads back from.
type Store interface {
	TaskSink
	TaskSource
	WeekMasterSink
	WeekMasterSource
	ScheduleSink
	OccurrenceSource
	RunRecorder
	RunSource
}
