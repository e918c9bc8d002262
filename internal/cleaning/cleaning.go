/**
 * CONTEXT:   Input cleaning and column normalization - an external collaborator, not part of the core
 * INPUT:     Raw task catalogue rows read from CSV/SQL, keyed by loosely-typed string columns
 * OUTPUT:    domain.Task records the core can schedule directly
 * BUSINESS:  The core assumes Hrs <= max_allowed_hours and TaskSequenceWeeks > 0; this is where that's enforced
 * CHANGE:    Initial implementation
 * RISK:      Medium - bad input here becomes a silent scheduling defect downstream
 */

package cleaning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// RawRow is one row of the source task table before cleaning: every column
// as it arrives from a CSV reader, before type conversion.
type RawRow struct {
	Key               string
	DataSource        string
	TaskDescription   string
	TaskSequence      string
	TaskSequenceWeeks string
	Trade             string
	Hrs               string
	ConsolidatedDates string
}

// dateLayouts lists the formats ConsolidatedDates is tried against, in
// order, mirroring pandas.to_datetime's permissiveness with common
// spreadsheet export formats.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "2006/01/02"}

// Clean converts raw rows into validated tasks, sorted by Key, computing
// EstimatedLastServiceDate as ConsolidatedDates - TaskSequenceWeeks and
// rejecting any row whose Hrs exceeds maxAllowedHours.
func Clean(rows []RawRow, maxAllowedHours int) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := cleanRow(row)
		if err != nil {
			return nil, err
		}
		if err := task.Validate(maxAllowedHours); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })
	return tasks, nil
}

func cleanRow(row RawRow) (domain.Task, error) {
	key, err := strconv.Atoi(strings.TrimSpace(row.Key))
	if err != nil {
		return domain.Task{}, fmt.Errorf("cleaning: invalid Key %q: %w", row.Key, err)
	}

	seqWeeks, err := strconv.Atoi(strings.TrimSpace(row.TaskSequenceWeeks))
	if err != nil {
		return domain.Task{}, fmt.Errorf("cleaning: invalid TaskSequence_Weeks %q for key %d: %w", row.TaskSequenceWeeks, key, err)
	}

	hrs, err := strconv.Atoi(strings.TrimSpace(row.Hrs))
	if err != nil {
		return domain.Task{}, fmt.Errorf("cleaning: invalid Hrs %q for key %d: %w", row.Hrs, key, err)
	}

	consolidated, err := parseDate(row.ConsolidatedDates)
	if err != nil {
		return domain.Task{}, fmt.Errorf("cleaning: invalid ConsolidatedDates %q for key %d: %w", row.ConsolidatedDates, key, err)
	}

	return domain.Task{
		Key:                      key,
		DataSource:               strings.TrimSpace(row.DataSource),
		TaskDescription:          strings.TrimSpace(row.TaskDescription),
		TaskSequence:             strings.TrimSpace(row.TaskSequence),
		TaskSequenceWeeks:        seqWeeks,
		Trade:                    strings.TrimSpace(row.Trade),
		Hrs:                      hrs,
		BaseDate:                 consolidated,
		EstimatedLastServiceDate: consolidated.AddDate(0, 0, -7*seqWeeks),
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
