/**
 * AGENT:     cli-interface
 * TRACE:     GMBP-CSV-001
 * CONTEXT:   CSV I/O - an external collaborator the core never touches directly
 * REASON:    Task catalogues and week-masters arrive as CSV; schedules are exported the same way
 * CHANGE:    Initial implementation.
 * RISK:      Medium - malformed input here surfaces as a cleaning error, not a core scheduling bug
 */

package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gmbp/scheduler/internal/cleaning"
	"github.com/gmbp/scheduler/internal/domain"
	"github.com/gmbp/scheduler/internal/join"
)

// timeParseDate parses a week-master Monday column, which is always
// emitted in ISO (YYYY-MM-DD) form by WriteWeekMaster.
func timeParseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

var taskHeader = []string{
	"Key", "DataSource", "TaskDescription", "TaskSequence", "TaskSequence_Weeks",
	"Trade", "Hrs", "ConsolidatedDates",
}

// ReadTasks parses a task catalogue CSV whose first len(taskHeader) columns
// are the columns in taskHeader, skipping the header row, and returns raw
// rows ready for cleaning.Clean. Any trailing columns beyond taskHeader are
// auxiliary source data the core never sees - carried back keyed by Key so
// join.Final can reattach them to the finished schedule.
func ReadTasks(path string) ([]cleaning.RawRow, map[string]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: opening task catalogue: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv: reading task catalogue: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]cleaning.RawRow, 0, len(records)-1)
	auxiliary := make(map[string]map[string]string)
	for _, record := range records[1:] {
		if len(record) < len(taskHeader) {
			return nil, nil, fmt.Errorf("csv: task row %v has fewer than %d columns", record, len(taskHeader))
		}
		rows = append(rows, cleaning.RawRow{
			Key:               record[0],
			DataSource:        record[1],
			TaskDescription:   record[2],
			TaskSequence:      record[3],
			TaskSequenceWeeks: record[4],
			Trade:             record[5],
			Hrs:               record[6],
			ConsolidatedDates: record[7],
		})

		if len(record) > len(taskHeader) {
			cols := make(map[string]string, len(record)-len(taskHeader))
			for i := len(taskHeader); i < len(record); i++ {
				name := fmt.Sprintf("Extra%d", i-len(taskHeader)+1)
				if i < len(header) && header[i] != "" {
					name = header[i]
				}
				cols[name] = record[i]
			}
			auxiliary[record[0]] = cols
		}
	}
	return rows, auxiliary, nil
}

var weekMasterHeader = []string{"ScheduledWeek", "AllowedHours", "AllowedTasks", "Notes"}

// ReadWeekMaster parses a week-master CSV with the columns in
// weekMasterHeader. Any extra trailing annotation columns are ignored, per
// the core's contract that optional annotation columns are ignored.
func ReadWeekMaster(path string) ([]domain.WeekMasterRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: opening week-master: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: reading week-master: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]domain.WeekMasterRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("csv: week-master row %v has fewer than 3 columns", record)
		}
		week, err := timeParseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv: invalid ScheduledWeek %q: %w", record[0], err)
		}
		hours, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("csv: invalid AllowedHours %q: %w", record[1], err)
		}
		tasks, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("csv: invalid AllowedTasks %q: %w", record[2], err)
		}
		notes := ""
		if len(record) > 3 {
			notes = record[3]
		}
		rows = append(rows, domain.WeekMasterRow{ScheduledWeek: week, AllowedHours: hours, AllowedTasks: tasks, Notes: notes})
	}
	return rows, nil
}

// WriteWeekMaster writes rows to path as CSV, for persisting a generated
// week-master alongside the catalogue it was built to cover.
func WriteWeekMaster(path string, rows []domain.WeekMasterRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: creating week-master output: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(weekMasterHeader); err != nil {
		return fmt.Errorf("csv: writing week-master header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.ScheduledWeek.Format("2006-01-02"),
			strconv.Itoa(row.AllowedHours),
			strconv.Itoa(row.AllowedTasks),
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv: writing week-master row: %w", err)
		}
	}
	return writer.Error()
}

var scheduleHeader = []string{
	"Key", "DataSource", "TaskDescription", "TaskSequence", "TaskSequence_Weeks",
	"Trade", "Hrs", "Year", "Week", "EstimatedLastServiceDate", "ScheduledWeek",
	"ScheduledDate", "TotalCount", "TenYearTotal", "DeltaWeeks", "DeltaDays", "HardCapped",
	"WeekPriorityScore",
}

// scheduleRecord renders the columns common to both writers. DeltaDays is
// derived from DeltaWeeks rather than stored on domain.Occurrence, and
// WeekPriorityScore is zero for bottom-up output, which never sets it (it
// only selects a shift victim in the top-down strategies).
func scheduleRecord(occ domain.Occurrence) []string {
	return []string{
		strconv.Itoa(occ.Key),
		occ.DataSource,
		occ.TaskDescription,
		occ.TaskSequence,
		strconv.Itoa(occ.TaskSequenceWeeks),
		occ.Trade,
		strconv.Itoa(occ.Hrs),
		strconv.Itoa(occ.Year),
		strconv.Itoa(occ.Week),
		occ.EstimatedLastServiceDate.Format("2006-01-02"),
		occ.ScheduledWeek.Format("2006-01-02"),
		occ.ScheduledDate.Format("2006-01-02"),
		strconv.Itoa(occ.TotalCount),
		strconv.Itoa(occ.TenYearTotal),
		strconv.Itoa(occ.DeltaWeeks),
		strconv.Itoa(occ.DeltaWeeks * 7),
		strconv.FormatBool(occ.HardCapped),
		strconv.FormatFloat(occ.WeekPriorityScore, 'f', 4, 64),
	}
}

// WriteSchedule writes occurrences to path as CSV, sorted as they were
// produced by the strategy (callers are expected to have already sorted by
// ScheduledDate).
func WriteSchedule(path string, occurrences []domain.Occurrence) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: creating schedule output: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(scheduleHeader); err != nil {
		return fmt.Errorf("csv: writing schedule header: %w", err)
	}

	for _, occ := range occurrences {
		if err := writer.Write(scheduleRecord(occ)); err != nil {
			return fmt.Errorf("csv: writing schedule row for key %d: %w", occ.Key, err)
		}
	}
	return writer.Error()
}

// WriteJoinedSchedule writes rows - schedule columns followed by every
// auxiliary column present across the batch, sorted for a stable header -
// to path as CSV. A row missing a given auxiliary column leaves it blank.
func WriteJoinedSchedule(path string, rows []join.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: creating joined schedule output: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	auxNames := auxiliaryColumnNames(rows)

	header := append(append([]string{}, scheduleHeader...), auxNames...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("csv: writing joined schedule header: %w", err)
	}

	for _, row := range rows {
		occ := row.Occurrence
		record := scheduleRecord(occ)
		for _, name := range auxNames {
			record = append(record, row.Auxiliary[name])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv: writing joined schedule row for key %d: %w", occ.Key, err)
		}
	}
	return writer.Error()
}

func auxiliaryColumnNames(rows []join.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for name := range row.Auxiliary {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
