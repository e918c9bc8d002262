/**
 * CONTEXT:   The `weekmaster` command - builds a week-master CSV from scratch
 * INPUT:     A year range, baseline capacity, and an optional JSON rules file
 * OUTPUT:    A week-master CSV with one row per Monday, reduced-hours and blackout adjustments applied
 * BUSINESS:  Operators without a pre-built week-master still need one to run the engine at all
 * CHANGE:    Initial implementation
 * RISK:      Low - pure generation, delegates to the weekmaster package
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	gmbpcsv "github.com/gmbp/scheduler/internal/ingest/csv"
	"github.com/gmbp/scheduler/internal/weekmaster"
)

var (
	wmStartYear    int
	wmEndYear      int
	wmAllowedHours int
	wmAllowedTasks int
	wmRulesPath    string
	wmOutputPath   string
)

var weekMasterCmd = &cobra.Command{
	Use:   "weekmaster",
	Short: "Generate a week-master CSV covering a year range",
	RunE:  executeWeekMaster,
}

func init() {
	weekMasterCmd.Flags().IntVar(&wmStartYear, "start-year", time.Now().Year(), "first year to cover")
	weekMasterCmd.Flags().IntVar(&wmEndYear, "end-year", time.Now().Year()+10, "year to stop before (exclusive)")
	weekMasterCmd.Flags().IntVar(&wmAllowedHours, "allowed-hours", 80, "baseline AllowedHours per week")
	weekMasterCmd.Flags().IntVar(&wmAllowedTasks, "allowed-tasks", 12, "baseline AllowedTasks per week")
	weekMasterCmd.Flags().StringVar(&wmRulesPath, "rules", "", "optional JSON file with reducedHours/blackouts rules")
	weekMasterCmd.Flags().StringVar(&wmOutputPath, "out", "weekmaster.csv", "path to write the generated week-master CSV")
}

// weekMasterRules is the JSON shape accepted by --rules: calendar spans
// expressed as plain date strings, converted into the weekmaster package's
// time.Time-based rule types before generation.
type weekMasterRules struct {
	ReducedHours []struct {
		Start      string `json:"start"`
		End        string `json:"end"`
		Hours      int    `json:"hours"`
		Repetition string `json:"repetition"`
		Notes      string `json:"notes"`
	} `json:"reducedHours"`
	Blackouts []struct {
		Start      string `json:"start"`
		End        string `json:"end"`
		Repetition string `json:"repetition"`
		Notes      string `json:"notes"`
	} `json:"blackouts"`
}

func executeWeekMaster(cmd *cobra.Command, args []string) error {
	var reducedHours []weekmaster.ReducedHoursRule
	var blackouts []weekmaster.BlackoutRule

	if wmRulesPath != "" {
		data, err := os.ReadFile(wmRulesPath)
		if err != nil {
			return fmt.Errorf("reading rules file: %w", err)
		}
		var rules weekMasterRules
		if err := json.Unmarshal(data, &rules); err != nil {
			return fmt.Errorf("parsing rules file: %w", err)
		}
		for _, r := range rules.ReducedHours {
			start, err := time.Parse("2006-01-02", r.Start)
			if err != nil {
				return fmt.Errorf("reducedHours rule start %q: %w", r.Start, err)
			}
			end, err := time.Parse("2006-01-02", r.End)
			if err != nil {
				return fmt.Errorf("reducedHours rule end %q: %w", r.End, err)
			}
			reducedHours = append(reducedHours, weekmaster.ReducedHoursRule{
				Start: start, End: end, Hours: r.Hours,
				Repetition: weekmaster.Repetition(r.Repetition), Notes: r.Notes,
			})
		}
		for _, b := range rules.Blackouts {
			start, err := time.Parse("2006-01-02", b.Start)
			if err != nil {
				return fmt.Errorf("blackout rule start %q: %w", b.Start, err)
			}
			end, err := time.Parse("2006-01-02", b.End)
			if err != nil {
				return fmt.Errorf("blackout rule end %q: %w", b.End, err)
			}
			blackouts = append(blackouts, weekmaster.BlackoutRule{
				Start: start, End: end, Repetition: weekmaster.Repetition(b.Repetition), Notes: b.Notes,
			})
		}
	}

	rows := weekmaster.Generate(wmStartYear, wmEndYear, wmAllowedHours, wmAllowedTasks, reducedHours)
	rows = weekmaster.ApplyBlackouts(rows, blackouts, wmEndYear)

	if err := gmbpcsv.WriteWeekMaster(wmOutputPath, rows); err != nil {
		return err
	}
	successColor.Printf("Wrote %d week-master rows to %s\n", len(rows), wmOutputPath)
	return nil
}
