/**
 * CONTEXT:   Scheduling engine CLI entry point
 * INPUT:     Command line arguments selecting a strategy and input/output files
 * OUTPUT:    A generated, validated maintenance schedule
 * BUSINESS:  Single binary wrapping the core engine plus its CSV/SQL external collaborators
 * CHANGE:    Initial implementation
 * RISK:      Medium - Core entry point affecting all command invocations
 */

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var (
	configFile string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "gmbp-schedule",
	Short: "GMBP Scheduling Engine - recurring maintenance task planner",
	Long: `gmbp-schedule generates multi-year maintenance schedules for recurring
trade tasks under weekly capacity constraints.

USAGE:
  gmbp-schedule weekmaster --start-year 2026 --end-year 2036 --out weeks.csv
  gmbp-schedule run --tasks tasks.csv --weekmaster weeks.csv --strategy bottom-up-fb
  gmbp-schedule init-db --db scheduler.db
  gmbp-schedule validate --db scheduler.db --run <run-id>`,
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(weekMasterCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printError(format string, args ...interface{}) {
	errorColor.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
}
