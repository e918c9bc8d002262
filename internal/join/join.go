/**
 * CONTEXT:   Final joining - reattaches auxiliary source columns to the scheduled output, an external collaborator
 * INPUT:     A finished schedule plus the original source rows it was built from, keyed on Key
 * OUTPUT:    One row per occurrence, schedule columns followed by every source column not already present
 * BUSINESS:  The core never sees or emits these auxiliary columns; this step runs strictly after scheduling
 * CHANGE:    Initial implementation
 * RISK:      Low - a missing Key in the source map is left with empty auxiliary columns, not an error
 */

package join

import "github.com/gmbp/scheduler/internal/domain"

// Row is one final output row: a scheduled occurrence together with the
// auxiliary source columns carried through from the original catalogue.
type Row struct {
	Occurrence domain.Occurrence
	Auxiliary  map[string]string
}

// Final joins occurrences against auxiliary, a Key-to-column-map lookup
// built from the original source rows, preserving occurrences' order.
func Final(occurrences []domain.Occurrence, auxiliary map[int]map[string]string) []Row {
	rows := make([]Row, 0, len(occurrences))
	for _, occ := range occurrences {
		cols := auxiliary[occ.Key]
		if cols == nil {
			cols = map[string]string{}
		}
		rows = append(rows, Row{Occurrence: occ, Auxiliary: cols})
	}
	return rows
}
