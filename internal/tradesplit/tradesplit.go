/**
 * CONTEXT:   Trade splitting - partitions a task catalogue before scheduling, an external collaborator
 * INPUT:     A cleaned task catalogue
 * OUTPUT:    One task slice per distinct Trade value
 * BUSINESS:  Each trade's tasks are scheduled independently; the core has no cross-trade coupling
 * CHANGE:    Initial implementation
 * RISK:      Low - pure partition, preserves input order within each group
 */

package tradesplit

import "github.com/gmbp/scheduler/internal/domain"

// ByTrade groups tasks by their Trade field, preserving each trade's
// relative ordering from the input.
func ByTrade(tasks []domain.Task) map[string][]domain.Task {
	groups := make(map[string][]domain.Task)
	for _, task := range tasks {
		groups[task.Trade] = append(groups[task.Trade], task)
	}
	return groups
}
