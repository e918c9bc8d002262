/**
 * CONTEXT:   Strategy selection - the one place that knows all four algorithm names
 * INPUT:     A strategy name, a hard-cap table, and a seeded RNG for the stochastic strategy
 * OUTPUT:    A ready-to-run Strategy, or UnknownStrategy
 * BUSINESS:  Every caller goes through here rather than constructing a strategy directly
 * CHANGE:    Initial implementation
 * RISK:      Low - thin factory
 */

package scheduler

import (
	"math/rand"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// Strategy is the common contract all four algorithms satisfy.
type Strategy interface {
	Schedule(tasks []domain.Task, weekMaster *WeekIndex, forecastYears int, now time.Time) ([]domain.Occurrence, error)
}

// Strategy names, as accepted by NewStrategy and any external selector.
const (
	TopDownBackwardName         = "top-down-b"
	TopDownForwardBackwardName  = "top-down-fb"
	BottomUpBackwardName        = "bottom-up-b"
	BottomUpForwardBackwardName = "bottom-up-fb"
)

// NewStrategy builds the named strategy. rng is only consulted by
// top-down-fb's symmetric tie-break; pass a seeded source for reproducible
// runs and nil only when that strategy will not be selected.
func NewStrategy(name string, hardcap domain.HardCapTable, rng *rand.Rand) (Strategy, error) {
	switch name {
	case TopDownBackwardName:
		return TopDownBackward{Hardcap: hardcap}, nil
	case TopDownForwardBackwardName:
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		return TopDownForwardBackward{Hardcap: hardcap, Rng: rng}, nil
	case BottomUpBackwardName:
		return BottomUpBackward{Hardcap: hardcap}, nil
	case BottomUpForwardBackwardName:
		return BottomUpForwardBackward{Hardcap: hardcap}, nil
	default:
		return nil, &domain.UnknownStrategyError{Name: name}
	}
}
