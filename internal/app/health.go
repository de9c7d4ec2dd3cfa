package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/httpserver"
	"github.com/jonboulle/clockwork"
)

// staleCycles is how many broadcast intervals may pass without a cycle before
// the controller reports not ready.
const staleCycles = 3

type runningChecker interface {
	Running() bool
}

type cycleReporter interface {
	LastCycle() time.Time
	Interval() time.Duration
}

func healthChecks(listener runningChecker, broadcaster cycleReporter, clock clockwork.Clock) []httpserver.HealthCheck {
	return []httpserver.HealthCheck{
		{
			Name: "discovery",
			Check: func(_ context.Context) error {
				if !listener.Running() {
					return errors.New("discovery listener not running")
				}
				return nil
			},
		},
		{
			Name: "broadcaster",
			Check: func(_ context.Context) error {
				last := broadcaster.LastCycle()
				if last.IsZero() {
					return errors.New("no broadcast cycle yet")
				}
				if age := clock.Since(last); age > staleCycles*broadcaster.Interval() {
					return fmt.Errorf("last broadcast cycle %s ago", age.Truncate(time.Millisecond))
				}
				return nil
			},
		},
	}
}
