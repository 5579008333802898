package store

import (
	"context"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

// Store defines scenario persistence and the experiment history log.
type Store interface {
	// Scenario operations
	SaveScenario(ctx context.Context, name string, params sim.Params, overwrite bool) (*Scenario, error)
	GetScenario(ctx context.Context, name string) (*Scenario, error)
	ListScenarios(ctx context.Context) ([]*Scenario, error)
	DeleteScenario(ctx context.Context, name string) error

	// History operations
	AppendExperiment(ctx context.Context, scenarioName string, params sim.Params, metrics Snapshot) error
	ListExperiments(ctx context.Context, limit int) ([]*Experiment, error)

	// Lifecycle
	Close() error
}
