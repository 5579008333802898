package store

import (
	"time"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

// Scenario is a named, saved parameter set.
type Scenario struct {
	ID        int64
	Name      string
	Params    sim.Params // decoded from JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the rounded metric summary recorded with each experiment.
type Snapshot struct {
	TotalUsers     int     `json:"total_users"`
	Payers         int     `json:"payers"`
	ConversionPct  float64 `json:"conv_rate"`
	ARPU           float64 `json:"arpu"`
	ARPPU          float64 `json:"arppu"`
	LTV3           float64 `json:"ltv_3"`
	LTV6           float64 `json:"ltv_6"`
	PayingSharePct float64 `json:"paying_share"`
	ChurnRatePct   float64 `json:"churn_rate"`
}

// Experiment is one appended history entry: the parameters a run used and
// the metrics it produced.
type Experiment struct {
	ID           int64
	ScenarioName string
	Params       sim.Params
	Metrics      Snapshot
	CreatedAt    time.Time
}
