package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    params TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);

CREATE TABLE IF NOT EXISTS experiments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scenario_name TEXT NOT NULL DEFAULT '',
    params TEXT NOT NULL,
    metrics TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_experiments_created ON experiments(created_at);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScenario(ctx context.Context, name string, params sim.Params, overwrite bool) (*Scenario, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	existing, err := s.GetScenario(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().Unix()

	if existing != nil {
		if !overwrite {
			return nil, fmt.Errorf("scenario '%s': %w", name, ErrExists)
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE scenarios SET params = ?, updated_at = ? WHERE name = ?`,
			string(paramsJSON), now, name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update scenario: %w", err)
		}
		existing.Params = params
		existing.UpdatedAt = time.Unix(now, 0)
		return existing, nil
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO scenarios (name, params, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, string(paramsJSON), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scenario: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return &Scenario{
		ID:        id,
		Name:      name,
		Params:    params,
		CreatedAt: time.Unix(now, 0),
		UpdatedAt: time.Unix(now, 0),
	}, nil
}

func (s *SQLiteStore) GetScenario(ctx context.Context, name string) (*Scenario, error) {
	var sc Scenario
	var paramsJSON string
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, params, created_at, updated_at FROM scenarios WHERE name = ?`, name,
	).Scan(&sc.ID, &sc.Name, &paramsJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	// Fill fields added since the scenario was saved with their defaults.
	sc.Params = sim.DefaultParams()
	if err := json.Unmarshal([]byte(paramsJSON), &sc.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	sc.CreatedAt = time.Unix(createdAt, 0)
	sc.UpdatedAt = time.Unix(updatedAt, 0)

	return &sc, nil
}

func (s *SQLiteStore) ListScenarios(ctx context.Context) ([]*Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, params, created_at, updated_at FROM scenarios ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*Scenario
	for rows.Next() {
		var sc Scenario
		var paramsJSON string
		var createdAt, updatedAt int64

		if err := rows.Scan(&sc.ID, &sc.Name, &paramsJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}

		sc.Params = sim.DefaultParams()
		if err := json.Unmarshal([]byte(paramsJSON), &sc.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params: %w", err)
		}

		sc.CreatedAt = time.Unix(createdAt, 0)
		sc.UpdatedAt = time.Unix(updatedAt, 0)

		scenarios = append(scenarios, &sc)
	}

	return scenarios, rows.Err()
}

func (s *SQLiteStore) DeleteScenario(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) AppendExperiment(ctx context.Context, scenarioName string, params sim.Params, metrics Snapshot) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO experiments (scenario_name, params, metrics, created_at) VALUES (?, ?, ?, ?)`,
		scenarioName, string(paramsJSON), string(metricsJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert experiment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExperiments(ctx context.Context, limit int) ([]*Experiment, error) {
	query := `SELECT id, scenario_name, params, metrics, created_at FROM experiments ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*Experiment
	for rows.Next() {
		var e Experiment
		var paramsJSON, metricsJSON string
		var createdAt int64

		if err := rows.Scan(&e.ID, &e.ScenarioName, &paramsJSON, &metricsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &e.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &e.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)

		experiments = append(experiments, &e)
	}

	return experiments, rows.Err()
}
