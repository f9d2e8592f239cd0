// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry persists training runs and fitted model artifacts in
// a local SQLite database, so experiments stay comparable across
// invocations and models can be reloaded by run ID.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagelab/internal/textmodel"
	"github.com/pdiddy/pagelab/pkg/types"
)

const (
	dbFile    = "pagelab.db"
	modelsDir = "models"

	// tsLayout is fixed-width so stored timestamps sort chronologically
	// under SQLite's string comparison. RFC3339Nano strips trailing
	// zeros and does not.
	tsLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the run registry SQLite database and model artifacts.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the registry at cfg.Dir, creating the schema
// and the model artifact directory if they do not exist.
func Open(cfg types.RegistryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("registry directory not configured")
	}
	for _, dir := range []string{cfg.Dir, filepath.Join(cfg.Dir, modelsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating registry directory %s: %w", dir, err)
		}
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			dataset TEXT NOT NULL,
			model_type TEXT NOT NULL,
			params TEXT,
			train_size INTEGER,
			test_size INTEGER,
			accuracy REAL,
			metrics TEXT,
			artifact_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun assigns the run an ID and timestamp, persists the fitted
// model as an artifact, and inserts the run row. The run is updated in
// place with ID, CreatedAt, and ArtifactPath.
func (s *Store) RecordRun(ctx context.Context, run *types.Run, model textmodel.Classifier) error {
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	run.ArtifactPath = filepath.Join(modelsDir, run.ID+".json")

	if err := textmodel.Save(model, filepath.Join(s.dir, run.ArtifactPath)); err != nil {
		return err
	}

	params, err := yaml.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, dataset, model_type, params, train_size, test_size, accuracy, metrics, artifact_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(tsLayout), run.Dataset, run.ModelType,
		string(params), run.TrainSize, run.TestSize, run.Metrics.Accuracy, string(metrics), run.ArtifactPath)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]types.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, dataset, model_type, params, train_size, test_size, metrics, artifact_path
		 FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*types.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, dataset, model_type, params, train_size, test_size, metrics, artifact_path
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return run, err
}

// LatestRun returns the most recent run recorded for a dataset.
func (s *Store) LatestRun(ctx context.Context, dataset string) (*types.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, dataset, model_type, params, train_size, test_size, metrics, artifact_path
		 FROM runs WHERE dataset = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, dataset)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no runs recorded for dataset %q", dataset)
	}
	return run, err
}

// LoadModel reloads the fitted classifier persisted for a run.
func (s *Store) LoadModel(ctx context.Context, id string) (textmodel.Classifier, *types.Run, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	model, err := textmodel.Load(filepath.Join(s.dir, run.ArtifactPath))
	if err != nil {
		return nil, nil, err
	}
	return model, run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*types.Run, error) {
	var run types.Run
	var createdAt, params, metrics string
	if err := row.Scan(&run.ID, &createdAt, &run.Dataset, &run.ModelType, &params,
		&run.TrainSize, &run.TestSize, &metrics, &run.ArtifactPath); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run timestamp %q: %w", createdAt, err)
	}
	run.CreatedAt = ts

	if params != "" {
		if err := yaml.Unmarshal([]byte(params), &run.Params); err != nil {
			return nil, fmt.Errorf("parsing run params: %w", err)
		}
	}
	if metrics != "" {
		if err := json.Unmarshal([]byte(metrics), &run.Metrics); err != nil {
			return nil, fmt.Errorf("parsing run metrics: %w", err)
		}
	}
	return &run, nil
}
