package storage

// sqlite.go: persistencia del último resultado y del histórico de runs.
//
// Estrategia:
//   - `runs`: una fila por run con la config y el blob JSON de los resúmenes,
//     que LastRun restaura tal cual.
//   - `strategy_summaries`: una fila por estrategia con los escalares, para
//     listar runs y elegir la mejor estrategia sin deserializar blobs.
//   - Prune automático al arrancar: runs > 90d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/alejandrodnm/kellysim/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT    PRIMARY KEY,
    created_at INTEGER NOT NULL, -- unix nanos
    seed       TEXT    NOT NULL, -- uint64 no cabe en INTEGER
    paths      INTEGER NOT NULL DEFAULT 0,
    rounds     INTEGER NOT NULL DEFAULT 0,
    config     TEXT    NOT NULL,
    summaries  BLOB    NOT NULL
);

CREATE TABLE IF NOT EXISTS strategy_summaries (
    run_id         TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position       INTEGER NOT NULL,
    kind           TEXT    NOT NULL,
    label          TEXT    NOT NULL,
    mean_final     REAL    NOT NULL DEFAULT 0,
    median_final   REAL    NOT NULL DEFAULT 0,
    p5_final       REAL    NOT NULL DEFAULT 0,
    p95_final      REAL    NOT NULL DEFAULT 0,
    ruin_rate      REAL    NOT NULL DEFAULT 0,
    mean_log_final REAL    NOT NULL DEFAULT 0,
    mean_mdd       REAL    NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.RunStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia runs antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persiste el run y una fila de escalares por estrategia en una transacción.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.RunResult) error {
	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: encode config: %w", err)
	}
	sumJSON, err := json.Marshal(run.Summaries)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: encode summaries: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, seed, paths, rounds, config, summaries) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().UnixNano(),
		strconv.FormatUint(run.Seed, 10),
		run.Paths,
		run.Config.Rounds,
		string(cfgJSON),
		sumJSON,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO strategy_summaries
			(run_id, position, kind, label, mean_final, median_final, p5_final,
			 p95_final, ruin_rate, mean_log_final, mean_mdd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare: %w", err)
	}
	defer stmt.Close()

	for i, sum := range run.Summaries {
		kind, label := "", ""
		if sum.Strategy != nil {
			kind, label = string(sum.Strategy.Kind()), sum.Strategy.Label()
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, kind, label,
			sum.MeanFinal,
			sum.MedianFinal,
			sum.P5Final,
			sum.P95Final,
			sum.RuinRate,
			sum.MeanLogFinal,
			sum.MeanMDD,
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert summary %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// LastRun devuelve el run más reciente con sus resúmenes restaurados.
func (s *SQLiteStorage) LastRun(ctx context.Context) (domain.RunResult, error) {
	var (
		run       domain.RunResult
		created   int64
		seed      string
		cfgJSON   string
		summaries []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, seed, paths, config, summaries
		FROM runs
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&run.ID, &created, &seed, &run.Paths, &cfgJSON, &summaries)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RunResult{}, ports.ErrNoRuns
	}
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.LastRun: query: %w", err)
	}

	run.CreatedAt = time.Unix(0, created).UTC()
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.LastRun: parse seed %q: %w", seed, err)
	}
	if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.LastRun: decode config: %w", err)
	}
	if err := json.Unmarshal(summaries, &run.Summaries); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.LastRun: decode summaries: %w", err)
	}
	return run, nil
}

// ListRuns devuelve los últimos runs con su mejor estrategia por crecimiento logarítmico.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.paths, r.rounds, r.seed,
		       (SELECT COUNT(*) FROM strategy_summaries s WHERE s.run_id = r.id),
		       COALESCE((SELECT label FROM strategy_summaries s WHERE s.run_id = r.id
		                 ORDER BY mean_log_final DESC, position LIMIT 1), ''),
		       COALESCE((SELECT MAX(mean_log_final) FROM strategy_summaries s WHERE s.run_id = r.id), 0)
		FROM runs r
		ORDER BY r.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunInfo
	for rows.Next() {
		var info domain.RunInfo
		var created int64
		var seed string
		if err := rows.Scan(
			&info.ID,
			&created,
			&info.Paths,
			&info.Rounds,
			&seed,
			&info.Strategies,
			&info.BestLabel,
			&info.BestLogG,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan row: %w", err)
		}
		info.CreatedAt = time.Unix(0, created).UTC()
		if info.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: parse seed %q: %w", seed, err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina runs antiguos para mantener la DB ligera; los resúmenes caen por cascade.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).UnixNano()
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
}
