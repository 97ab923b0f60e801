package storage_test

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/kellysim/internal/adapters/storage"
	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/alejandrodnm/kellysim/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRun(id string, created time.Time, seed uint64) domain.RunResult {
	return domain.RunResult{
		ID:        id,
		CreatedAt: created,
		Config:    domain.DefaultBaseConfig(),
		Paths:     1000,
		Seed:      seed,
		Summaries: []domain.StrategySummary{
			{Strategy: domain.Kelly{}, MeanFinal: 180, MedianFinal: 150, P5Final: 40, P95Final: 400, MeanLogFinal: 5.0, MeanMDD: 0.45},
			{Strategy: domain.FractionalKelly{Alpha: 0.5}, MeanFinal: 140, MedianFinal: 135, P5Final: 90, P95Final: 210, MeanLogFinal: 4.9, MeanMDD: 0.2},
			{Strategy: domain.NewMartingale(), MeanFinal: 20, RuinRate: 0.9, MeanLogFinal: -20},
		},
	}
}

func TestSQLiteStorage_SaveAndLastRun(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	run := makeRun("run-1", time.Now().UTC(), math.MaxUint64)

	require.NoError(t, db.SaveRun(ctx, run))

	got, err := db.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, uint64(math.MaxUint64), got.Seed)
	assert.Equal(t, run.Config, got.Config)
	assert.Equal(t, run.Summaries, got.Summaries)
}

func TestSQLiteStorage_LastRun_Empty(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.LastRun(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoRuns)
}

func TestSQLiteStorage_LastRunIsMostRecent(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, db.SaveRun(ctx, makeRun("old", now.Add(-time.Hour), 1)))
	require.NoError(t, db.SaveRun(ctx, makeRun("new", now, 2)))

	got, err := db.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestSQLiteStorage_ListRuns(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, db.SaveRun(ctx, makeRun("a", now.Add(-2*time.Minute), 1)))
	require.NoError(t, db.SaveRun(ctx, makeRun("b", now.Add(-time.Minute), 2)))
	require.NoError(t, db.SaveRun(ctx, makeRun("c", now, 3)))

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, 3, runs[0].Strategies)
	assert.Equal(t, "Kelly", runs[0].BestLabel)
	assert.InDelta(t, 5.0, runs[0].BestLogG, 1e-12)
	assert.Equal(t, uint64(3), runs[0].Seed)
	assert.Equal(t, 500, runs[0].Rounds)
}

func TestSQLiteStorage_DuplicateID(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveRun(ctx, makeRun("dup", time.Now(), 1)))
	assert.Error(t, db.SaveRun(ctx, makeRun("dup", time.Now(), 2)))
}

func TestSQLiteStorage_ListRuns_CorruptSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveRun(ctx, makeRun("bad-seed", time.Now().UTC(), 7)))

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE runs SET seed = 'not-a-seed' WHERE id = 'bad-seed'`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = db.ListRuns(ctx, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse seed")

	_, err = db.LastRun(ctx)
	assert.Error(t, err)
}
