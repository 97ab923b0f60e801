package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/kellysim/internal/adapters/notify"
	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRun() domain.RunResult {
	return domain.RunResult{
		ID:        "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		CreatedAt: time.Now(),
		Config:    domain.DefaultBaseConfig(),
		Paths:     1000,
		Seed:      42,
		Summaries: []domain.StrategySummary{
			{Strategy: domain.Kelly{}, MeanFinal: 240.5, MedianFinal: 180.25, MeanLogFinal: 5.2, MeanMDD: 0.4},
			{Strategy: domain.NewMartingale(), MeanFinal: 12, RuinRate: 0.87, MeanLogFinal: -18},
		},
	}
}

func TestConsole_Notify_WithSummaries(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	err := n.Notify(context.Background(), makeRun())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "7c9e6679")
	assert.Contains(t, out, "Kelly")
	assert.Contains(t, out, "Martingale (base=1)")
	assert.Contains(t, out, "240.50")
	assert.Contains(t, out, "87.0%")
	assert.Contains(t, out, "BEST GROWTH: Kelly")
	assert.Contains(t, out, "WARNING: Martingale")
}

func TestConsole_Notify_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	err := n.Notify(context.Background(), domain.RunResult{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no strategies simulated")
}

func TestConsole_PrintMetrics(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	ms := domain.NewMetricSeries(3)
	ms[domain.MetricCumulativeReturn][2] = 12.3456

	n.PrintMetrics([]string{"Kelly"}, []domain.MetricSeries{ms})

	out := buf.String()
	assert.Contains(t, out, "cumulativeReturn")
	assert.Contains(t, out, "var5Rolling")
	assert.Contains(t, out, "12.3456")
}

func TestConsole_PrintRuns_LongLabelTruncated(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.PrintRuns([]domain.RunInfo{{
		ID:        "abc",
		CreatedAt: time.Now(),
		BestLabel: strings.Repeat("A", 50),
	}})
	assert.Contains(t, buf.String(), "...")
}

func TestConsole_PrintRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.PrintRuns(nil)
	assert.Contains(t, buf.String(), "No stored runs yet")
}
