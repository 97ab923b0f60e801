package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Notify imprime la tabla comparativa de estrategias y el veredicto.
func (c *Console) Notify(_ context.Context, run domain.RunResult) error {
	if len(run.Summaries) == 0 {
		fmt.Fprintf(c.out, "[%s] no strategies simulated\n", time.Now().Format("15:04:05"))
		return nil
	}

	cfg := run.Config
	fmt.Fprintf(c.out, "\n=== RUN %s — %d paths × %d rounds (seed %d) ===\n",
		shortID(run.ID), run.Paths, cfg.Rounds, run.Seed)
	fmt.Fprintf(c.out, "  W0=%g  p=%.3f  b=%g  fee=%.2f%%  fMax=%.2f  ruin≤%g  kelly f*=%.4f\n",
		cfg.InitialWealth, cfg.WinProb, cfg.Odds, cfg.FeeRate*100, cfg.FMax,
		cfg.RuinThreshold, domain.KellyOptimal(cfg.WinProb, cfg.Odds))

	c.printSummaryTable(run.Summaries)
	c.printVerdict(run)
	return nil
}

// printSummaryTable imprime una fila por estrategia.
func (c *Console) printSummaryTable(summaries []domain.StrategySummary) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Strategy", "Mean", "Median", "P5", "P95", "Ruin", "E[log W]", "Mean MDD")

	for i, s := range summaries {
		table.Append(
			fmt.Sprintf("%d", i+1),
			label(s.Strategy),
			money(s.MeanFinal),
			money(s.MedianFinal),
			money(s.P5Final),
			money(s.P95Final),
			fmt.Sprintf("%.1f%%", s.RuinRate*100),
			fmt.Sprintf("%.4f", s.MeanLogFinal),
			fmt.Sprintf("%.1f%%", s.MeanMDD*100),
		)
	}
	table.Render()

	fmt.Fprintln(c.out, "  E[log W] = crecimiento logarítmico medio (lo que maximiza Kelly)")
	fmt.Fprintln(c.out, "  Mean MDD = drawdown máximo medio por path")
}

// printVerdict destaca la estrategia de mayor crecimiento y las que se arruinan a menudo.
func (c *Console) printVerdict(run domain.RunResult) {
	best, ok := run.Best()
	if !ok {
		return
	}
	fmt.Fprintf(c.out, "\n  BEST GROWTH: %s (E[log W]=%.4f, median %s)\n",
		label(best.Strategy), best.MeanLogFinal, money(best.MedianFinal))

	for _, s := range run.Summaries {
		if s.RuinRate >= 0.05 {
			fmt.Fprintf(c.out, "  WARNING: %s se arruina en %.1f%% de los paths\n",
				label(s.Strategy), s.RuinRate*100)
		}
	}
	fmt.Fprintln(c.out)
}

// PrintMetrics imprime el valor final de las 29 métricas promedio por estrategia.
func (c *Console) PrintMetrics(labels []string, bundles []domain.MetricSeries) {
	if len(bundles) == 0 {
		return
	}

	fmt.Fprintf(c.out, "=== METRICS (average across paths, last round) ===\n")

	header := make([]any, 0, len(labels)+1)
	header = append(header, "Metric")
	for _, l := range labels {
		header = append(header, truncate(l, 24))
	}

	table := tablewriter.NewWriter(c.out)
	table.Header(header...)
	for _, name := range domain.MetricNames() {
		row := make([]any, 0, len(bundles)+1)
		row = append(row, string(name))
		for _, ms := range bundles {
			row = append(row, fmt.Sprintf("%.4f", ms.Last(name)))
		}
		table.Append(row...)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintRuns imprime el histórico de runs guardados.
func (c *Console) PrintRuns(runs []domain.RunInfo) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "\n  No stored runs yet.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Run", "Date", "Paths", "Rounds", "Seed", "Strategies", "Best", "E[log W]")
	for _, r := range runs {
		table.Append(
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Paths),
			fmt.Sprintf("%d", r.Rounds),
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Strategies),
			truncate(r.BestLabel, 30),
			fmt.Sprintf("%.4f", r.BestLogG),
		)
	}
	table.Render()
}

// --- helpers ---

func label(s domain.Strategy) string {
	if s == nil {
		return "?"
	}
	return s.Label()
}

func money(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "n/a"
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.3e", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxLen-3])) + "..."
}
