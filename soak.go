package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/milk9111/truckrun/sim"
	"github.com/spf13/cobra"
)

var (
	flagSoakSessions int
	flagSoakSeconds  float64
	flagSoakScript   string
)

var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Run headless autopilot sessions and check the obstacle bound",
	Long: `Runs several sessions in parallel without a window, each driven by the
autopilot at 60 ticks per second, and prints distance, peak live obstacles
against the bound, and peak physics bodies per session. Exits non-zero if
any session exceeds the bound.

Examples:
  truckrun soak
  truckrun soak --sessions 8 --seconds 300 --seed 42
  truckrun soak --variant composite --script ./my_autopilot.tengo`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSoak,
}

func init() {
	soakCmd.Flags().IntVar(&flagSoakSessions, "sessions", 4, "Number of parallel sessions")
	soakCmd.Flags().Float64Var(&flagSoakSeconds, "seconds", 60, "Simulated seconds per session")
	soakCmd.Flags().StringVar(&flagSoakScript, "script", defaultAutopilot, "Autopilot tengo script")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

func runSoak(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	level, vehicle, err := loadSpecs()
	if err != nil {
		return err
	}
	script, err := loadAutopilot(flagSoakScript)
	if err != nil {
		return err
	}

	logger.Info("soak starting", "sessions", flagSoakSessions, "seconds", flagSoakSeconds, "variant", vehicle.Variant)
	results, err := sim.Soak(cmd.Context(), sim.SoakOptions{
		Sessions:       flagSoakSessions,
		Seconds:        flagSoakSeconds,
		Seed:           seed(),
		Level:          level,
		Vehicle:        vehicle,
		Autopilot:      script,
		ViewportWidth:  float64(flagWidth),
		ViewportHeight: float64(flagHeight),
		Logger:         logger,
	})
	fmt.Fprintln(cmd.OutOrStdout(), soakTable(results))
	return err
}

func soakTable(results []sim.SoakResult) string {
	header := []string{"#", "Session", "Seed", "Distance", "Live peak", "Bound", "Bodies peak", "Jumps", "Hits", ""}
	rows := [][]string{header}
	for _, r := range results {
		if r.Session == "" {
			continue
		}
		status := okStyle.Render("ok")
		if !r.WithinBound() {
			status = failStyle.Render("OVER")
		}
		st := r.Stats
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			r.Session[:8],
			strconv.FormatInt(r.Seed, 10),
			strconv.FormatFloat(st.Distance, 'f', 0, 64),
			strconv.Itoa(st.PeakLive),
			strconv.Itoa(st.LiveBound),
			strconv.Itoa(st.PeakBodies),
			strconv.Itoa(st.Jumps),
			strconv.Itoa(st.ObstacleHits),
			status,
		})
	}

	columns := make([]string, len(header))
	for c := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cell := cellStyle.Render(row[c])
			if i == 0 {
				cell = headerStyle.Inherit(cellStyle).Render(row[c])
			}
			cells[i] = cell
		}
		columns[c] = lipgloss.JoinVertical(lipgloss.Right, cells...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
