// truckrun is a side-scrolling physics driving game.
//
// Usage:
//
//	truckrun                 - Play (keyboard, on-screen buttons, or --autopilot)
//	truckrun soak            - Run headless autopilot sessions and check the obstacle bound
//
// Global flags:
//
//	--variant <name>        - simple (truck) or composite (buggy)
//	--seed <value>          - Integer or phrase; the same seed gives the same course
//	--config <file>         - Level tuning file, YAML or TOML
//	--vehicle-config <file> - Vehicle tuning file, YAML or TOML
//	--debug                 - Debug logging, physics overlay and HUD
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/truckrun/common"
	"github.com/milk9111/truckrun/sim"
	"github.com/spf13/cobra"
)

var (
	flagVariant       string
	flagSeed          string
	flagConfig        string
	flagVehicleConfig string
	flagDebug         bool
	flagWatch         bool
	flagAutopilot     string
	flagWidth         int
	flagHeight        int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "truckrun",
	Short: "Drive a truck over an endless stream of obstacles",
	Long: `truckrun is a side-scrolling physics driving game. Hold right to drive,
left to brake and reverse, and space to jump while on the ground.

Examples:
  truckrun
  truckrun --variant composite --seed "red barn"
  truckrun --autopilot --debug
  truckrun soak --sessions 8 --seconds 120`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagVariant, "variant", "simple", "Vehicle variant (simple or composite)")
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "Course seed, integer or phrase (empty = time based)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Level tuning file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagVehicleConfig, "vehicle-config", "", "Vehicle tuning file (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug logging, physics overlay and HUD")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", common.DefaultScreenWidth, "Window or viewport width")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", common.DefaultScreenHeight, "Window or viewport height")

	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload tuning files when they change")
	rootCmd.Flags().StringVar(&flagAutopilot, "autopilot", "", "Drive with a tengo script (bare flag uses the built-in one)")
	rootCmd.Flags().Lookup("autopilot").NoOptDefVal = defaultAutopilot

	rootCmd.AddCommand(soakCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "truckrun",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func seed() int64 {
	if flagSeed == "" {
		return time.Now().UnixNano()
	}
	return sim.ParseSeed(flagSeed)
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	level, vehicle, err := loadSpecs()
	if err != nil {
		return err
	}
	script, err := loadAutopilot(flagAutopilot)
	if err != nil {
		return err
	}

	session, err := sim.New(sim.Options{
		Level:          level,
		Vehicle:        vehicle,
		Seed:           seed(),
		Autopilot:      script,
		ViewportWidth:  float64(flagWidth),
		ViewportHeight: float64(flagHeight),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	game := NewGame(session, logger, flagDebug)
	if flagWatch {
		if err := game.Watch(watchPaths()...); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer game.Close()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(flagWidth, flagHeight)
	ebiten.SetWindowTitle(common.WindowTitle)
	ebiten.SetTPS(common.TPS)

	return ebiten.RunGame(game)
}
