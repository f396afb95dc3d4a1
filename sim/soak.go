package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/milk9111/truckrun/common"
	"github.com/milk9111/truckrun/prefabs"
	"golang.org/x/sync/errgroup"
)

var ErrBoundExceeded = errors.New("sim: live obstacle bound exceeded")

// SoakOptions configures a batch of headless sessions. Session i uses
// Seed+i so every run in the batch takes a different course.
type SoakOptions struct {
	Sessions       int
	Seconds        float64
	Seed           int64
	Level          *prefabs.LevelSpec
	Vehicle        *prefabs.VehicleSpec
	Autopilot      []byte
	ViewportWidth  float64
	ViewportHeight float64
	Logger         *log.Logger
}

type SoakResult struct {
	Index   int
	Seed    int64
	Session string
	Stats   Stats
}

func (r SoakResult) WithinBound() bool {
	return r.Stats.PeakLive <= r.Stats.LiveBound
}

// Soak runs every session to completion at the nominal frame rate, one
// goroutine per session. Results are ordered by index. A construction error
// or cancellation stops the batch; bound violations are reported after all
// sessions finish.
func Soak(ctx context.Context, opts SoakOptions) ([]SoakResult, error) {
	if opts.Sessions <= 0 {
		opts.Sessions = 1
	}
	ticks := int(math.Ceil(opts.Seconds * common.TPS))
	results := make([]SoakResult, opts.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Sessions; i++ {
		g.Go(func() error {
			seed := opts.Seed + int64(i)
			s, err := New(Options{
				Level:          opts.Level,
				Vehicle:        opts.Vehicle,
				Seed:           seed,
				Autopilot:      opts.Autopilot,
				ViewportWidth:  opts.ViewportWidth,
				ViewportHeight: opts.ViewportHeight,
				Logger:         opts.Logger,
			})
			if err != nil {
				return fmt.Errorf("soak %d: %w", i, err)
			}
			for t := 0; t < ticks; t++ {
				if t%common.TPS == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				s.Tick(common.FrameMs)
			}
			results[i] = SoakResult{Index: i, Seed: seed, Session: s.ID.String(), Stats: s.Stats()}
			s.Logger().Debug("soak finished", "distance", results[i].Stats.Distance, "peak_live", results[i].Stats.PeakLive)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, r := range results {
		if !r.WithinBound() {
			return results, fmt.Errorf("%w: session %d peaked at %d, bound %d", ErrBoundExceeded, r.Index, r.Stats.PeakLive, r.Stats.LiveBound)
		}
	}
	return results, nil
}
