package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/truckrun/common"
	"github.com/milk9111/truckrun/prefabs"
	"github.com/milk9111/truckrun/render"
	"github.com/milk9111/truckrun/sim"
)

// speedSmoothing is the per-frame blend factor for the HUD speed readout.
const speedSmoothing = 0.1

type Game struct {
	session *sim.Session
	logger  *log.Logger
	ui      *ebitenui.UI
	watcher *prefabs.Watcher
	debug   bool

	width, height float64
	lastX         float64
	speed         float64
}

func NewGame(session *sim.Session, logger *log.Logger, debug bool) *Game {
	return &Game{
		session: session,
		logger:  logger,
		ui:      NewTouchUI(session),
		debug:   debug,
		lastX:   session.Vehicle().X(),
	}
}

// Watch starts reloading tuning files from dirs.
func (g *Game) Watch(dirs ...string) error {
	if len(dirs) == 0 {
		g.logger.Warn("watch: no tuning directories on disk; edit ./prefabs to enable live reload")
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	g.logger.Info("watching tuning files", "dirs", dirs)
	return nil
}

func (g *Game) Close() error {
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	pollKeyboard(g.session)
	g.ui.Update()
	g.pollWatcher()

	g.session.Tick(common.FrameMs)

	x := g.session.Vehicle().X()
	g.speed = common.Lerp(g.speed, (x-g.lastX)*common.TPS, speedSmoothing)
	g.lastX = x
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("watch error", "err", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeTuning:
		level, vehicle, err := loadSpecs()
		if err != nil {
			g.logger.Error("reload failed; keeping current tuning", "path", change.Path, "err", err)
			return
		}
		g.logger.Info("tuning changed", "path", change.Path)
		g.session.ApplyTuning(level, vehicle)
	case prefabs.ChangeScript:
		g.logger.Info("autopilot script changed; restart to use it", "path", change.Path)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.session.Draw(render.NewEbitenSurface(screen))
	g.ui.Draw(screen)

	if !g.debug {
		return
	}
	offsetX, baseline := g.session.Camera()
	render.DrawPhysicsDebug(screen, g.session.Physics().Space(), offsetX, baseline)

	st := g.session.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS: %.1f  FPS: %.1f\nDistance: %.0f  Speed: %.0f px/s\nObstacles: %d/%d (peak %d)  Bodies: %d\nGrounded: %t  Jumps: %d  Hits: %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		st.Distance, g.speed,
		st.Live, st.LiveBound, st.PeakLive, st.Bodies,
		st.Grounded, st.Jumps, st.ObstacleHits,
	))
}

// LayoutF follows the window size so the world is never stretched. A change
// becomes a resize event for the next tick.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.session.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
