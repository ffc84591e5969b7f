// Package app runs the simulation in an ebiten window: keyboard in, a
// top-down view and HUD out.
package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/Garsondee/zombie-patrol/internal/game"
	"github.com/Garsondee/zombie-patrol/internal/scoreboard"
)

// hudMargin is the screen space kept around the map for the HUD.
const hudMargin = 40

// binding maps physical keys onto one simulation key code.
type binding struct {
	code byte
	keys []ebiten.Key
}

var bindings = []binding{
	{game.KeyLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{game.KeyUp, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{game.KeyRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
	{game.KeyDown, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{game.KeyFire, []ebiten.Key{ebiten.KeySpace}},
}

// Options configures an App.
type Options struct {
	Width, Height int
	Seed          int64
	Scores        *scoreboard.Board // nil disables score recording
	Log           zerolog.Logger
}

// App is the ebiten.Game driving a Simulator.
type App struct {
	sim    *game.Simulator
	keys   *game.Keyboard
	opts   Options
	log    zerolog.Logger
	view   view
	hud    *hud
	layers *layers

	showDebug  bool
	flash      string // short status line, e.g. after a clipboard copy
	flashTicks int
	best       []scoreboard.Record
}

// New wires an App around sim. keys must be the Keyboard sim reads from.
func New(sim *game.Simulator, keys *game.Keyboard, opts Options) (*App, error) {
	h, err := newHUD()
	if err != nil {
		return nil, err
	}
	a := &App{
		sim:    sim,
		keys:   keys,
		opts:   opts,
		log:    opts.Log,
		view:   newView(sim.Mask().Bounds, opts.Width, opts.Height, hudMargin),
		hud:    h,
		layers: newLayers(sim.Mask()),
	}
	a.refreshBest()
	return a, nil
}

// Update reads the keyboard and steps the simulation once.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, b := range bindings {
		down := false
		for _, k := range b.keys {
			if ebiten.IsKeyPressed(k) {
				down = true
				break
			}
		}
		a.keys.Set(b.code, down)
	}

	if a.sim.State() == game.StateAwaitStart && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.sim.Start()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.showDebug = !a.showDebug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyDebugReport()
	}

	a.sim.Step()
	a.handleEvents()

	if a.flashTicks > 0 {
		a.flashTicks--
	}
	return nil
}

func (a *App) handleEvents() {
	for _, ev := range a.sim.DrainEvents() {
		switch ev.Kind {
		case game.EventGameOver:
			a.recordScore(ev.Text, ev.Value)
		case game.EventMessageAdded:
			a.log.Debug().Str("text", ev.Text).Int("ticks", ev.Value).Msg("message")
		case game.EventGameStarted:
			a.log.Info().Str("run_id", ev.Text).Msg("new game")
		}
	}
}

func (a *App) recordScore(runID string, score int) {
	if a.opts.Scores == nil || runID == "" {
		return
	}
	st := a.sim.Stats()
	rec := scoreboard.Record{
		RunID:   runID,
		Source:  "game",
		Seed:    a.opts.Seed,
		Score:   score,
		Ticks:   a.sim.Tick() - st.StartTick,
		Shots:   st.Shots,
		Pickups: st.Pickups,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.opts.Scores.Save(ctx, rec); err != nil {
		a.log.Error().Err(err).Str("run_id", runID).Msg("could not record score")
		return
	}
	a.refreshBest()
}

func (a *App) refreshBest() {
	if a.opts.Scores == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	best, err := a.opts.Scores.Top(ctx, 5)
	if err != nil {
		a.log.Warn().Err(err).Msg("could not read scoreboard")
		return
	}
	a.best = best
}

func (a *App) copyDebugReport() {
	report := a.sim.DebugReport()
	if err := clipboard.WriteAll(report); err != nil {
		a.log.Warn().Err(err).Msg("clipboard copy failed")
		a.setFlash("clipboard unavailable")
		return
	}
	a.setFlash("debug report copied")
}

func (a *App) setFlash(s string) {
	a.flash = s
	a.flashTicks = 120
}

// Draw renders the map, entities and HUD.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.drawWorld(screen)
	a.hud.draw(screen, a)
}

// Layout keeps the configured logical screen size.
func (a *App) Layout(_, _ int) (int, int) {
	return a.opts.Width, a.opts.Height
}
