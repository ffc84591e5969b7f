package app

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

var (
	hudText     = color.RGBA{R: 220, G: 230, B: 220, A: 255}
	messageText = color.RGBA{R: 255, G: 120, B: 90, A: 255}
	promptText  = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	panelFill   = color.RGBA{R: 0, G: 0, B: 0, A: 190}
)

type hud struct {
	small *text.GoTextFace
	large *text.GoTextFace
}

func newHUD() (*hud, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	return &hud{
		small: &text.GoTextFace{Source: src, Size: 16},
		large: &text.GoTextFace{Source: src, Size: 36},
	}, nil
}

func (h *hud) print(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color, alpha float64, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.PrimaryAlign = align
	op.LineSpacing = face.Size * 1.3
	text.Draw(dst, s, face, op)
}

func (h *hud) draw(screen *ebiten.Image, a *App) {
	w := float64(a.opts.Width)
	sim := a.sim
	hero := sim.Hero()

	status := fmt.Sprintf("SCORE %d    LIVES %d    AMMO %d", sim.Score(), hero.Lives(), hero.Bullets())
	h.print(screen, status, h.small, 12, 10, hudText, 1, text.AlignStart)

	// Messages stack downward from the top centre and fade out.
	y := a.view.oy + 20
	for _, m := range sim.Messages() {
		h.print(screen, m.Text, h.large, w/2, y, messageText, sim.MessageOpacity(m), text.AlignCenter)
		y += h.large.Size * 1.3
	}

	if sim.State() == game.StateAwaitStart {
		h.drawStartPanel(screen, a)
	}

	if a.showDebug {
		report := sim.DebugReport()
		lines := strings.Count(report, "\n") + 1
		vector.DrawFilledRect(screen, 8, 34, 430, float32(lines)*16+12, panelFill, false)
		ebitenutil.DebugPrintAt(screen, report, 14, 40)
	}

	if a.flashTicks > 0 {
		h.print(screen, a.flash, h.small, w-12, 10, promptText, float64(a.flashTicks)/120, text.AlignEnd)
	}

	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("TPS %.0f  FPS %.0f  [F3] debug  [C] copy report", ebiten.ActualTPS(), ebiten.ActualFPS()),
		12, a.opts.Height-20)
}

func (h *hud) drawStartPanel(screen *ebiten.Image, a *App) {
	w, hh := float64(a.opts.Width), float64(a.opts.Height)
	pw, ph := 420.0, 110.0+float64(len(a.best))*22
	px, py := (w-pw)/2, hh/2-ph/2
	vector.DrawFilledRect(screen, float32(px), float32(py), float32(pw), float32(ph), panelFill, false)

	h.print(screen, "Press Enter to start", h.large, w/2, py+14, promptText, 1, text.AlignCenter)
	h.print(screen, "arrows / WASD move, Space fires", h.small, w/2, py+62, hudText, 1, text.AlignCenter)

	for i, r := range a.best {
		line := fmt.Sprintf("%d.  %3d kills  %6d ticks  %s", i+1, r.Score, r.Ticks, r.FinishedAt.Format("2006-01-02"))
		h.print(screen, line, h.small, w/2, py+96+float64(i)*22, hudText, 1, text.AlignCenter)
	}
}
