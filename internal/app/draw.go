package app

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/zombie-patrol/internal/game"
	"github.com/Garsondee/zombie-patrol/internal/worldmap"
)

// maskThumbSize is the side of the cached mask image.
const maskThumbSize = 512

const (
	monsterBaseRadius = 5   // pixels at the reference scale
	monsterBaseScale  = 0.1 // descriptor scale of the reference zombies
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	borderColor     = color.RGBA{R: 65, G: 90, B: 65, A: 255}
	territoryColor  = color.RGBA{R: 120, G: 60, B: 60, A: 90}
	heroColor       = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	shotConeColor   = color.RGBA{R: 90, G: 170, B: 255, A: 90}
	dumpReady       = color.RGBA{R: 230, G: 200, B: 60, A: 255}
	dumpSpent       = color.RGBA{R: 110, G: 100, B: 60, A: 200}
	splatColor      = color.RGBA{R: 110, G: 20, B: 20, A: 220}
)

// behaviourColors tints monsters by what they are doing.
var behaviourColors = map[game.BehaviourKind]color.RGBA{
	game.BehaviourPatrol:       {R: 80, G: 160, B: 80, A: 255},
	game.BehaviourScan:         {R: 200, G: 200, B: 90, A: 255},
	game.BehaviourPursuit:      {R: 235, G: 70, B: 50, A: 255},
	game.BehaviourReturnToBase: {R: 200, G: 130, B: 60, A: 255},
	game.BehaviourPerish:       {R: 110, G: 20, B: 20, A: 255},
	game.BehaviourAwaitRespawn: {R: 60, G: 60, B: 60, A: 160},
	game.BehaviourRespawn:      {R: 120, G: 120, B: 160, A: 200},
}

// layers caches the static parts of the map.
type layers struct {
	mask *ebiten.Image
}

func newLayers(m *game.TraversabilityMask) *layers {
	return &layers{mask: ebiten.NewImageFromImage(worldmap.Thumbnail(m, maskThumbSize, maskThumbSize))}
}

func (a *App) drawWorld(screen *ebiten.Image) {
	v := a.view

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(v.size/maskThumbSize, v.size/maskThumbSize)
	op.GeoM.Translate(v.ox, v.oy)
	op.ColorScale.Scale(0.22, 0.30, 0.22, 1)
	screen.DrawImage(a.layers.mask, &op)
	vector.StrokeRect(screen, float32(v.ox)-1, float32(v.oy)-1, float32(v.size)+2, float32(v.size)+2, 2, borderColor, false)

	p := a.sim.Params()
	for _, m := range a.sim.Monsters() {
		hx, hy := v.toScreen(m.Home().X, m.Home().Z)
		vector.StrokeCircle(screen, hx, hy, v.scale(p.TerritoryRadius), 1, territoryColor, true)
	}

	seq := a.sim.Sequences()
	for _, d := range a.sim.AmmoDumps() {
		x, y := v.toScreen(d.Home().X, d.Home().Z)
		c := dumpSpent
		if d.Available(seq.Ammo) {
			c = dumpReady
		}
		vector.DrawFilledRect(screen, x-4, y-4, 8, 8, c, false)
		vector.StrokeCircle(screen, x, y, v.scale(p.PlunderRadius), 1, c, true)
	}

	for _, m := range a.sim.Monsters() {
		a.drawMonster(screen, m)
	}
	a.drawHero(screen)
}

func (a *App) drawMonster(screen *ebiten.Image, m *game.Monster) {
	v := a.view
	t := m.Transform()
	x, y := v.toScreen(t.Pos.X, t.Pos.Z)

	r := monsterRadius(m.Scale, t.Pos.Y)

	c := behaviourColors[m.State()]
	if m.Costume() == game.CostumeSplatted {
		c = splatColor
	}
	vector.DrawFilledCircle(screen, x, y, r, c, true)

	if m.Shootable() {
		fx, fy := v.ray(t.Pos.X, t.Pos.Z, monsterFacing(t.Yaw), 0.8)
		vector.StrokeLine(screen, x, y, fx, fy, 1.5, c, true)
	}
}

func (a *App) drawHero(screen *ebiten.Image) {
	if a.sim.State() != game.StatePlaying {
		return
	}
	v := a.view
	h := a.sim.Hero()
	pos := h.Position()
	aim := h.ViewAngle()
	p := a.sim.Params()
	x, y := v.toScreen(pos.X, pos.Z)

	for _, side := range []float64{-1, 1} {
		ex, ey := v.ray(pos.X, pos.Z, aim+side*p.ShotAngle, p.ShotRadius)
		vector.StrokeLine(screen, x, y, ex, ey, 1, shotConeColor, true)
	}
	fx, fy := v.ray(pos.X, pos.Z, aim, 1.0)
	vector.StrokeLine(screen, x, y, fx, fy, 2, heroColor, true)
	vector.DrawFilledCircle(screen, x, y, 6, heroColor, true)
}

// monsterRadius is the on-screen radius of a monster of the given descriptor
// scale standing at height y. Sinking monsters shrink with depth.
func monsterRadius(scale, y float64) float32 {
	if scale <= 0 {
		scale = monsterBaseScale
	}
	r := monsterBaseRadius * scale / monsterBaseScale
	if y < 0 {
		r *= 1 + y
	}
	return float32(math.Max(r, 1))
}
