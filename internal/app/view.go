package app

import (
	"math"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

// view maps the ground plane onto a square on screen. Screen Y grows
// downward, so the world's maximum Z is at the top, matching mask rows.
type view struct {
	bounds game.WorldBounds
	ox, oy float64 // top-left of the square
	size   float64 // side length in pixels
}

func newView(bounds game.WorldBounds, screenW, screenH, margin int) view {
	side := math.Min(float64(screenW), float64(screenH)) - 2*float64(margin)
	if side < 1 {
		side = 1
	}
	return view{
		bounds: bounds,
		ox:     (float64(screenW) - side) / 2,
		oy:     (float64(screenH) - side) / 2,
		size:   side,
	}
}

// toScreen converts a ground-plane point to screen pixels.
func (v view) toScreen(x, z float64) (float32, float32) {
	b := v.bounds
	sx := v.ox + (x-b.X0)/(b.X1-b.X0)*v.size
	sy := v.oy + (b.Z1-z)/(b.Z1-b.Z0)*v.size
	return float32(sx), float32(sy)
}

// scale converts a world length to pixels.
func (v view) scale(d float64) float32 {
	return float32(d / (v.bounds.X1 - v.bounds.X0) * v.size)
}

// ray returns the screen end point of a ray of length d from (x, z) along
// the ground-plane angle th.
func (v view) ray(x, z, th, d float64) (float32, float32) {
	return v.toScreen(x+d*math.Cos(th), z+d*math.Sin(th))
}

// monsterFacing is the ground-plane angle a monster looks along, given its
// yaw.
func monsterFacing(yaw float64) float64 {
	return game.ClampPi(math.Pi - yaw)
}
