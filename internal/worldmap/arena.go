package worldmap

import "github.com/Garsondee/zombie-patrol/internal/game"

// wallThickness is the blocked border around the arena, in world units.
const wallThickness = 0.5

// houses are the blocked buildings of the generated arena, as
// {x0, z0, x1, z1}. They keep clear of the reference spawn, monster
// territories' patrol rings and the ammo dumps.
var houses = [][4]float64{
	{-4, 3, -1, 6},
	{9, -6, 12, -3},
	{-14, -9, -10, -5},
	{8, 3, 11, 6},
	{0, 9, 3, 12},
	{-3, -12, 1, -9},
}

// DefaultArena generates the mask used when no mask file is configured: the
// whole bounds walkable, with a perimeter wall and a few houses.
func DefaultArena(width, height int, bounds game.WorldBounds) *game.TraversabilityMask {
	b := game.NewMaskBuilder(width, height, bounds).
		Rect(bounds.X0+wallThickness, bounds.Z0+wallThickness,
			bounds.X1-wallThickness, bounds.Z1-wallThickness, true)
	for _, h := range houses {
		b.Rect(h[0], h[1], h[2], h[3], false)
	}
	return b.Build()
}
