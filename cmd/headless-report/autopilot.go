package main

import (
	"math"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

const (
	turnTolerance = 0.05 // radians of aim error left uncorrected
	walkCone      = 0.6  // only walk when the target is roughly ahead
	standOff      = 0.8  // fraction of shot radius to close in to
	stuckTicks    = 60
	unstickTicks  = 30
)

// autopilot plays the hero: hunt the nearest live monster while armed,
// otherwise walk to the nearest ammo dump that will pay out.
type autopilot struct {
	firedLast bool
	lastPos   game.Vec3
	still     int
	unstick   int
}

// plan writes this tick's key state into keys.
func (ap *autopilot) plan(sim *game.Simulator, keys *game.Keyboard) {
	keys.Reset()
	if sim.State() != game.StatePlaying {
		ap.firedLast = false
		return
	}

	hero := sim.Hero()
	pos := hero.Position()
	p := sim.Params()

	if ap.unstick > 0 {
		ap.unstick--
		keys.Set(game.KeyRight, true)
		keys.Set(game.KeyDown, ap.unstick > unstickTicks/2)
		return
	}

	target, isMonster, ok := ap.pickTarget(sim)
	if !ok {
		return
	}

	dist := game.DistanceXZ(pos, target)
	aimErr := game.ClampPi(game.BearingXZ(pos, target) - hero.ViewAngle())
	switch {
	case aimErr > turnTolerance:
		keys.Set(game.KeyLeft, true)
	case aimErr < -turnTolerance:
		keys.Set(game.KeyRight, true)
	}

	reach := 0.0
	if isMonster {
		reach = standOff * p.ShotRadius
	}
	walking := math.Abs(aimErr) < walkCone && dist > reach
	keys.Set(game.KeyUp, walking)

	if isMonster && !ap.firedLast && math.Abs(aimErr) < 0.8*p.ShotAngle && dist < p.ShotRadius {
		keys.Set(game.KeyFire, true)
		ap.firedLast = true
	} else {
		ap.firedLast = false
	}

	if walking && game.DistanceXZ(pos, ap.lastPos) < 1e-6 {
		ap.still++
		if ap.still >= stuckTicks {
			ap.still = 0
			ap.unstick = unstickTicks
		}
	} else {
		ap.still = 0
	}
	ap.lastPos = pos
}

func (ap *autopilot) pickTarget(sim *game.Simulator) (game.Vec3, bool, bool) {
	pos := sim.Hero().Position()
	best, bestD, found := game.Vec3{}, math.Inf(1), false

	if sim.Hero().Bullets() > 0 {
		for _, m := range sim.Monsters() {
			if !m.Shootable() || m.PerishPending() {
				continue
			}
			if d := game.DistanceXZ(pos, m.Position()); d < bestD {
				best, bestD, found = m.Position(), d, true
			}
		}
		if found {
			return best, true, true
		}
	}

	seq := sim.Sequences()
	for _, d := range sim.AmmoDumps() {
		if !d.Available(seq.Ammo) {
			continue
		}
		if dd := game.DistanceXZ(pos, d.Home()); dd < bestD {
			best, bestD, found = d.Home(), dd, true
		}
	}
	return best, false, found
}
