package game

import (
	"fmt"
	"math"
)

// DefaultHeroHome is the reference spawn transform.
var DefaultHeroHome = Transform{Pos: Vec3{X: 1.41, Y: 0.25, Z: 0.58}, Yaw: 3.51}

// Hero is the player entity.
type Hero struct {
	transform Transform
	home      Transform
	mask      *TraversabilityMask
	params    Params
	listener  heroListener

	lives        int
	bullets      int
	prevRotSpeed float64
	prevLinSpeed float64
}

// NewHero creates a hero that spawns at home and walks on mask. Call Reset
// before the first tick.
func NewHero(home Transform, mask *TraversabilityMask, p Params) *Hero {
	return &Hero{
		transform: home,
		home:      home,
		mask:      mask,
		params:    p,
		listener:  nopHeroListener{},
	}
}

func (h *Hero) setListener(l heroListener) {
	if l == nil {
		l = nopHeroListener{}
	}
	h.listener = l
}

// Reset restores momentum and ammo and starts the first life at home.
func (h *Hero) Reset() {
	h.prevRotSpeed = 0
	h.prevLinSpeed = 0
	h.bullets = h.params.StartBullets
	h.listener.onBulletsChanged(h.bullets)

	// Start one life up and spend it, so "life start" stays in LoseLife.
	h.lives = h.params.StartLives + 1
	h.LoseLife(false)
}

// goHome teleports the hero to its spawn transform.
func (h *Hero) goHome() {
	h.transform = h.home
}

// MoveStep turns and walks the hero according to the held keys. Turning
// always happens; walking only when the destination is walkable.
func (h *Hero) MoveStep(keys KeySource) {
	rotSpeed := 0.0
	if keys.Down(KeyLeft) {
		rotSpeed -= h.params.RotAccel
	}
	if keys.Down(KeyRight) {
		rotSpeed += h.params.RotAccel
	}
	if rotSpeed == 0 {
		rotSpeed = h.params.MomentumDecay * h.prevRotSpeed
	}
	h.prevRotSpeed = rotSpeed

	linSpeed := 0.0
	if keys.Down(KeyUp) {
		linSpeed += h.params.LinAccel
	}
	if keys.Down(KeyDown) {
		linSpeed -= h.params.LinAccel
	}
	if linSpeed == 0 {
		linSpeed = h.params.MomentumDecay * h.prevLinSpeed
	}
	h.prevLinSpeed = linSpeed

	yaw := h.transform.Yaw
	next := h.transform.Pos.Add(Vec3{X: linSpeed * math.Sin(yaw), Z: linSpeed * math.Cos(yaw)})
	if h.mask.IsWalkable(next.X, next.Z) {
		h.transform.Pos = next
	}

	h.transform.Yaw = ClampPi(yaw + rotSpeed)
}

// Shoot spends a bullet. It returns false, and leaves the ammo alone, when
// the hero has none.
func (h *Hero) Shoot() bool {
	if h.bullets == 0 {
		h.listener.onNoAmmo()
		return false
	}
	h.bullets--
	if h.bullets < 0 {
		panic(fmt.Sprintf("hero bullets went negative: %d", h.bullets))
	}
	h.listener.onBulletsChanged(h.bullets)
	if h.bullets == 0 {
		h.listener.onAmmoExhausted()
	}
	return true
}

// AddBullets grants n bullets.
func (h *Hero) AddBullets(n int) {
	if n < 0 {
		panic(fmt.Sprintf("negative bullet grant: %d", n))
	}
	h.bullets += n
	h.listener.onBulletsChanged(h.bullets)
	if n > 0 {
		h.listener.launchMessage(fmt.Sprintf("You got %d more bullets", n))
	}
}

// LoseLife spends a life. While lives remain the hero respawns at home;
// losing the last one ends the game. A hero with no lives left is ignored.
func (h *Hero) LoseLife(withMessage bool) {
	if h.lives == 0 {
		return
	}
	h.lives--
	h.listener.onLivesChanged(h.lives)

	if h.lives > 0 {
		h.goHome()
		if withMessage {
			h.listener.launchMessage(MsgCaught)
		}
		return
	}
	h.listener.onAllLivesLost()
}

// Position is the hero's current position.
func (h *Hero) Position() Vec3 { return h.transform.Pos }

// Transform is the hero's current transform.
func (h *Hero) Transform() Transform { return h.transform }

// Home is the hero's spawn transform.
func (h *Hero) Home() Transform { return h.home }

// Lives left.
func (h *Hero) Lives() int { return h.lives }

// Bullets held.
func (h *Hero) Bullets() int { return h.bullets }

// ViewAngle is the hero's facing expressed as an angle in the ground plane.
func (h *Hero) ViewAngle() float64 {
	return ClampPi(halfPi - h.transform.Yaw)
}

// Mask is the traversability mask the hero walks on.
func (h *Hero) Mask() *TraversabilityMask { return h.mask }

// place puts the hero at t without touching momentum. Used by harnesses.
func (h *Hero) place(t Transform) {
	h.transform = t
}
