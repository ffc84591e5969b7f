package game

import "math"

const (
	twoPi  = 2 * math.Pi
	halfPi = 0.5 * math.Pi
)

// Vec3 is a world-space point. Y is vertical; X/Z form the ground plane used
// for every distance and angle calculation.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Transform is an entity's position plus orientation. Yaw is the rotation
// about the vertical axis; Tilt is only used by monsters for the pursuit lean.
type Transform struct {
	Pos  Vec3
	Yaw  float64
	Tilt float64
}

// ClampPi wraps th into (-π, π].
func ClampPi(th float64) float64 {
	th = math.Mod(th, twoPi)
	if th > math.Pi {
		th -= twoPi
	}
	if th <= -math.Pi {
		th += twoPi
	}
	return th
}

// DistanceXZ is the ground-plane distance between p and q.
func DistanceXZ(p, q Vec3) float64 {
	return math.Hypot(p.X-q.X, p.Z-q.Z)
}

// BearingXZ is the ground-plane angle of the ray from p to q.
func BearingXZ(p, q Vec3) float64 {
	return math.Atan2(q.Z-p.Z, q.X-p.X)
}

// NudgeTowardsXZ moves p a distance ds toward q in the ground plane, keeping
// p's height. A zero-length ray leaves p where it is.
func NudgeTowardsXZ(p, q Vec3, ds float64) Vec3 {
	dx := q.X - p.X
	dz := q.Z - p.Z
	d := math.Hypot(dx, dz)
	if d < 1e-12 {
		return p
	}
	return Vec3{X: p.X + dx/d*ds, Y: p.Y, Z: p.Z + dz/d*ds}
}
