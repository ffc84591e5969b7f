package game

import "math"

// Rand is the random source used by monster decisions. *rand.Rand satisfies
// it; tests may script the values.
type Rand interface {
	Float64() float64
}

// Sequences are the simulation's monotonic gate counters. The simulator owns
// them and hands out copies, so every read within a tick sees the same values.
type Sequences struct {
	Ammo  int // advances on kills and on running out of ammo; gates ammo dumps
	Spawn int // advances on kills; gates monster respawns
}

// Costume selects the monster's texture.
type Costume int

const (
	CostumeNormal Costume = iota
	CostumeSplatted
)

func (c Costume) String() string {
	if c == CostumeSplatted {
		return "splatted"
	}
	return "normal"
}

// monsterSignal is a request posted to a monster from outside its own step.
type monsterSignal int

const (
	signalNone monsterSignal = iota
	signalPerish
)

// MonsterDescriptor is the static description of one monster slot.
type MonsterDescriptor struct {
	Name  string  `yaml:"name"`
	Scale float64 `yaml:"scale"`
	Home  Vec3    `yaml:"home"`
}

// Monster is a zombie that guards the territory around its home.
type Monster struct {
	Name  string
	Scale float64

	transform Transform
	home      Vec3
	hero      *Hero
	params    Params
	rng       Rand

	shootable bool
	costume   Costume
	inbox     monsterSignal // depth-1: drained at the top of Step
	behaviour behaviour
}

// NewMonster creates a monster for d that hunts hero. Call Reset before the
// first tick.
func NewMonster(d MonsterDescriptor, hero *Hero, p Params, rng Rand) *Monster {
	return &Monster{
		Name:      d.Name,
		Scale:     d.Scale,
		transform: Transform{Pos: d.Home},
		home:      d.Home,
		hero:      hero,
		params:    p,
		rng:       rng,
	}
}

// Reset puts the monster back on its initial patrol.
func (m *Monster) Reset() {
	m.shootable = true
	m.inbox = signalNone
	m.costume = CostumeNormal
	m.behaviour = newPatrol(m.params, m.params.InitialPatrolFrom, m.params.InitialPatrolTo)
}

// Step advances the behaviour by one tick. A pending perish request replaces
// whatever the monster was doing before the step runs.
func (m *Monster) Step(seq Sequences) {
	if m.inbox == signalPerish {
		m.behaviour = perish{}
		m.inbox = signalNone
		m.shootable = false
	}
	if m.behaviour == nil {
		panic("monster " + m.Name + " stepped without a behaviour; call Reset first")
	}
	m.behaviour = m.behaviour.step(m, seq)
}

// OnShotAt resolves a shot fired by the hero. A hit queues the switch to
// Perish for the next Step and reports true. Nothing between hero and monster
// is checked for occlusion.
func (m *Monster) OnShotAt() bool {
	if !m.shootable {
		return false
	}
	angleDiff := ClampPi(math.Pi + m.hero.ViewAngle() - m.AngleToHero())
	if m.DistanceToHero() < m.params.ShotRadius && math.Abs(angleDiff) < m.params.ShotAngle {
		m.inbox = signalPerish
		return true
	}
	return false
}

func (m *Monster) splat()   { m.costume = CostumeSplatted }
func (m *Monster) unsplat() { m.costume = CostumeNormal }

func (m *Monster) uprightPose() {
	m.transform.Pos.Y = 0
	m.transform.Tilt = 0
}

// State is the kind of the current behaviour.
func (m *Monster) State() BehaviourKind {
	if m.behaviour == nil {
		return BehaviourNone
	}
	return m.behaviour.kind()
}

// Position is the monster's current position.
func (m *Monster) Position() Vec3 { return m.transform.Pos }

// Transform is the monster's current transform.
func (m *Monster) Transform() Transform { return m.transform }

// Home is the centre of the monster's territory.
func (m *Monster) Home() Vec3 { return m.home }

// Shootable reports whether a shot can currently hit the monster.
func (m *Monster) Shootable() bool { return m.shootable }

// PerishPending reports whether a hit is waiting to be applied.
func (m *Monster) PerishPending() bool { return m.inbox == signalPerish }

// Costume is the texture the presentation layer should use.
func (m *Monster) Costume() Costume { return m.costume }

// AngleToHero is the ground-plane bearing from the monster to the hero.
func (m *Monster) AngleToHero() float64 {
	return BearingXZ(m.transform.Pos, m.hero.Position())
}

// AngleToHome is the ground-plane bearing from the monster to its home.
func (m *Monster) AngleToHome() float64 {
	return BearingXZ(m.transform.Pos, m.home)
}

// DistanceToHero is the ground-plane distance to the hero.
func (m *Monster) DistanceToHero() float64 {
	return DistanceXZ(m.hero.Position(), m.transform.Pos)
}

// DistanceHeroHome is how far the hero is from the monster's home.
func (m *Monster) DistanceHeroHome() float64 {
	return DistanceXZ(m.hero.Position(), m.home)
}

// DistanceToHome is how far the monster has strayed from home.
func (m *Monster) DistanceToHome() float64 {
	return DistanceXZ(m.transform.Pos, m.home)
}

// place moves the monster without changing its behaviour. Used by harnesses.
func (m *Monster) place(t Transform) {
	m.transform = t
}

// setBehaviour forces the behaviour. Used by harnesses.
func (m *Monster) setBehaviour(b behaviour) {
	m.behaviour = b
}
