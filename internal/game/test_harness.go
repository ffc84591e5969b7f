package game

import (
	"fmt"
	"math/rand"
)

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a Simulator through a Keyboard with deterministic
// randomness and structured logging, and starts already playing.
type TestSim struct {
	Sim    *Simulator
	Keys   *Keyboard
	SimLog *SimLog

	mask   *TraversabilityMask
	world  World
	params Params
	rng    Rand
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, mask, params, verbose: applied first
	simOptWorld                      // hero home, monsters, dumps: applied once params are final
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// testBounds is the world rectangle of the reference level.
var testBounds = WorldBounds{X0: -20, Z0: -20, X1: 20, Z1: 20}

// OpenMask returns a mask over the reference bounds that is walkable
// everywhere.
func OpenMask(width, height int) *TraversabilityMask {
	return NewMaskBuilder(width, height, testBounds).
		Rect(testBounds.X0, testBounds.Z0, testBounds.X1, testBounds.Z1, true).
		Build()
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithScriptedRand makes every random draw return the next value of vals,
// repeating the last one when they run out.
func WithScriptedRand(vals ...float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = &scriptedRand{vals: vals}
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithMask replaces the default open mask.
func WithMask(m *TraversabilityMask) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.mask = m
	}}
}

// WithTestParams replaces the default tuning.
func WithTestParams(p Params) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.params = p
	}}
}

// WithReferenceWorld loads the full reference level.
func WithReferenceWorld() SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.world = DefaultWorld()
	}}
}

// WithHeroHome sets the hero's spawn transform.
func WithHeroHome(x, z, yaw float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.world.HeroHome = Transform{Pos: Vec3{X: x, Z: z}, Yaw: yaw}
	}}
}

// WithMonsterAt adds a monster whose territory is centred on (x, z).
func WithMonsterAt(name string, x, z float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.world.Monsters = append(ts.world.Monsters,
			MonsterDescriptor{Name: name, Scale: 0.1, Home: Vec3{X: x, Z: z}})
	}}
}

// WithAmmoDumpAt adds an ammo dump at (x, z) yielding bullets.
func WithAmmoDumpAt(tag string, x, z float64, bullets int) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.world.AmmoDumps = append(ts.world.AmmoDumps,
			AmmoDumpDescriptor{Tag: tag, Home: Vec3{X: x, Z: z}, Bullets: bullets})
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes
// (infrastructure, then world), builds the simulator and steps it once with
// the start signal so the returned sim is playing. The default world is empty
// with the hero at the origin facing +Z.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Keys:   &Keyboard{},
		SimLog: NewSimLog(false),
		params: DefaultParams(),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if ts.mask == nil {
		ts.mask = OpenMask(256, 256)
	}
	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(ts)
		}
	}

	ts.Sim = NewSimulator(ts.mask, ts.world, ts.Keys,
		WithParams(ts.params),
		WithRand(ts.rng),
		WithSimLog(ts.SimLog),
	)
	ts.Sim.Start()
	ts.Sim.Step()
	return ts
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Sim.Step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Sim.Step()
		if predicate(ts) {
			return ts.Sim.Tick()
		}
	}
	return -1
}

// Press holds a key down until Release.
func (ts *TestSim) Press(code byte) { ts.Keys.Set(code, true) }

// Release lets a key up.
func (ts *TestSim) Release(code byte) { ts.Keys.Set(code, false) }

// Fire presses the fire key for exactly one tick, then releases it and steps
// once more so the next Fire registers as a fresh edge.
func (ts *TestSim) Fire() {
	ts.Press(KeyFire)
	ts.Sim.Step()
	ts.Release(KeyFire)
	ts.Sim.Step()
}

// Monster returns the monster called name. It panics on an unknown name.
func (ts *TestSim) Monster(name string) *Monster {
	for _, m := range ts.Sim.Monsters() {
		if m.Name == name {
			return m
		}
	}
	panic(fmt.Sprintf("no monster named %q", name))
}

// PlaceHero teleports the hero without touching its momentum.
func (ts *TestSim) PlaceHero(x, z, yaw float64) {
	ts.Sim.Hero().place(Transform{Pos: Vec3{X: x, Z: z}, Yaw: yaw})
}

// AimAt turns the hero to face (x, z) from where it stands.
func (ts *TestSim) AimAt(x, z float64) {
	h := ts.Sim.Hero()
	t := h.Transform()
	bearing := BearingXZ(t.Pos, Vec3{X: x, Z: z})
	t.Yaw = ClampPi(halfPi - bearing)
	h.place(t)
}

// scriptedRand replays a fixed sequence of draws.
type scriptedRand struct {
	vals []float64
	i    int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[min(r.i, len(r.vals)-1)]
	r.i++
	return v
}
