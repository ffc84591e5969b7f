package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func hasMessage(ts *TestSim, text string) bool {
	for _, m := range ts.Sim.Messages() {
		if m.Text == text {
			return true
		}
	}
	return false
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestSimulator_AwaitsStartSignal(t *testing.T) {
	sim := NewSimulator(OpenMask(64, 64), DefaultWorld(), &Keyboard{},
		WithRand(rand.New(rand.NewSource(1))), // #nosec G404 -- test
		WithLogger(zerolog.Nop()),
	)
	for i := 0; i < 10; i++ {
		sim.Step()
	}
	if sim.State() != StateAwaitStart || sim.Tick() != 10 {
		t.Fatalf("state=%s tick=%d, want await-start/10", sim.State(), sim.Tick())
	}
	if sim.RunID() != "" {
		t.Fatal("a run started without the start signal")
	}

	sim.Start()
	sim.Step()
	if sim.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", sim.State())
	}
	p := sim.Params()
	if sim.Hero().Lives() != p.StartLives || sim.Hero().Bullets() != p.StartBullets {
		t.Fatalf("lives=%d bullets=%d after start", sim.Hero().Lives(), sim.Hero().Bullets())
	}
	if sim.Sequences() != (Sequences{Ammo: 1, Spawn: 1}) || sim.Score() != 0 {
		t.Fatalf("seq=%+v score=%d after start", sim.Sequences(), sim.Score())
	}
	if len(sim.Monsters()) != 5 || len(sim.AmmoDumps()) != 2 {
		t.Fatalf("reference world has %d monsters, %d dumps", len(sim.Monsters()), len(sim.AmmoDumps()))
	}
	for _, m := range sim.Monsters() {
		if m.State() != BehaviourPatrol {
			t.Fatalf("%s starts in %s, want patrol", m.Name, m.State())
		}
	}
	if !hasEvent(sim.DrainEvents(), EventGameStarted) {
		t.Fatal("no game-started event")
	}
	if len(sim.DrainEvents()) != 0 {
		t.Fatal("drain did not empty the queue")
	}
}

func TestSimulator_ShotWithLastBulletKillsAlignedMonster(t *testing.T) {
	ts := NewTestSim(WithMonsterAt("Red-zombie", 10, 10))
	defer dumpLog(t, ts)
	m := ts.Monster("Red-zombie")
	m.place(Transform{Pos: Vec3{X: 2}})
	ts.Sim.Hero().bullets = 1
	ts.AimAt(2, 0)

	ts.Press(KeyFire)
	ts.Sim.Step()

	if b := ts.Sim.Hero().Bullets(); b != 0 {
		t.Fatalf("bullets = %d, want 0", b)
	}
	if !ts.SimLog.HasEntry("hero", "ammo_exhausted", "") {
		t.Fatal("no ammo-exhausted signal")
	}
	if ts.Sim.Score() != 1 {
		t.Fatalf("score = %d, want 1", ts.Sim.Score())
	}
	// One bump for running dry, one for the kill.
	if seq := ts.Sim.Sequences(); seq != (Sequences{Ammo: 3, Spawn: 2}) {
		t.Fatalf("seq = %+v, want {3 2}", seq)
	}
	if m.State() != BehaviourPerish || m.Shootable() {
		t.Fatalf("monster state=%s shootable=%v, want perish/false", m.State(), m.Shootable())
	}
	if !hasMessage(ts, MsgSplatted) || hasMessage(ts, MsgMissed) {
		t.Fatalf("messages = %+v", ts.Sim.Messages())
	}
	if ts.SimLog.CountCategory("monster", "killed") != 1 {
		t.Fatalf("log:\n%s", ts.SimLog.Format())
	}
}

func TestSimulator_OneShotCanKillTwo(t *testing.T) {
	ts := NewTestSim(WithMonsterAt("A", 10, 10), WithMonsterAt("B", -10, 10))
	ts.Monster("A").place(Transform{Pos: Vec3{X: 2}})
	ts.Monster("B").place(Transform{Pos: Vec3{X: 2.5, Z: 0.1}})
	ts.AimAt(2, 0)

	ts.Fire()

	if ts.Sim.Score() != 2 || ts.Sim.Sequences().Spawn != 3 {
		t.Fatalf("score=%d seq=%+v, want 2 kills", ts.Sim.Score(), ts.Sim.Sequences())
	}
}

func TestSimulator_MissedAndNoAmmo(t *testing.T) {
	ts := NewTestSim()
	ts.Fire()
	if !hasMessage(ts, MsgMissed) {
		t.Fatal("missed shot showed no message")
	}
	if b := ts.Sim.Hero().Bullets(); b != 2 {
		t.Fatalf("bullets = %d, want 2", b)
	}

	ts.Sim.Hero().bullets = 0
	seq := ts.Sim.Sequences()
	ts.Fire()
	if !hasMessage(ts, MsgNoAmmo) {
		t.Fatal("dry fire showed no message")
	}

	// A second dry fire while the message is still up is logged but not re-shown.
	ts.Fire()
	if n := ts.SimLog.CountCategory("hero", "dry_fire"); n != 2 {
		t.Fatalf("dry fires logged = %d, want 2", n)
	}
	if n := ts.SimLog.CountCategory("message", "launch"); n != 2 {
		t.Fatalf("messages launched = %d, want 2 (missed, no ammo)", n)
	}
	if ts.Sim.Hero().Bullets() != 0 || ts.Sim.Sequences() != seq {
		t.Fatalf("dry fire changed state: bullets=%d seq=%+v", ts.Sim.Hero().Bullets(), ts.Sim.Sequences())
	}
	if st := ts.Sim.Stats(); st.Shots != 1 || st.Misses != 1 || st.Kills != 0 {
		t.Fatalf("stats = %+v, want one missed shot", st)
	}
}

func TestSimulator_FireIsEdgeTriggered(t *testing.T) {
	ts := NewTestSim()
	ts.Press(KeyFire)
	ts.RunTicks(5)
	if b := ts.Sim.Hero().Bullets(); b != 2 {
		t.Fatalf("holding fire spent %d bullets, want 1", 3-b)
	}
	ts.Release(KeyFire)
	ts.RunTicks(1)
	ts.Fire()
	if b := ts.Sim.Hero().Bullets(); b != 1 {
		t.Fatalf("bullets = %d, want 1", b)
	}
}

func TestSimulator_CaptureCostsLife(t *testing.T) {
	ts := NewTestSim(WithMonsterAt("Red-zombie", 5, 5))
	m := ts.Monster("Red-zombie")
	ts.PlaceHero(5, 5.1, 0)
	m.place(Transform{Pos: Vec3{X: 5, Z: 5}})
	m.setBehaviour(pursuit{})

	ts.Sim.Step()

	if l := ts.Sim.Hero().Lives(); l != 2 {
		t.Fatalf("lives = %d, want 2", l)
	}
	if m.State() != BehaviourRespawn {
		t.Fatalf("monster state = %s, want respawn", m.State())
	}
	if ts.Sim.Hero().Position() != ts.Sim.Hero().Home().Pos {
		t.Fatalf("hero not sent home: %+v", ts.Sim.Hero().Position())
	}
	if !hasMessage(ts, MsgCaught) {
		t.Fatal("no caught message")
	}
	if !ts.SimLog.HasEntry("monster", "state", "pursuit → respawn") {
		t.Fatalf("transition not logged:\n%s", ts.SimLog.Format())
	}
	if n := ts.SimLog.CountCategory("hero", "caught"); n != 1 {
		t.Fatalf("caught entries = %d, want 1", n)
	}
}

func TestSimulator_PursuerReturnsHome(t *testing.T) {
	ts := NewTestSim(WithMonsterAt("Red-zombie", 5, 5))
	m := ts.Monster("Red-zombie")
	m.place(Transform{Pos: Vec3{X: 5, Z: 3}})
	m.setBehaviour(pursuit{})

	ts.Sim.Step()
	if m.State() != BehaviourReturnToBase {
		t.Fatalf("hero outside territory, state = %s, want return_to_base", m.State())
	}

	tick := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Monster("Red-zombie").State() == BehaviourPatrol
	}, 300)
	if tick < 0 {
		t.Fatalf("monster never resumed patrol, at %+v", m.Position())
	}
	if m.DistanceToHome() > ts.Sim.Params().PatrolRadius+1e-6 {
		t.Fatalf("patrol resumed %.3f from home", m.DistanceToHome())
	}
}

func TestSimulator_GameOverAndRestart(t *testing.T) {
	ts := NewTestSim(WithMonsterAt("Red-zombie", 0, 3))
	m := ts.Monster("Red-zombie")
	firstRun := ts.Sim.RunID()

	for i := 0; i < 3; i++ {
		m.place(Transform{Pos: Vec3{Z: 0.1}})
		m.setBehaviour(pursuit{})
		ts.Sim.Step()
	}

	if ts.Sim.Hero().Lives() != 0 {
		t.Fatalf("lives = %d, want 0", ts.Sim.Hero().Lives())
	}
	if ts.Sim.State() != StateAwaitStart {
		t.Fatalf("state = %s, want await-start", ts.Sim.State())
	}
	events := ts.Sim.DrainEvents()
	if !hasEvent(events, EventGameOver) || !hasEvent(events, EventShowStartButton) {
		t.Fatal("game over not announced")
	}
	if !hasMessage(ts, MsgGameOver) {
		t.Fatal("no GAME OVER message")
	}

	ts.RunTicks(10)
	if ts.Sim.State() != StateAwaitStart || ts.Sim.Hero().Lives() != 0 {
		t.Fatal("simulation kept playing after game over")
	}

	ts.Sim.Start()
	ts.Sim.Step()
	if ts.Sim.State() != StatePlaying || ts.Sim.Hero().Lives() != 3 {
		t.Fatalf("restart: state=%s lives=%d", ts.Sim.State(), ts.Sim.Hero().Lives())
	}
	if ts.Sim.RunID() == firstRun {
		t.Fatal("restart reused the run ID")
	}
	if len(ts.Sim.Messages()) != 0 {
		t.Fatalf("messages survived the restart: %+v", ts.Sim.Messages())
	}
}

func TestSimulator_AmmoDumpGatedBySequence(t *testing.T) {
	ts := NewTestSim(WithAmmoDumpAt("Tesco", 0.5, 0, 3))

	ts.Sim.Step()
	if b := ts.Sim.Hero().Bullets(); b != 6 {
		t.Fatalf("bullets = %d after first visit, want 6", b)
	}
	if !hasMessage(ts, "You got 3 more bullets") {
		t.Fatal("no pickup message")
	}

	ts.RunTicks(10)
	if b := ts.Sim.Hero().Bullets(); b != 6 {
		t.Fatalf("dump paid out again without a sequence change: %d", b)
	}

	// Emptying the magazine advances the ammo sequence and re-arms the dump.
	for i := 0; i < 6; i++ {
		ts.Fire()
	}
	if b := ts.Sim.Hero().Bullets(); b != 3 {
		t.Fatalf("bullets = %d, want 3 after re-plunder", b)
	}
	if d := ts.Sim.AmmoDumps()[0]; d.TimesLooted() != 2 {
		t.Fatalf("times looted = %d, want 2", d.TimesLooted())
	}
	if n := ts.SimLog.CountCategory("ammo", "plundered"); n != 2 {
		t.Fatalf("plunder log entries = %d", n)
	}
}

func TestSimulator_MessageExpires(t *testing.T) {
	ts := NewTestSim()
	ts.Fire()
	msgs := ts.Sim.Messages()
	if len(msgs) != 1 || ts.Sim.MessageOpacity(msgs[0]) >= 1 {
		t.Fatalf("messages = %+v", msgs)
	}

	ts.RunTicks(ts.Sim.Params().MessageTicks - 2)
	if !hasMessage(ts, MsgMissed) {
		t.Fatal("message expired early")
	}
	ts.RunTicks(1)
	if hasMessage(ts, MsgMissed) {
		t.Fatal("message outlived its display window")
	}
}

func TestSimulator_ReferenceWorldSoak(t *testing.T) {
	ts := NewTestSim(WithReferenceWorld(), WithSeed(7))
	rng := rand.New(rand.NewSource(99)) // #nosec G404 -- test
	p := ts.Sim.Params()

	run := ts.Sim.RunID()
	last := ts.Sim.Sequences()
	for i := 0; i < 4000; i++ {
		if i%20 == 0 {
			ts.Keys.Reset()
			for _, k := range []byte{KeyLeft, KeyUp, KeyRight, KeyDown, KeyFire} {
				ts.Keys.Set(k, rng.Float64() < 0.35)
			}
		}
		if ts.Sim.State() == StateAwaitStart {
			ts.Sim.Start()
		}
		ts.Sim.Step()

		h := ts.Sim.Hero()
		if h.Lives() < 0 || h.Lives() > p.StartLives || h.Bullets() < 0 {
			t.Fatalf("tick %d: lives=%d bullets=%d", ts.Sim.Tick(), h.Lives(), h.Bullets())
		}
		pos := h.Position()
		if !ts.Sim.Mask().IsWalkable(pos.X, pos.Z) {
			t.Fatalf("tick %d: hero on blocked ground %+v", ts.Sim.Tick(), pos)
		}
		seq := ts.Sim.Sequences()
		if ts.Sim.RunID() == run && (seq.Ammo < last.Ammo || seq.Spawn < last.Spawn) {
			t.Fatalf("tick %d: sequences went backwards %+v -> %+v", ts.Sim.Tick(), last, seq)
		}
		run, last = ts.Sim.RunID(), seq
		for _, m := range ts.Sim.Monsters() {
			if m.State() == BehaviourNone {
				t.Fatalf("tick %d: %s has no behaviour", ts.Sim.Tick(), m.Name)
			}
		}
	}
	dumpSummary(t, ts)
}

func TestSimulator_DebugReport(t *testing.T) {
	ts := NewTestSim(WithReferenceWorld())
	ts.RunTicks(5)
	r := ts.Sim.DebugReport()
	for _, want := range []string{"hero x=", "Green-zombie", "Yellow-zombie", "Tesco", "Lidl", "state=playing"} {
		if !strings.Contains(r, want) {
			t.Fatalf("report missing %q:\n%s", want, r)
		}
	}
}

// dumpLog prints the SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, e := range ts.SimLog.Entries() {
		t.Log(e.String())
	}
}

// dumpSummary prints the summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.SimLog.Summary(ts.Sim))
}

// firstTransition is the tick monster name first logged the state change
// value (e.g. "scan → patrol"), or -1.
func firstTransition(ts *TestSim, name, value string) int {
	for _, e := range ts.SimLog.Entries() {
		if e.Entity == name && e.Category == "monster" && e.Key == "state" && e.Value == value {
			return e.Tick
		}
	}
	return -1
}

func TestSimulator_ScanRepeatFollowsDraws(t *testing.T) {
	run := func(draw float64) int {
		ts := NewTestSim(
			WithScriptedRand(draw),
			WithHeroHome(15, 15, 0), // far outside the territory
			WithMonsterAt("Green-zombie", 0, 0),
		)
		defer dumpLog(t, ts)
		ts.RunTicks(800)
		tick := firstTransition(ts, "Green-zombie", "scan → patrol")
		if tick < 0 {
			t.Fatalf("draw %.1f: monster never went from scan to patrol", draw)
		}
		if firstTransition(ts, "Green-zombie", "patrol → scan") < 0 {
			t.Fatalf("draw %.1f: no initial patrol → scan", draw)
		}
		return tick
	}

	once := run(0.0)   // below the repeat chance: patrol after one sweep
	repeat := run(0.9) // at or above it: sweep back once more first
	if want := DefaultParams().scanSteps() + 1; repeat-once != want {
		t.Fatalf("repeated scan ended %d ticks later, want %d", repeat-once, want)
	}
}

func TestSimulator_WallStopsHero(t *testing.T) {
	// Walkable south of z=1, blocked north of it.
	mask := NewMaskBuilder(256, 256, testBounds).
		Rect(testBounds.X0, testBounds.Z0, testBounds.X1, testBounds.Z1, true).
		Rect(testBounds.X0, 1, testBounds.X1, testBounds.Z1, false).
		Build()
	ts := NewTestSim(
		WithMask(mask),
		WithVerbose(true),
		WithHeroHome(0, 0, 0), // facing +Z, toward the wall
	)
	defer dumpLog(t, ts)

	ts.Press(KeyUp)
	ts.RunTicks(200)
	ts.Release(KeyUp)

	pos := ts.Sim.Hero().Position()
	if pos.Z >= 1 || pos.Z < 0.8 {
		t.Fatalf("hero at z=%.3f, want stopped just short of the wall at z=1", pos.Z)
	}
	if !ts.Sim.Mask().IsWalkable(pos.X, pos.Z) {
		t.Fatalf("hero ended on a blocked pixel at %+v", pos)
	}
	if n := ts.SimLog.CountCategory("hero", "position"); n < 200 {
		t.Fatalf("verbose log holds %d hero positions, want one per tick", n)
	}

	// Turning still works against the wall.
	yaw := ts.Sim.Hero().Transform().Yaw
	ts.Press(KeyRight)
	ts.RunTicks(10)
	if ts.Sim.Hero().Transform().Yaw <= yaw {
		t.Fatal("hero could not turn while blocked")
	}
}
