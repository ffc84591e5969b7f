package game

import (
	"math"
	"testing"
)

// newLoneMonster builds a monster at home with a hero parked at heroPos.
func newLoneMonster(t *testing.T, home, heroPos Vec3, draws ...float64) (*Monster, *Hero) {
	t.Helper()
	p := DefaultParams()
	h := NewHero(Transform{Pos: heroPos}, OpenMask(64, 64), p)
	h.Reset()
	m := NewMonster(MonsterDescriptor{Name: "Test-zombie", Scale: 0.1, Home: home}, h, p, &scriptedRand{vals: draws})
	m.Reset()
	return m, h
}

func TestMonsterStepWithoutResetPanics(t *testing.T) {
	h := NewHero(Transform{}, OpenMask(64, 64), DefaultParams())
	m := NewMonster(MonsterDescriptor{Name: "Test-zombie"}, h, DefaultParams(), &scriptedRand{})
	defer func() {
		if recover() == nil {
			t.Fatal("stepping without a behaviour should panic")
		}
	}()
	m.Step(Sequences{Ammo: 1, Spawn: 1})
}

func TestPatrol_ReachesScanAfterExactSteps(t *testing.T) {
	p := DefaultParams()
	m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15}, 0.9)
	seq := Sequences{Ammo: 1, Spawn: 1}

	steps := int((p.InitialPatrolTo - p.InitialPatrolFrom) / p.PatrolSpeed)
	for i := 0; i < steps; i++ {
		m.Step(seq)
		if m.State() != BehaviourPatrol {
			t.Fatalf("left patrol early at step %d/%d: %s", i+1, steps, m.State())
		}
		if d := m.DistanceToHome(); math.Abs(d-p.PatrolRadius) > 1e-9 {
			t.Fatalf("step %d: patrol radius %.4f, want %.4f", i+1, d, p.PatrolRadius)
		}
	}
	m.Step(seq)
	if m.State() != BehaviourScan {
		t.Fatalf("after %d patrol steps state = %s, want scan", steps, m.State())
	}
}

func TestPatrol_ZeroArcScansImmediately(t *testing.T) {
	m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15})
	m.setBehaviour(newPatrol(m.params, 1, 1))
	m.Step(Sequences{Ammo: 1, Spawn: 1})
	if m.State() != BehaviourScan {
		t.Fatalf("state = %s, want scan", m.State())
	}
}

func TestScan_SpotsHeroInTerritory(t *testing.T) {
	m, _ := newLoneMonster(t, Vec3{}, Vec3{Z: -3})
	m.setBehaviour(newScan(m.params, 0, 1, 1))

	m.Step(Sequences{Ammo: 1, Spawn: 1})
	if m.State() != BehaviourPursuit {
		t.Fatalf("hero in the sweep and in territory, state = %s, want pursuit", m.State())
	}
}

func TestScan_IgnoresHeroOutsideTerritory(t *testing.T) {
	p := DefaultParams()
	m, _ := newLoneMonster(t, Vec3{}, Vec3{Z: -7}, 0.9)
	m.setBehaviour(newScan(p, 0, 1, 1))
	seq := Sequences{Ammo: 1, Spawn: 1}

	// Full sweep, then a second sweep the other way (draw 0.9 >= repeat chance).
	for i := 0; i <= p.scanSteps(); i++ {
		m.Step(seq)
	}
	sc, ok := m.behaviour.(*scan)
	if !ok {
		t.Fatalf("after first sweep state = %s, want scan", m.State())
	}
	if sc.allowed != 0 || sc.sign != -1 {
		t.Fatalf("second sweep allowed=%d sign=%v, want 0/-1", sc.allowed, sc.sign)
	}

	for i := 0; i <= p.scanSteps(); i++ {
		m.Step(seq)
	}
	if m.State() != BehaviourPatrol {
		t.Fatalf("after second sweep state = %s, want patrol", m.State())
	}
}

func TestOnShotAt(t *testing.T) {
	m, h := newLoneMonster(t, Vec3{X: 2}, Vec3{})
	h.place(Transform{Yaw: halfPi}) // view angle 0: looking down +X

	if !m.OnShotAt() {
		t.Fatal("aligned monster in range was not hit")
	}
	if !m.PerishPending() || !m.Shootable() {
		t.Fatal("hit should only queue the perish, not apply it")
	}

	far, fh := newLoneMonster(t, Vec3{X: 4}, Vec3{})
	fh.place(Transform{Yaw: halfPi})
	if far.OnShotAt() {
		t.Fatal("monster beyond shot radius was hit")
	}

	side, sh := newLoneMonster(t, Vec3{X: 2}, Vec3{})
	sh.place(Transform{}) // looking down +Z
	if side.OnShotAt() {
		t.Fatal("monster 90° off the view angle was hit")
	}

	side.shootable = false
	sh.place(Transform{Yaw: halfPi})
	if side.OnShotAt() {
		t.Fatal("unshootable monster was hit")
	}
}

func TestDeferredPerish_InterruptsAnyBehaviour(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name string
		b    behaviour
	}{
		{"patrol", newPatrol(p, 0, 3)},
		{"scan", newScan(p, 0, 1, 1)},
		{"pursuit", pursuit{}},
		{"return", returnToBase{}},
		{"respawn", newRespawn(p)},
		{"await", awaitRespawn{respawnSeq: 99}},
	}
	for _, c := range cases {
		m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15})
		m.setBehaviour(c.b)
		m.inbox = signalPerish

		m.Step(Sequences{Ammo: 1, Spawn: 1})
		if m.State() != BehaviourPerish {
			t.Fatalf("%s: state = %s, want perish", c.name, m.State())
		}
		if m.Shootable() || m.PerishPending() {
			t.Fatalf("%s: shootable=%v pending=%v after perish applied", c.name, m.Shootable(), m.PerishPending())
		}
		if m.Costume() != CostumeSplatted {
			t.Fatalf("%s: costume = %s, want splatted", c.name, m.Costume())
		}
	}
}

func TestPerishAwaitRespawnCycle(t *testing.T) {
	p := DefaultParams()
	m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15})
	seq := Sequences{Ammo: 1, Spawn: 1}
	m.inbox = signalPerish

	for i := 0; i < 1000 && m.State() != BehaviourAwaitRespawn; i++ {
		m.Step(seq)
	}
	if m.State() != BehaviourAwaitRespawn {
		t.Fatalf("monster never finished sinking: %s y=%.3f", m.State(), m.Position().Y)
	}
	if m.Position().Y > p.PerishY {
		t.Fatalf("sank only to y=%.3f", m.Position().Y)
	}

	for i := 0; i < 50; i++ {
		m.Step(seq)
	}
	seq.Spawn++
	m.Step(seq)
	if m.State() != BehaviourAwaitRespawn {
		t.Fatal("respawned after a single kill")
	}

	seq.Spawn++
	m.Step(seq)
	if m.State() != BehaviourRespawn {
		t.Fatalf("state = %s, want respawn", m.State())
	}

	for i := 0; i < p.RespawnDelay; i++ {
		m.Step(seq)
		if m.State() != BehaviourRespawn {
			t.Fatalf("respawn delay cut short at %d", i)
		}
	}
	m.Step(seq)
	if m.State() != BehaviourPatrol {
		t.Fatalf("state = %s, want patrol", m.State())
	}
	if !m.Shootable() || m.Costume() != CostumeNormal {
		t.Fatalf("respawned monster shootable=%v costume=%s", m.Shootable(), m.Costume())
	}
}

func TestPursuit_LeansAndCrouches(t *testing.T) {
	p := DefaultParams()
	m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 3})
	m.setBehaviour(pursuit{})

	for i := 0; i < 20; i++ {
		m.Step(Sequences{Ammo: 1, Spawn: 1})
	}
	if m.State() != BehaviourPursuit {
		t.Fatalf("state = %s, want pursuit", m.State())
	}
	tr := m.Transform()
	if tr.Tilt <= 0 || tr.Pos.Y >= 0 {
		t.Fatalf("pursuing monster tilt=%.3f y=%.4f, want leaning and crouched", tr.Tilt, tr.Pos.Y)
	}
	if want := 3 - 20*p.PursuitStep; math.Abs(m.DistanceToHero()-want) > 1e-9 {
		t.Fatalf("distance to hero %.4f, want %.4f", m.DistanceToHero(), want)
	}
}

func TestReset_RestoresMonster(t *testing.T) {
	m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15})
	m.inbox = signalPerish
	m.Step(Sequences{Ammo: 1, Spawn: 1})

	m.Reset()
	if m.State() != BehaviourPatrol || !m.Shootable() || m.Costume() != CostumeNormal || m.PerishPending() {
		t.Fatalf("after reset state=%s shootable=%v costume=%s", m.State(), m.Shootable(), m.Costume())
	}
}

func TestReturnToBase_ResumesPursuitWhenHeroReturns(t *testing.T) {
	m, h := newLoneMonster(t, Vec3{}, Vec3{X: 10})
	m.place(Transform{Pos: Vec3{X: 3}})
	m.setBehaviour(returnToBase{})
	seq := Sequences{Ammo: 1, Spawn: 1}

	m.Step(seq)
	if m.State() != BehaviourReturnToBase {
		t.Fatalf("hero outside territory, state = %s, want return_to_base", m.State())
	}

	h.place(Transform{Pos: Vec3{X: 4}})
	m.Step(seq)
	if m.State() != BehaviourPursuit {
		t.Fatalf("hero back in territory, state = %s, want pursuit", m.State())
	}
}

func TestReturnToBase_PatrolsFromFarSideOfHome(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name     string
		draw     float64
		wantSign float64
	}{
		{"draw above half", 0.9, 1},
		{"draw below half", 0.1, -1},
	}
	for _, c := range cases {
		m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 10}, c.draw)
		m.place(Transform{Pos: Vec3{X: 1.01}})
		m.setBehaviour(returnToBase{})

		m.Step(Sequences{Ammo: 1, Spawn: 1})
		pt, ok := m.behaviour.(*patrol)
		if !ok {
			t.Fatalf("%s: state = %s, want patrol", c.name, m.State())
		}
		// Home lies along -X from the monster, so the arc starts on the +X side.
		if wantTh := m.AngleToHome() + math.Pi; pt.th != wantTh {
			t.Fatalf("%s: th0 = %.6f, want %.6f", c.name, pt.th, wantTh)
		}
		if math.Abs(ClampPi(pt.th)) > 1e-9 {
			t.Fatalf("%s: th0 = %.6f, want the +X side of home", c.name, pt.th)
		}
		if pt.sign != c.wantSign {
			t.Fatalf("%s: sign = %v, want %v", c.name, pt.sign, c.wantSign)
		}
		if want := int(p.ReturnArc / p.PatrolSpeed); pt.remaining != want {
			t.Fatalf("%s: remaining = %d, want %d", c.name, pt.remaining, want)
		}
	}
}

func TestScan_PatrolArcAfterSweep(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name    string
		sign    float64
		arcDraw float64
	}{
		{"forward sweep, mid draw", 1, 0.5},
		{"backward sweep, high draw", -1, 0.99},
		{"forward sweep, zero draw", 1, 0},
	}
	for _, c := range cases {
		// First draw 0.3 is below the repeat chance, so the scan ends.
		m, _ := newLoneMonster(t, Vec3{}, Vec3{X: 15, Z: 15}, 0.3, c.arcDraw)
		sc := newScan(p, 1.0, c.sign, 1)
		sc.remaining = 0
		m.setBehaviour(sc)

		m.Step(Sequences{Ammo: 1, Spawn: 1})
		pt, ok := m.behaviour.(*patrol)
		if !ok {
			t.Fatalf("%s: state = %s, want patrol", c.name, m.State())
		}
		if pt.th != 1.0 || pt.sign != c.sign {
			t.Fatalf("%s: patrol from th=%.3f sign=%v, want 1.000/%v", c.name, pt.th, pt.sign, c.sign)
		}

		arc := p.ScanMinArc + p.ScanArcSpread*c.arcDraw
		if arc < p.ScanMinArc || arc >= p.ScanMinArc+p.ScanArcSpread {
			t.Fatalf("%s: arc %.3f outside [%.1f, %.1f)", c.name, arc, p.ScanMinArc, p.ScanMinArc+p.ScanArcSpread)
		}
		want := int(((1.0 + c.sign*arc) - 1.0) / (c.sign * p.PatrolSpeed))
		if pt.remaining != want {
			t.Fatalf("%s: remaining = %d, want %d (arc %.3f)", c.name, pt.remaining, want, arc)
		}
		if covered := float64(pt.remaining) * p.PatrolSpeed; covered > arc+1e-9 || covered < arc-p.PatrolSpeed-1e-9 {
			t.Fatalf("%s: patrol covers %.3f rad, want about %.3f", c.name, covered, arc)
		}
	}
}
