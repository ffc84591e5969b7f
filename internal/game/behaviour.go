package game

import "math"

// BehaviourKind names a monster behaviour state.
type BehaviourKind int

const (
	BehaviourNone BehaviourKind = iota
	BehaviourPatrol
	BehaviourScan
	BehaviourPursuit
	BehaviourReturnToBase
	BehaviourPerish
	BehaviourAwaitRespawn
	BehaviourRespawn
)

func (k BehaviourKind) String() string {
	switch k {
	case BehaviourPatrol:
		return "patrol"
	case BehaviourScan:
		return "scan"
	case BehaviourPursuit:
		return "pursuit"
	case BehaviourReturnToBase:
		return "return_to_base"
	case BehaviourPerish:
		return "perish"
	case BehaviourAwaitRespawn:
		return "await_respawn"
	case BehaviourRespawn:
		return "respawn"
	default:
		return "none"
	}
}

// behaviour is one monster state. step runs a tick and returns the behaviour
// for the next tick: the receiver to stay, or a fresh successor to switch.
type behaviour interface {
	step(m *Monster, seq Sequences) behaviour
	kind() BehaviourKind
}

// ---------------------------------------------------------------------------

// patrol walks an arc of the circle around home.
type patrol struct {
	th        float64
	dth       float64
	sign      float64
	phiOffset float64
	remaining int
}

func newPatrol(p Params, th0, th1 float64) *patrol {
	sign := sgn(th1 - th0)
	pt := &patrol{
		th:        th0,
		sign:      sign,
		dth:       sign * p.PatrolSpeed,
		phiOffset: -sign * halfPi,
	}
	if pt.dth != 0 {
		pt.remaining = int((th1 - th0) / pt.dth)
	}
	return pt
}

func (pt *patrol) kind() BehaviourKind { return BehaviourPatrol }

func (pt *patrol) step(m *Monster, _ Sequences) behaviour {
	if pt.remaining == 0 {
		return newScan(m.params, pt.th, -pt.sign, 1)
	}
	pt.remaining--

	pt.th += pt.dth
	r := m.params.PatrolRadius
	m.transform.Pos.X = m.home.X + r*math.Cos(pt.th)
	m.transform.Pos.Z = m.home.Z + r*math.Sin(pt.th)
	m.transform.Yaw = -(pt.th + pt.phiOffset)
	m.uprightPose()
	return pt
}

// ---------------------------------------------------------------------------

// scan stands still and sweeps the gaze through half a turn, looking for the
// hero.
type scan struct {
	th        float64 // arc angle the scan started from
	sign      float64
	ph        float64 // current gaze angle
	dph       float64
	remaining int
	allowed   int // further scans allowed before patrolling again
}

func newScan(p Params, th, sign float64, allowed int) *scan {
	return &scan{
		th:        th,
		sign:      sign,
		ph:        th + sign*halfPi,
		dph:       sign * p.ScanSpeed,
		remaining: p.scanSteps(),
		allowed:   allowed,
	}
}

func (sc *scan) kind() BehaviourKind { return BehaviourScan }

func (sc *scan) step(m *Monster, _ Sequences) behaviour {
	p := m.params
	if sc.remaining == 0 {
		if sc.allowed == 0 || m.rng.Float64() < p.ScanRepeatChance {
			arc := p.ScanMinArc + p.ScanArcSpread*m.rng.Float64()
			return newPatrol(p, sc.th, sc.th+sc.sign*arc)
		}
		return newScan(p, sc.th, -sc.sign, sc.allowed-1)
	}
	sc.remaining--

	sc.ph += sc.dph
	m.transform.Yaw = -sc.ph

	diff := ClampPi(math.Pi + m.AngleToHero() - sc.ph)
	if math.Abs(diff) < p.SpotThreshold && m.DistanceHeroHome() < p.TerritoryRadius {
		return pursuit{}
	}
	return sc
}

// ---------------------------------------------------------------------------

// pursuit chases the hero. The monster is already facing the hero on entry,
// since that is how it spotted them.
type pursuit struct{}

func (pursuit) kind() BehaviourKind { return BehaviourPursuit }

func (pu pursuit) step(m *Monster, _ Sequences) behaviour {
	p := m.params
	m.transform.Pos = NudgeTowardsXZ(m.transform.Pos, m.hero.Position(), p.PursuitStep)
	m.transform.Yaw = math.Pi - m.AngleToHero()

	if m.transform.Tilt < p.PursuitTilt {
		m.transform.Tilt += p.PursuitTiltRate
	}
	if m.transform.Pos.Y > p.PursuitY {
		m.transform.Pos.Y += p.PursuitYRate
	}

	switch {
	case m.DistanceHeroHome() > p.TerritoryRadius:
		return returnToBase{}
	case m.DistanceToHero() < p.CaptureRadius:
		m.hero.LoseLife(true)
		return newRespawn(p)
	default:
		return pu
	}
}

// ---------------------------------------------------------------------------

// returnToBase walks home after the hero escaped the territory.
type returnToBase struct{}

func (returnToBase) kind() BehaviourKind { return BehaviourReturnToBase }

func (rb returnToBase) step(m *Monster, _ Sequences) behaviour {
	p := m.params
	// TODO: turn toward home gradually instead of snapping.
	m.uprightPose()
	m.transform.Yaw = math.Pi - m.AngleToHome()
	m.transform.Pos = NudgeTowardsXZ(m.transform.Pos, m.home, p.PursuitStep)

	switch {
	case m.DistanceHeroHome() < p.TerritoryRadius:
		return pursuit{}
	case m.DistanceToHome() < p.PatrolRadius:
		th0 := m.AngleToHome() + math.Pi
		dir := -1.0
		if m.rng.Float64() > 0.5 {
			dir = 1.0
		}
		return newPatrol(p, th0, th0+dir*p.ReturnArc)
	default:
		return rb
	}
}

// ---------------------------------------------------------------------------

// perish sinks a shot monster into the ground.
type perish struct{}

func (perish) kind() BehaviourKind { return BehaviourPerish }

func (pe perish) step(m *Monster, seq Sequences) behaviour {
	m.splat()
	if m.transform.Pos.Y > m.params.PerishY {
		m.transform.Pos.Y += m.params.PerishYRate
		return pe
	}
	return awaitRespawn{respawnSeq: seq.Spawn + m.params.RespawnKills}
}

// ---------------------------------------------------------------------------

// awaitRespawn keeps a dead monster down until enough other kills happen.
type awaitRespawn struct {
	respawnSeq int
}

func (awaitRespawn) kind() BehaviourKind { return BehaviourAwaitRespawn }

func (aw awaitRespawn) step(m *Monster, seq Sequences) behaviour {
	if seq.Spawn >= aw.respawnSeq {
		return newRespawn(m.params)
	}
	return aw
}

// ---------------------------------------------------------------------------

// respawn waits a fixed delay, then restores the monster to patrol.
type respawn struct {
	remaining int
}

func newRespawn(p Params) *respawn {
	return &respawn{remaining: p.RespawnDelay}
}

func (*respawn) kind() BehaviourKind { return BehaviourRespawn }

func (rs *respawn) step(m *Monster, _ Sequences) behaviour {
	if rs.remaining == 0 {
		m.unsplat()
		m.shootable = true
		return newPatrol(m.params, m.params.InitialPatrolFrom, m.params.InitialPatrolTo)
	}
	rs.remaining--
	return rs
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
