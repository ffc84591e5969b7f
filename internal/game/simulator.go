package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPendingEvents bounds the undrained event queue; the oldest events are
// dropped beyond it.
const maxPendingEvents = 4096

// SimState is the top-level game state.
type SimState int

const (
	StateAwaitStart SimState = iota // waiting for the start signal
	StatePlaying
)

func (s SimState) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "await-start"
}

// World is the static layout of a level.
type World struct {
	HeroHome  Transform
	Monsters  []MonsterDescriptor
	AmmoDumps []AmmoDumpDescriptor
}

// DefaultWorld is the reference level: five zombies and two ammo dumps.
func DefaultWorld() World {
	return World{
		HeroHome: DefaultHeroHome,
		Monsters: []MonsterDescriptor{
			{Name: "Green-zombie", Scale: 0.1, Home: Vec3{X: 15.36, Z: 10.48}},
			{Name: "Brown-zombie", Scale: 0.1, Home: Vec3{X: -7.07, Z: 11.45}},
			{Name: "Red-zombie", Scale: 0.1, Home: Vec3{X: 4.84, Z: 18.25}},
			{Name: "Blue-zombie", Scale: 0.1, Home: Vec3{X: -8.71, Z: -15.12}},
			{Name: "Yellow-zombie", Scale: 0.1, Home: Vec3{X: -13.39, Z: 1.42}},
		},
		AmmoDumps: []AmmoDumpDescriptor{
			{Tag: "Tesco", Home: Vec3{X: 4.75, Z: -0.21}, Bullets: 3},
			{Tag: "Lidl", Home: Vec3{X: 7.69, Z: -11.22}, Bullets: 5},
		},
	}
}

// GameStats counts what happened in the current (or last) game.
type GameStats struct {
	StartTick int
	Shots     int
	Kills     int
	Misses    int
	Pickups   int // bullets collected
	LivesLost int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithParams replaces the default tuning.
func WithParams(p Params) Option {
	return func(s *Simulator) { s.params = p }
}

// WithRand injects the random source used for monster decisions.
func WithRand(r Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithSimLog records gameplay events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(s *Simulator) { s.simLog = sl }
}

// Simulator advances the whole game one frame at a time.
type Simulator struct {
	params  Params
	world   World
	mask    *TraversabilityMask
	keys    KeySource
	rng     Rand
	log     zerolog.Logger
	simLog  *SimLog
	metrics *simMetrics

	hero     *Hero
	monsters []*Monster
	dumps    *AmmoDumpCollection
	messages *MessageBoard

	state        SimState
	startPending bool
	firePressed  bool
	resetting    bool
	seq          Sequences
	score        int
	tick         int
	runID        string
	stats        GameStats
	events       []Event
}

// NewSimulator builds the hero, monsters and ammo dumps for world. The
// simulator starts in StateAwaitStart; keys is read once per playing tick.
func NewSimulator(mask *TraversabilityMask, world World, keys KeySource, opts ...Option) *Simulator {
	s := &Simulator{
		params: DefaultParams(),
		world:  world,
		mask:   mask,
		keys:   keys,
		log:    zerolog.Nop(),
		state:  StateAwaitStart,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	s.metrics = newSimMetrics()
	s.messages = NewMessageBoard(s.params.MessageTicks)

	s.hero = NewHero(world.HeroHome, mask, s.params)
	s.hero.setListener(s)
	s.monsters = make([]*Monster, 0, len(world.Monsters))
	for _, d := range world.Monsters {
		s.monsters = append(s.monsters, NewMonster(d, s.hero, s.params, s.rng))
	}
	s.dumps = NewAmmoDumpCollection(world.AmmoDumps, s.params.PlunderRadius)
	return s
}

// Start signals that the player asked for a new game. It is consumed by
// the next Step while awaiting start.
func (s *Simulator) Start() {
	s.startPending = true
}

// Step runs one frame.
func (s *Simulator) Step() {
	s.tick++

	s.messages.Refresh()
	s.emit(EventMessagesRefreshed, "", len(s.messages.messages))

	if s.state == StateAwaitStart {
		if !s.startPending {
			return
		}
		s.state = StatePlaying
		s.ResetGame()
		return
	}

	// 1. HERO: move from the current input.
	s.hero.MoveStep(s.keys)
	if s.simLog != nil {
		p := s.hero.Position()
		s.simLog.AddVerbose(s.tick, "hero", "hero", "position",
			fmt.Sprintf("(%.2f, %.2f) yaw=%.2f", p.X, p.Z, s.hero.transform.Yaw), 0)
	}

	// 2. SHOOT: edge-triggered on the fire key.
	fireNow := s.keys.Down(KeyFire)
	if fireNow && !s.firePressed {
		s.fire()
	}
	s.firePressed = fireNow

	// 3. MONSTERS: react and step, in registration order.
	seq := s.seq
	for _, m := range s.monsters {
		before := m.State()
		m.Step(seq)
		if after := m.State(); after != before {
			s.recordTransition(m, before, after)
		}
	}

	// 4. PICKUPS at the hero's new position.
	if n := s.dumps.PlunderIfAllowed(s.hero.Position(), s.seq.Ammo); n > 0 {
		s.stats.Pickups += n
		s.metrics.add(s.metrics.pickups, int64(n))
		s.log.Debug().Int("bullets", n).Int("ammo_seq", s.seq.Ammo).Msg("ammo plundered")
		s.record("hero", "ammo", "plundered", fmt.Sprintf("+%d bullets", n), float64(n))
		s.hero.AddBullets(n)
	}
}

// fire spends a bullet and resolves it against every monster.
func (s *Simulator) fire() {
	if !s.hero.Shoot() {
		return
	}
	s.stats.Shots++
	s.metrics.add(s.metrics.shots, 1)

	hit := false
	for _, m := range s.monsters {
		if m.OnShotAt() {
			hit = true
			s.onMonsterKilled(m)
		}
	}
	if !hit {
		s.stats.Misses++
		s.metrics.add(s.metrics.misses, 1)
		s.record("hero", "hero", "missed", "", 0)
		s.launchMessage(MsgMissed)
	}
}

// ResetGame starts a fresh game: new run ID, sequences at 1, zero score,
// no messages, and every entity back at its start.
func (s *Simulator) ResetGame() {
	s.resetting = true
	defer func() { s.resetting = false }()

	s.startPending = false
	s.firePressed = false
	s.runID = uuid.NewString()
	s.seq = Sequences{Ammo: 1, Spawn: 1}
	s.dumps = NewAmmoDumpCollection(s.world.AmmoDumps, s.params.PlunderRadius)
	s.score = 0
	s.stats = GameStats{StartTick: s.tick}
	s.messages.Clear()

	s.emit(EventGameStarted, s.runID, 0)
	s.emit(EventScore, "", 0)
	s.hero.Reset()
	for _, m := range s.monsters {
		m.Reset()
	}

	s.log.Info().Str("run_id", s.runID).Int("monsters", len(s.monsters)).Msg("game started")
	s.record("--", "game", "start", s.runID, 0)
}

func (s *Simulator) onMonsterKilled(m *Monster) {
	s.seq.Ammo++
	s.seq.Spawn++
	s.score++
	s.stats.Kills++
	s.emit(EventScore, "", s.score)
	s.metrics.add(s.metrics.kills, 1)
	s.log.Debug().Str("monster", m.Name).Int("score", s.score).Msg("monster killed")
	s.record(m.Name, "monster", "killed", fmt.Sprintf("score=%d", s.score), float64(s.score))
	s.launchMessage(MsgSplatted)
}

func (s *Simulator) recordTransition(m *Monster, before, after BehaviourKind) {
	s.log.Debug().Str("monster", m.Name).Stringer("from", before).Stringer("to", after).Msg("behaviour change")
	s.record(m.Name, "monster", "state", fmt.Sprintf("%s → %s", before, after), 0)
}

// ---------------------------------------------------------------------------
// heroListener

func (s *Simulator) launchMessage(text string) {
	if s.messages.Launch(text) {
		s.emit(EventMessageAdded, text, s.params.MessageTicks)
		s.record("--", "message", "launch", text, 0)
	}
}

func (s *Simulator) onAllLivesLost() {
	s.launchMessage(MsgGameOver)
	s.emit(EventGameOver, s.runID, s.score)
	s.emit(EventShowStartButton, "", 0)
	s.state = StateAwaitStart
	s.metrics.add(s.metrics.games, 1)
	s.log.Info().Str("run_id", s.runID).Int("score", s.score).Int("tick", s.tick).Msg("game over")
	s.record("--", "game", "over", fmt.Sprintf("score=%d", s.score), float64(s.score))
}

func (s *Simulator) onAmmoExhausted() {
	s.seq.Ammo++
	s.record("hero", "hero", "ammo_exhausted", fmt.Sprintf("ammo_seq=%d", s.seq.Ammo), float64(s.seq.Ammo))
}

func (s *Simulator) onNoAmmo() {
	s.record("hero", "hero", "dry_fire", "", 0)
	s.launchMessage(MsgNoAmmo)
}

func (s *Simulator) onLivesChanged(lives int) {
	s.emit(EventLives, "", lives)
	if s.resetting {
		return
	}
	s.stats.LivesLost++
	s.metrics.add(s.metrics.livesLost, 1)
	s.log.Debug().Int("lives", lives).Msg("hero caught")
	s.record("hero", "hero", "caught", fmt.Sprintf("lives=%d", lives), float64(lives))
}

func (s *Simulator) onBulletsChanged(bullets int) {
	s.emit(EventAmmo, "", bullets)
}

// ---------------------------------------------------------------------------

func (s *Simulator) emit(kind EventKind, text string, value int) {
	if len(s.events) >= maxPendingEvents {
		s.events = s.events[1:]
	}
	s.events = append(s.events, Event{Tick: s.tick, Kind: kind, Text: text, Value: value})
}

func (s *Simulator) record(entity, category, key, value string, num float64) {
	if s.simLog == nil {
		return
	}
	s.simLog.Add(s.tick, entity, category, key, value, num)
}

// DrainEvents returns the events produced since the last call.
func (s *Simulator) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// State is the top-level game state.
func (s *Simulator) State() SimState { return s.state }

// Hero is the player entity.
func (s *Simulator) Hero() *Hero { return s.hero }

// Monsters returns the monsters in registration order.
func (s *Simulator) Monsters() []*Monster { return s.monsters }

// AmmoDumps returns the world's ammo dumps.
func (s *Simulator) AmmoDumps() []*AmmoDump { return s.dumps.Dumps() }

// Messages returns the live player messages, oldest first.
func (s *Simulator) Messages() []Message { return s.messages.Messages() }

// MessageOpacity is the fade factor of m.
func (s *Simulator) MessageOpacity(m Message) float64 { return s.messages.Opacity(m) }

// Score is the number of monsters shot this game.
func (s *Simulator) Score() int { return s.score }

// Stats returns the counters of the current (or last) game.
func (s *Simulator) Stats() GameStats { return s.stats }

// Sequences returns the current gate counters.
func (s *Simulator) Sequences() Sequences { return s.seq }

// Tick is the number of frames stepped so far.
func (s *Simulator) Tick() int { return s.tick }

// RunID identifies the current (or last) game.
func (s *Simulator) RunID() string { return s.runID }

// Params is the tuning in use.
func (s *Simulator) Params() Params { return s.params }

// Mask is the traversability mask of the world.
func (s *Simulator) Mask() *TraversabilityMask { return s.mask }
