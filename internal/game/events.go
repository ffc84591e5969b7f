package game

// EventKind identifies a UI-facing event produced by the simulation.
type EventKind int

const (
	EventScore             EventKind = iota // Value = new score
	EventLives                              // Value = lives left
	EventAmmo                               // Value = bullets held
	EventMessageAdded                       // Text = message, Value = display ticks
	EventMessagesRefreshed                  // Value = live message count
	EventGameOver
	EventShowStartButton
	EventGameStarted // Text = run ID
)

func (k EventKind) String() string {
	switch k {
	case EventScore:
		return "score"
	case EventLives:
		return "lives"
	case EventAmmo:
		return "ammo"
	case EventMessageAdded:
		return "message_added"
	case EventMessagesRefreshed:
		return "messages_refreshed"
	case EventGameOver:
		return "game_over"
	case EventShowStartButton:
		return "show_start_button"
	case EventGameStarted:
		return "game_started"
	default:
		return "unknown"
	}
}

// Event is one presentation-layer notification.
type Event struct {
	Tick  int
	Kind  EventKind
	Text  string
	Value int
}

// Player-facing message texts.
const (
	MsgNoAmmo   = "No ammo!"
	MsgMissed   = "Missed!"
	MsgGameOver = "GAME OVER"
	MsgCaught   = "A zombie got you!"
	MsgSplatted = "You splatted a zombie!"
)

// heroListener receives the hero's side effects. The Simulator implements it;
// tests may substitute a recorder.
type heroListener interface {
	launchMessage(text string)
	onAllLivesLost()
	onAmmoExhausted()
	onNoAmmo()
	onLivesChanged(lives int)
	onBulletsChanged(bullets int)
}

// nopHeroListener discards every hero notification.
type nopHeroListener struct{}

func (nopHeroListener) launchMessage(string) {}
func (nopHeroListener) onAllLivesLost() {}
func (nopHeroListener) onAmmoExhausted() {}
func (nopHeroListener) onNoAmmo() {}
func (nopHeroListener) onLivesChanged(int) {}
func (nopHeroListener) onBulletsChanged(int) {}
