package game

// Message is a transient on-screen line of text.
type Message struct {
	Text           string
	TicksRemaining int
}

// MessageBoard holds the live player messages, oldest first. A text is only
// shown once at a time; each Refresh ages every message by one tick.
type MessageBoard struct {
	displayTicks int
	messages     []Message
}

// NewMessageBoard creates an empty board whose messages last displayTicks.
func NewMessageBoard(displayTicks int) *MessageBoard {
	return &MessageBoard{displayTicks: displayTicks}
}

// Launch adds text unless it is already showing. It reports whether the
// message was added.
func (mb *MessageBoard) Launch(text string) bool {
	for _, m := range mb.messages {
		if m.Text == text {
			return false
		}
	}
	mb.messages = append(mb.messages, Message{Text: text, TicksRemaining: mb.displayTicks})
	return true
}

// Refresh ages every message and drops the expired ones.
func (mb *MessageBoard) Refresh() {
	kept := mb.messages[:0]
	for _, m := range mb.messages {
		m.TicksRemaining--
		if m.TicksRemaining > 0 {
			kept = append(kept, m)
		}
	}
	mb.messages = kept
}

// Clear removes every message.
func (mb *MessageBoard) Clear() {
	mb.messages = mb.messages[:0]
}

// Messages returns a copy of the live messages, oldest first.
func (mb *MessageBoard) Messages() []Message {
	out := make([]Message, len(mb.messages))
	copy(out, mb.messages)
	return out
}

// Opacity is the fade factor of m, 1 when fresh and approaching 0 at expiry.
func (mb *MessageBoard) Opacity(m Message) float64 {
	if mb.displayTicks <= 0 {
		return 1
	}
	return float64(m.TicksRemaining) / float64(mb.displayTicks)
}
