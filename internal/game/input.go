package game

// Platform key codes read by the simulation.
const (
	KeyFire  byte = 32
	KeyLeft  byte = 37
	KeyUp    byte = 38
	KeyRight byte = 39
	KeyDown  byte = 40
)

// Keyboard is a byte-indexed down/up table keyed by platform key code.
// Input devices write it between ticks; the simulation only reads it.
type Keyboard [256]bool

// Down reports whether code is held.
func (k *Keyboard) Down(code byte) bool { return k[code] }

// Set records a key transition.
func (k *Keyboard) Set(code byte, down bool) { k[code] = down }

// Reset releases every key.
func (k *Keyboard) Reset() { *k = Keyboard{} }

// KeySource is anything that can report held keys.
type KeySource interface {
	Down(code byte) bool
}
