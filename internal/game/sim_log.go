package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation.
type SimLogEntry struct {
	Tick     int
	Entity   string  // "hero", a monster name, an ammo dump tag, or "--" for global events
	Category string  // game, hero, monster, ammo, message
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] Red-zombie   monster  state           scan → pursuit
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-14s %-8s %-15s %s",
		e.Tick, e.Entity, e.Category, e.Key, e.Value)
}

// SimLog collects structured gameplay events. Unlike the message board it
// is unbounded and machine-readable; tests and the headless report read it.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick hero position
// entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, entity, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Entity:   entity,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, entity, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, entity, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// matches reports whether e has the given category and key; an empty
// argument matches anything.
func (e SimLogEntry) matches(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// CountCategory counts entries matching category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.matches(category, key) {
			n++
		}
	}
	return n
}

// FirstOf returns the tick of the earliest entry matching category and key,
// or -1.
func (sl *SimLog) FirstOf(category, key string) int {
	for _, e := range sl.entries {
		if e.matches(category, key) {
			return e.Tick
		}
	}
	return -1
}

// HasEntry reports whether some entry matches category and key and has
// valueSubstr in its value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.matches(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the log one entry per line, for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(s *Simulator) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", s.Tick())
	fmt.Fprintf(&sb, "State: %s  score=%d  lives=%d  bullets=%d\n",
		s.State(), s.Score(), s.Hero().Lives(), s.Hero().Bullets())

	seq := s.Sequences()
	fmt.Fprintf(&sb, "Sequences: ammo=%d  spawn=%d\n", seq.Ammo, seq.Spawn)

	// Behaviour distribution.
	counts := map[BehaviourKind]int{}
	for _, m := range s.Monsters() {
		counts[m.State()]++
	}
	sb.WriteString("Monsters: ")
	kinds := []BehaviourKind{BehaviourPatrol, BehaviourScan, BehaviourPursuit, BehaviourReturnToBase,
		BehaviourPerish, BehaviourAwaitRespawn, BehaviourRespawn}
	for _, k := range kinds {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", k, n)
		}
	}
	sb.WriteByte('\n')

	fmt.Fprintf(&sb, "Events: kills=%d  captures=%d  pickups=%d  misses=%d\n",
		sl.CountCategory("monster", "killed"),
		sl.CountCategory("hero", "caught"),
		sl.CountCategory("ammo", "plundered"),
		sl.CountCategory("hero", "missed"))
	return sb.String()
}
