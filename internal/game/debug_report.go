package game

import (
	"fmt"
	"strings"
)

// DebugReport renders the live geometry of the current game as plain text:
// the hero's pose and mask pixel, then one line per monster with the
// distances and bearings its behaviour decisions use. The overlay panel and
// the clipboard copy both use it.
func (s *Simulator) DebugReport() string {
	var b strings.Builder
	h := s.hero
	p := h.Position()
	u, v := s.mask.MapCoords(p.X, p.Z)

	fmt.Fprintf(&b, "--- zombie-patrol debug report ---\n")
	fmt.Fprintf(&b, "run=%s tick=%d state=%s score=%d\n", shortID(s.runID), s.tick, s.state, s.score)
	fmt.Fprintf(&b, "hero x=%.2f z=%.2f yaw=%.2f view=%.2f map=(%d,%d) lives=%d bullets=%d\n",
		p.X, p.Z, h.transform.Yaw, h.ViewAngle(), u, v, h.Lives(), h.Bullets())
	fmt.Fprintf(&b, "seq ammo=%d spawn=%d\n\n", s.seq.Ammo, s.seq.Spawn)

	for _, m := range s.monsters {
		mp := m.Position()
		fmt.Fprintf(&b, "%-14s %-14s d(hero)=%5.2f d(hero,home)=%5.2f bearing=%+.2f pos=(%.2f,%.2f,%.2f)",
			m.Name, m.State(), m.DistanceToHero(), m.DistanceHeroHome(), m.AngleToHero(), mp.X, mp.Y, mp.Z)
		if !m.Shootable() {
			b.WriteString(" [down]")
		}
		b.WriteByte('\n')
	}

	if dumps := s.AmmoDumps(); len(dumps) > 0 {
		b.WriteByte('\n')
		for _, d := range dumps {
			avail := "spent"
			if d.Available(s.seq.Ammo) {
				avail = "ready"
			}
			fmt.Fprintf(&b, "%-14s d(hero)=%5.2f bullets=%d last_seq=%d %s\n",
				d.Tag, DistanceXZ(p, d.Home()), d.Bullets(), d.LastUsedSeq(), avail)
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
