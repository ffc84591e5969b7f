package game

// AmmoDumpDescriptor is the static description of one ammo dump.
type AmmoDumpDescriptor struct {
	Tag     string `yaml:"tag"`
	Home    Vec3   `yaml:"home"`
	Bullets int    `yaml:"bullets"`
}

// AmmoDump is a stationary pickup that can be plundered once per ammo
// sequence value.
type AmmoDump struct {
	Tag         string
	home        Vec3
	bullets     int
	radius      float64
	lastUsedSeq int
	timesLooted int
}

// NewAmmoDump creates a dump that has never been used.
func NewAmmoDump(d AmmoDumpDescriptor, plunderRadius float64) *AmmoDump {
	return &AmmoDump{
		Tag:     d.Tag,
		home:    d.Home,
		bullets: d.Bullets,
		radius:  plunderRadius,
	}
}

// PlunderIfAllowed returns the dump's bullets when pos is within reach and
// seq has advanced past the last plunder, and 0 otherwise.
func (d *AmmoDump) PlunderIfAllowed(pos Vec3, seq int) int {
	if seq > d.lastUsedSeq && DistanceXZ(pos, d.home) < d.radius {
		d.lastUsedSeq = seq
		d.timesLooted++
		return d.bullets
	}
	return 0
}

// Home is the dump's position.
func (d *AmmoDump) Home() Vec3 { return d.home }

// Bullets is the yield of one plunder.
func (d *AmmoDump) Bullets() int { return d.bullets }

// LastUsedSeq is the ammo sequence value of the last plunder.
func (d *AmmoDump) LastUsedSeq() int { return d.lastUsedSeq }

// TimesLooted counts successful plunders.
func (d *AmmoDump) TimesLooted() int { return d.timesLooted }

// Available reports whether the dump would yield at seq to a hero in reach.
func (d *AmmoDump) Available(seq int) bool { return seq > d.lastUsedSeq }

// AmmoDumpCollection is every dump in the world.
type AmmoDumpCollection struct {
	dumps []*AmmoDump
}

// NewAmmoDumpCollection creates fresh dumps for descrs.
func NewAmmoDumpCollection(descrs []AmmoDumpDescriptor, plunderRadius float64) *AmmoDumpCollection {
	c := &AmmoDumpCollection{dumps: make([]*AmmoDump, 0, len(descrs))}
	for _, d := range descrs {
		c.dumps = append(c.dumps, NewAmmoDump(d, plunderRadius))
	}
	return c
}

// PlunderIfAllowed plunders every dump in reach and returns the total yield.
func (c *AmmoDumpCollection) PlunderIfAllowed(pos Vec3, seq int) int {
	total := 0
	for _, d := range c.dumps {
		total += d.PlunderIfAllowed(pos, seq)
	}
	return total
}

// Dumps returns the member dumps.
func (c *AmmoDumpCollection) Dumps() []*AmmoDump { return c.dumps }
