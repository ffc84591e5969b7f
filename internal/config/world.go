package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

//go:embed default_world.yaml
var defaultWorldYAML []byte

// ErrWorld reports an unusable level description.
var ErrWorld = errors.New("invalid world")

type heroSpawn struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type worldFile struct {
	Hero      heroSpawn                 `yaml:"hero"`
	Monsters  []game.MonsterDescriptor  `yaml:"monsters"`
	AmmoDumps []game.AmmoDumpDescriptor `yaml:"ammoDumps"`
}

// LoadWorld reads a level from path, or the embedded reference level when
// path is empty.
func LoadWorld(path string) (game.World, error) {
	data := defaultWorldYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return game.World{}, fmt.Errorf("read world %s: %w", path, err)
		}
	}
	return ParseWorld(data)
}

// ParseWorld decodes and validates a YAML level description. Unknown keys
// are rejected.
func ParseWorld(data []byte) (game.World, error) {
	var wf worldFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&wf); err != nil {
		return game.World{}, fmt.Errorf("%w: %v", ErrWorld, err)
	}

	seen := map[string]bool{}
	for i, m := range wf.Monsters {
		if m.Name == "" {
			return game.World{}, fmt.Errorf("%w: monster %d has no name", ErrWorld, i)
		}
		if seen[m.Name] {
			return game.World{}, fmt.Errorf("%w: duplicate monster %q", ErrWorld, m.Name)
		}
		seen[m.Name] = true
		if m.Scale <= 0 {
			wf.Monsters[i].Scale = 0.1
		}
	}
	for _, d := range wf.AmmoDumps {
		if d.Bullets < 0 {
			return game.World{}, fmt.Errorf("%w: ammo dump %q grants %d bullets", ErrWorld, d.Tag, d.Bullets)
		}
	}

	return game.World{
		HeroHome: game.Transform{
			Pos: game.Vec3{X: wf.Hero.X, Y: wf.Hero.Y, Z: wf.Hero.Z},
			Yaw: wf.Hero.Yaw,
		},
		Monsters:  wf.Monsters,
		AmmoDumps: wf.AmmoDumps,
	}, nil
}
