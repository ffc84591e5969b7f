package main

import (
	"errors"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/zombie-patrol/internal/app"
	"github.com/Garsondee/zombie-patrol/internal/config"
	"github.com/Garsondee/zombie-patrol/internal/game"
	"github.com/Garsondee/zombie-patrol/internal/logging"
	"github.com/Garsondee/zombie-patrol/internal/scoreboard"
	"github.com/Garsondee/zombie-patrol/internal/worldmap"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", ".", "directory holding zombie.yaml")
	flag.Parse()

	cfg, err := config.Load(configDir)
	if err != nil {
		bootLog := logging.New(os.Stderr, "info", true)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logging.New(os.Stderr, cfg.LogLevel, true)

	world, err := config.LoadWorld(cfg.World.File)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.World.File).Msg("world")
	}

	mask := loadMask(cfg, log)

	var scores *scoreboard.Board
	if cfg.Scoreboard.Enabled {
		scores, err = scoreboard.Open(cfg.Scoreboard.Path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Scoreboard.Path).Msg("scoreboard disabled")
			scores = nil
		} else {
			defer scores.Close()
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	keys := &game.Keyboard{}
	sim := game.NewSimulator(mask, world, keys,
		game.WithParams(cfg.Tuning),
		game.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- game only
		game.WithLogger(log.With().Str("component", "sim").Logger()),
	)

	g, err := app.New(sim, keys, app.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Seed:   seed,
		Scores: scores,
		Log:    log.With().Str("component", "app").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("app")
	}

	log.Info().Int64("seed", seed).Int("monsters", len(world.Monsters)).Int("dumps", len(world.AmmoDumps)).Msg("zombie patrol")

	ebiten.SetWindowTitle("Zombie Patrol")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game loop")
	}
}

// loadMask reads the configured mask file, or generates the default arena
// when none is set. A mask whose data disagrees with the configured size is
// still used, with a warning.
func loadMask(cfg *config.Config, log zerolog.Logger) *game.TraversabilityMask {
	mc := cfg.Mask
	if mc.File == "" {
		return worldmap.DefaultArena(mc.Width, mc.Height, mc.Bounds)
	}
	m, err := worldmap.Load(mc.File, mc.Width, mc.Height, mc.Bounds)
	switch {
	case err == nil:
	case m != nil && errors.Is(err, game.ErrMaskDimensions):
		log.Warn().Err(err).Str("file", mc.File).Msg("mask size mismatch")
	default:
		log.Fatal().Err(err).Str("file", mc.File).Msg("mask")
	}
	return m
}
