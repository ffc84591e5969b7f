package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"

	"github.com/Garsondee/zombie-patrol/internal/game"
	"github.com/Garsondee/zombie-patrol/internal/logging"
	"github.com/Garsondee/zombie-patrol/internal/scoreboard"
	"github.com/Garsondee/zombie-patrol/internal/worldmap"
)

// maskSize is the side of the generated arena mask.
const maskSize = 2048

var arenaBounds = game.WorldBounds{X0: -20, Z0: -20, X1: 20, Z1: 20}

type gameResult struct {
	score     int
	ticks     int
	shots     int
	misses    int
	pickups   int
	livesLost int
}

type runStats struct {
	runIndex int
	seed     int64

	games        []gameResult
	firstKill    int
	firstCapture int
	firstPickup  int

	kills      int
	captures   int
	pickups    int
	misses     int
	dryFires   int
	exhausted  int
	stateFlips int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scorePath string
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 36000, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scorePath, "scoreboard", "", "record finished games into this database")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	log := logging.New(os.Stderr, logLevel, true)

	var scores *scoreboard.Board
	if scorePath != "" {
		b, err := scoreboard.Open(scorePath, log)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		defer b.Close()
		scores = b
	}

	fmt.Printf("=== Headless Patrol Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	mask := worldmap.DefaultArena(maskSize, maskSize, arenaBounds)
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runAutopilot(i+1, seed, ticks, mask, log, scores)
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)

	if scores != nil {
		printBest(scores)
	}
}

// runAutopilot plays the reference world for ticks frames, restarting after
// every game over.
func runAutopilot(runIndex int, seed int64, ticks int, mask *game.TraversabilityMask, log zerolog.Logger, scores *scoreboard.Board) runStats {
	keys := &game.Keyboard{}
	simLog := game.NewSimLog(false)
	sim := game.NewSimulator(mask, game.DefaultWorld(), keys,
		game.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- simulation only
		game.WithSimLog(simLog),
		game.WithLogger(log.With().Int("run", runIndex).Logger()),
	)

	ap := &autopilot{}
	var games []gameResult
	sim.Start()
	for t := 0; t < ticks; t++ {
		ap.plan(sim, keys)
		sim.Step()
		for _, ev := range sim.DrainEvents() {
			if ev.Kind != game.EventGameOver {
				continue
			}
			g := finishGame(sim, ev.Value)
			games = append(games, g)
			saveGame(scores, ev.Text, seed, g, log)
			sim.Start()
		}
	}

	return runStats{
		runIndex:     runIndex,
		seed:         seed,
		games:        games,
		firstKill:    simLog.FirstOf("monster", "killed"),
		firstCapture: simLog.FirstOf("hero", "caught"),
		firstPickup:  simLog.FirstOf("ammo", "plundered"),
		kills:        simLog.CountCategory("monster", "killed"),
		captures:     simLog.CountCategory("hero", "caught"),
		pickups:      simLog.CountCategory("ammo", "plundered"),
		misses:       simLog.CountCategory("hero", "missed"),
		dryFires:     simLog.CountCategory("hero", "dry_fire"),
		exhausted:    simLog.CountCategory("hero", "ammo_exhausted"),
		stateFlips:   simLog.CountCategory("monster", "state"),
	}
}

func finishGame(sim *game.Simulator, score int) gameResult {
	st := sim.Stats()
	return gameResult{
		score:     score,
		ticks:     sim.Tick() - st.StartTick,
		shots:     st.Shots,
		misses:    st.Misses,
		pickups:   st.Pickups,
		livesLost: st.LivesLost,
	}
}

func saveGame(scores *scoreboard.Board, runID string, seed int64, g gameResult, log zerolog.Logger) {
	if scores == nil {
		return
	}
	err := scores.Save(context.Background(), scoreboard.Record{
		RunID:   runID,
		Source:  "headless",
		Seed:    seed,
		Score:   g.score,
		Ticks:   g.ticks,
		Shots:   g.shots,
		Pickups: g.pickups,
	})
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("could not record score")
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_kill=%d first_capture=%d first_pickup=%d\n",
		rs.firstKill, rs.firstCapture, rs.firstPickup)
	fmt.Printf("event_totals: kills=%d captures=%d pickups=%d misses=%d dry_fires=%d ammo_exhausted=%d monster_state_changes=%d\n",
		rs.kills, rs.captures, rs.pickups, rs.misses, rs.dryFires, rs.exhausted, rs.stateFlips)
	fmt.Printf("games_finished=%d best_score=%d\n", len(rs.games), bestScore(rs.games))
	for i, g := range rs.games {
		fmt.Printf("  game %d: score=%d ticks=%d shots=%d misses=%d pickups=%d accuracy=%s\n",
			i+1, g.score, g.ticks, g.shots, g.misses, g.pickups, accuracy(g.shots, g.misses))
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalKills := 0
	totalCaptures := 0
	totalPickups := 0
	totalMisses := 0
	totalGames := 0
	totalScore := 0
	totalGameTicks := 0
	totalShots := 0
	totalGameMisses := 0

	killTicks := make([]int, 0, len(all))
	captureTicks := make([]int, 0, len(all))
	pickupTicks := make([]int, 0, len(all))
	best := 0

	for _, rs := range all {
		totalKills += rs.kills
		totalCaptures += rs.captures
		totalPickups += rs.pickups
		totalMisses += rs.misses
		if rs.firstKill >= 0 {
			killTicks = append(killTicks, rs.firstKill)
		}
		if rs.firstCapture >= 0 {
			captureTicks = append(captureTicks, rs.firstCapture)
		}
		if rs.firstPickup >= 0 {
			pickupTicks = append(pickupTicks, rs.firstPickup)
		}
		for _, g := range rs.games {
			totalGames++
			totalScore += g.score
			totalGameTicks += g.ticks
			totalShots += g.shots
			totalGameMisses += g.misses
		}
		if b := bestScore(rs.games); b > best {
			best = b
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d games=%d best_score=%d\n", len(all), totalGames, best)
	fmt.Printf("avg_events_per_run: kills=%.1f captures=%.1f pickups=%.1f misses=%.1f\n",
		avg(totalKills, len(all)), avg(totalCaptures, len(all)), avg(totalPickups, len(all)), avg(totalMisses, len(all)))
	fmt.Printf("avg_per_game: score=%.2f ticks=%.1f accuracy=%s\n",
		avg(totalScore, totalGames), avg(totalGameTicks, totalGames), accuracy(totalShots, totalGameMisses))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_capture=%s first_pickup=%s\n",
		avgTickString(killTicks), avgTickString(captureTicks), avgTickString(pickupTicks))
}

func printBest(scores *scoreboard.Board) {
	best, err := scores.Top(context.Background(), 10)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("\n=== Scoreboard ===")
	for i, r := range best {
		fmt.Printf("%2d. score=%d ticks=%d shots=%d source=%s seed=%d\n", i+1, r.Score, r.Ticks, r.Shots, r.Source, r.Seed)
	}
}

func bestScore(games []gameResult) int {
	best := 0
	for _, g := range games {
		if g.score > best {
			best = g.score
		}
	}
	return best
}

func accuracy(shots, misses int) string {
	if shots <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(shots-misses)/float64(shots)*100)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
