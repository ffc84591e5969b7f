package game

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Garsondee/zombie-patrol/internal/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// simMetrics counts gameplay outcomes. With no global MeterProvider
// installed the instruments are no-ops.
type simMetrics struct {
	kills     metric.Int64Counter
	shots     metric.Int64Counter
	misses    metric.Int64Counter
	livesLost metric.Int64Counter
	pickups   metric.Int64Counter
	games     metric.Int64Counter
}

func newSimMetrics() *simMetrics {
	m := meter()
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			return noop.Int64Counter{}
		}
		return c
	}
	return &simMetrics{
		kills:     counter("zombie.kills", "Monsters shot"),
		shots:     counter("zombie.shots", "Shots fired by the hero"),
		misses:    counter("zombie.misses", "Shots that hit nothing"),
		livesLost: counter("zombie.lives_lost", "Lives lost to monsters"),
		pickups:   counter("zombie.ammo_pickups", "Bullets collected from ammo dumps"),
		games:     counter("zombie.games", "Games finished"),
	}
}

func (sm *simMetrics) add(c metric.Int64Counter, n int64) {
	c.Add(context.Background(), n)
}
