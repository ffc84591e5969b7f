// Package scoreboard records finished games in a SQLite database.
package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoRunID reports a record without a run ID.
var ErrNoRunID = errors.New("score record has no run id")

// Record is one finished game.
type Record struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"uniqueIndex;size:36"`
	Source     string    `gorm:"size:16"` // "game" or "headless"
	Seed       int64
	Score      int       `gorm:"index"`
	Ticks      int       // ticks the game lasted
	Shots      int
	Pickups    int       // bullets collected
	FinishedAt time.Time `gorm:"index"`
}

// Board is the high-score table.
type Board struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path and migrates the
// schema. An empty path keeps the table in memory.
func Open(path string, log zerolog.Logger) (*Board, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open scoreboard %q: %w", dsn, err)
	}
	if path == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// Every connection to file::memory: is its own database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate scoreboard: %w", err)
	}
	log.Debug().Str("path", dsn).Msg("scoreboard ready")
	return &Board{db: db, log: log}, nil
}

// Save stores r. A zero FinishedAt is stamped with the current UTC time.
func (b *Board) Save(ctx context.Context, r Record) error {
	if r.RunID == "" {
		return ErrNoRunID
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	if err := b.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("save score %s: %w", r.RunID, err)
	}
	b.log.Info().Str("run_id", r.RunID).Int("score", r.Score).Int("ticks", r.Ticks).Msg("score recorded")
	return nil
}

// Top returns the n best games: highest score first, then the quickest.
func (b *Board) Top(ctx context.Context, n int) ([]Record, error) {
	var out []Record
	err := b.db.WithContext(ctx).
		Order("score DESC").
		Order("ticks ASC").
		Order("id ASC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return out, nil
}

// Count is the number of recorded games.
func (b *Board) Count(ctx context.Context) (int64, error) {
	var n int64
	err := b.db.WithContext(ctx).Model(&Record{}).Count(&n).Error
	return n, err
}

// Close releases the database.
func (b *Board) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
