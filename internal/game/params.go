package game

import "math"

// Params holds every tuning constant of the simulation. DefaultParams
// reproduces the reference game; config files may override any field.
type Params struct {
	// Hero
	RotAccel      float64 `mapstructure:"rotAccel" yaml:"rotAccel"`           // radians per tick while a turn key is held
	LinAccel      float64 `mapstructure:"linAccel" yaml:"linAccel"`           // world units per tick while a move key is held
	MomentumDecay float64 `mapstructure:"momentumDecay" yaml:"momentumDecay"` // speed carried over per tick with no key held
	StartBullets  int     `mapstructure:"startBullets" yaml:"startBullets"`
	StartLives    int     `mapstructure:"startLives" yaml:"startLives"`
	MessageTicks  int     `mapstructure:"messageTicks" yaml:"messageTicks"`   // display window of a player message
	PlunderRadius float64 `mapstructure:"plunderRadius" yaml:"plunderRadius"`
	ShotRadius    float64 `mapstructure:"shotRadius" yaml:"shotRadius"`
	ShotAngle     float64 `mapstructure:"shotAngle" yaml:"shotAngle"`         // max aim error of a hit, radians

	// Monster
	PatrolSpeed       float64 `mapstructure:"patrolSpeed" yaml:"patrolSpeed"`             // radians of arc per tick
	PatrolRadius      float64 `mapstructure:"patrolRadius" yaml:"patrolRadius"`
	ScanSpeed         float64 `mapstructure:"scanSpeed" yaml:"scanSpeed"`                 // radians of sweep per tick
	SpotThreshold     float64 `mapstructure:"spotThreshold" yaml:"spotThreshold"`
	PursuitStep       float64 `mapstructure:"pursuitStep" yaml:"pursuitStep"`
	PursuitTilt       float64 `mapstructure:"pursuitTilt" yaml:"pursuitTilt"`             // lean while chasing
	PursuitTiltRate   float64 `mapstructure:"pursuitTiltRate" yaml:"pursuitTiltRate"`
	PursuitY          float64 `mapstructure:"pursuitY" yaml:"pursuitY"`                   // crouch height while chasing
	PursuitYRate      float64 `mapstructure:"pursuitYRate" yaml:"pursuitYRate"`
	PerishY           float64 `mapstructure:"perishY" yaml:"perishY"`                     // depth a shot monster sinks to
	PerishYRate       float64 `mapstructure:"perishYRate" yaml:"perishYRate"`
	RespawnDelay      int     `mapstructure:"respawnDelay" yaml:"respawnDelay"`           // ticks
	RespawnKills      int     `mapstructure:"respawnKills" yaml:"respawnKills"`           // kills needed elsewhere before a dead monster may respawn
	TerritoryRadius   float64 `mapstructure:"territoryRadius" yaml:"territoryRadius"`
	CaptureRadius     float64 `mapstructure:"captureRadius" yaml:"captureRadius"`
	ScanMinArc        float64 `mapstructure:"scanMinArc" yaml:"scanMinArc"`
	ScanArcSpread     float64 `mapstructure:"scanArcSpread" yaml:"scanArcSpread"`
	ReturnArc         float64 `mapstructure:"returnArc" yaml:"returnArc"`
	ScanRepeatChance  float64 `mapstructure:"scanRepeatChance" yaml:"scanRepeatChance"`
	InitialPatrolFrom float64 `mapstructure:"initialPatrolFrom" yaml:"initialPatrolFrom"`
	InitialPatrolTo   float64 `mapstructure:"initialPatrolTo" yaml:"initialPatrolTo"`
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	const scanSpeed = 0.03
	return Params{
		RotAccel:      0.02,
		LinAccel:      50.0 / 2048.0,
		MomentumDecay: 0.85,
		StartBullets:  3,
		StartLives:    3,
		MessageTicks:  200,
		PlunderRadius: 1.5,
		ShotRadius:    3.0,
		ShotAngle:     0.2, // field of view is 0.45

		PatrolSpeed:       0.015,
		PatrolRadius:      1.0,
		ScanSpeed:         scanSpeed,
		SpotThreshold:     3.0 * scanSpeed,
		PursuitStep:       0.02,
		PursuitTilt:       0.6,
		PursuitTiltRate:   0.015,
		PursuitY:          -0.15,
		PursuitYRate:      -0.0005,
		PerishY:           -1.0,
		PerishYRate:       -0.005,
		RespawnDelay:      100,
		RespawnKills:      2,
		TerritoryRadius:   5.8,
		CaptureRadius:     0.2,
		ScanMinArc:        1.2,
		ScanArcSpread:     1.2,
		ReturnArc:         2.0,
		ScanRepeatChance:  0.5,
		InitialPatrolFrom: 0.0,
		InitialPatrolTo:   3.0,
	}
}

// scanSteps is the tick budget of one scan sweep (half a turn).
func (p Params) scanSteps() int {
	return int(math.Pi / p.ScanSpeed)
}
