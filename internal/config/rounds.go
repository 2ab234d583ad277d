package config

import (
	"fmt"
	"math"
	"time"
)

// Point is a YAML-friendly 2D coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func finitePoint(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// PlayerConfig describes the scripted player the enemies fight.
type PlayerConfig struct {
	Spawn          Point         `yaml:"spawn"`
	MaxHealth      float64       `yaml:"max_health"`
	AttackPower    float64       `yaml:"attack_power"`
	AttackReach    float64       `yaml:"attack_reach"`
	AttackInterval time.Duration `yaml:"attack_interval"`
	ParryChance    float64       `yaml:"parry_chance"` // rolled on every attack opportunity
	ParryWindow    time.Duration `yaml:"parry_window"`
	MoveSpeed      float64       `yaml:"move_speed"`
	KnockbackForce float64       `yaml:"knockback_force"`
	KnockbackTime  time.Duration `yaml:"knockback_time"`
	SightRadius    float64       `yaml:"sight_radius"` // how far the player looks for enemies
	BodyRadius     float64       `yaml:"body_radius"`
	BodyMass       float64       `yaml:"body_mass"`
}

// DefaultPlayer returns PlayerConfig with sensible defaults.
func DefaultPlayer() PlayerConfig {
	return PlayerConfig{
		Spawn:          Point{X: 0, Y: 0},
		MaxHealth:      300,
		AttackPower:    35,
		AttackReach:    2.0,
		AttackInterval: 1200 * time.Millisecond,
		ParryChance:    0.25,
		ParryWindow:    600 * time.Millisecond,
		MoveSpeed:      4,
		KnockbackForce: 1,
		KnockbackTime:  500 * time.Millisecond,
		SightRadius:    30,
		BodyRadius:     0.4,
		BodyMass:       1,
	}
}

// Validate checks player values.
func (p PlayerConfig) Validate() error {
	floats := []struct {
		field string
		v     float64
	}{
		{"spawn.x", p.Spawn.X},
		{"spawn.y", p.Spawn.Y},
		{"max_health", p.MaxHealth},
		{"attack_power", p.AttackPower},
		{"attack_reach", p.AttackReach},
		{"parry_chance", p.ParryChance},
		{"move_speed", p.MoveSpeed},
		{"knockback_force", p.KnockbackForce},
		{"sight_radius", p.SightRadius},
		{"body_radius", p.BodyRadius},
		{"body_mass", p.BodyMass},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.field, f.v)
		}
	}
	if p.MaxHealth <= 0 {
		return fmt.Errorf("max_health must be positive, got %v", p.MaxHealth)
	}
	if p.AttackReach <= 0 || p.AttackInterval <= 0 {
		return fmt.Errorf("attack_reach and attack_interval must be positive")
	}
	if p.ParryChance < 0 || p.ParryChance > 1 {
		return fmt.Errorf("parry_chance must be in [0, 1], got %v", p.ParryChance)
	}
	if p.SightRadius < p.AttackReach {
		return fmt.Errorf("sight_radius %v is below attack_reach %v", p.SightRadius, p.AttackReach)
	}
	if p.BodyRadius <= 0 || p.BodyMass <= 0 {
		return fmt.Errorf("body_radius and body_mass must be positive")
	}
	return nil
}

// RoundsConfig holds round orchestration values.
type RoundsConfig struct {
	EnemiesPerRound   []int         `yaml:"enemies_per_round"` // one entry per round
	MaxRoundTime      time.Duration `yaml:"max_round_time"`
	IntroDelay        time.Duration `yaml:"intro_delay"`    // round banner before spawning
	SpawnInterval     time.Duration `yaml:"spawn_interval"` // delay between spawns in a round
	SpawnPoints       []Point       `yaml:"spawn_points"`
	KeepUpThreshold   int           `yaml:"keep_up_threshold"` // enemies left when the alert fires
	SlowMotionScale   float64       `yaml:"slow_motion_scale"`
	SlowMotionPeriod  time.Duration `yaml:"slow_motion_period"`
	CarryOverLeftover bool          `yaml:"carry_over_leftover"` // add remaining time to next round
}

// DefaultRounds returns RoundsConfig matching three rounds of 5, 10 and 15 enemies.
func DefaultRounds() RoundsConfig {
	return RoundsConfig{
		EnemiesPerRound: []int{5, 10, 15},
		MaxRoundTime:    180 * time.Second,
		IntroDelay:      3 * time.Second,
		SpawnInterval:   1 * time.Second,
		SpawnPoints: []Point{
			{X: 12, Y: 0},
			{X: -12, Y: 0},
			{X: 0, Y: 12},
			{X: 0, Y: -12},
		},
		KeepUpThreshold:   3,
		SlowMotionScale:   0.2,
		SlowMotionPeriod:  1 * time.Second,
		CarryOverLeftover: true,
	}
}

// Total returns the number of rounds.
func (r RoundsConfig) Total() int {
	return len(r.EnemiesPerRound)
}

// Validate checks round values.
func (r RoundsConfig) Validate() error {
	if len(r.EnemiesPerRound) == 0 {
		return fmt.Errorf("enemies_per_round must list at least one round")
	}
	for i, n := range r.EnemiesPerRound {
		if n <= 0 {
			return fmt.Errorf("round %d: enemy count must be positive, got %d", i+1, n)
		}
	}
	if r.MaxRoundTime <= 0 {
		return fmt.Errorf("max_round_time must be positive, got %s", r.MaxRoundTime)
	}
	if len(r.SpawnPoints) == 0 {
		return fmt.Errorf("spawn_points must not be empty")
	}
	for i, pt := range r.SpawnPoints {
		if !finitePoint(pt) {
			return fmt.Errorf("spawn point %d must be finite, got (%v, %v)", i+1, pt.X, pt.Y)
		}
	}
	if math.IsNaN(r.SlowMotionScale) || r.SlowMotionScale <= 0 || r.SlowMotionScale > 1 {
		return fmt.Errorf("slow_motion_scale must be in (0, 1], got %v", r.SlowMotionScale)
	}
	return nil
}
