package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultArchetypeName is the archetype used when none is configured.
const DefaultArchetypeName = "grunt"

// ErrInvalidArchetype is returned when an archetype has values the AI cannot run with.
var ErrInvalidArchetype = errors.New("invalid archetype")

// Archetype holds per-kind tuning constants for hostile actors.
// An actor copies its archetype at spawn; later catalog reloads do not affect it.
type Archetype struct {
	Name string `yaml:"name"`

	MaxHealth   float64 `yaml:"max_health"`
	AttackPower float64 `yaml:"attack_power"`
	MoveSpeed   float64 `yaml:"move_speed"`

	DetectionRadius float64 `yaml:"detection_radius"`
	AttackRadius    float64 `yaml:"attack_radius"`

	AttackCooldown    time.Duration `yaml:"attack_cooldown"`
	AttackVariants    int           `yaml:"attack_variants"` // AttackNum is rolled in [1, AttackVariants]
	StrikeDelay       time.Duration `yaml:"strike_delay"`    // swing start -> damage
	DefendProbability float64       `yaml:"defend_probability"`
	DefendWindow      time.Duration `yaml:"defend_window"`

	KnockbackImpulse  float64       `yaml:"knockback_impulse"`
	KnockbackDuration time.Duration `yaml:"knockback_duration"`

	UpdateInterval time.Duration `yaml:"update_interval"` // perception poll period
	BlinkTime      time.Duration `yaml:"blink_time"`
	DeathDelay     time.Duration `yaml:"death_delay"`

	BodyRadius float64 `yaml:"body_radius"`
	BodyMass   float64 `yaml:"body_mass"`
}

// DefaultArchetype returns the stock melee enemy.
func DefaultArchetype() Archetype {
	return Archetype{
		Name:              DefaultArchetypeName,
		MaxHealth:         100,
		AttackPower:       10,
		MoveSpeed:         3,
		DetectionRadius:   5,
		AttackRadius:      1.8,
		AttackCooldown:    5 * time.Second,
		AttackVariants:    4,
		StrikeDelay:       400 * time.Millisecond,
		DefendProbability: 0.05,
		DefendWindow:      1 * time.Second,
		KnockbackImpulse:  1,
		KnockbackDuration: 2 * time.Second,
		UpdateInterval:    500 * time.Millisecond,
		BlinkTime:         200 * time.Millisecond,
		DeathDelay:        2 * time.Second,
		BodyRadius:        0.5,
		BodyMass:          1,
	}
}

// Validate rejects archetypes that signal a content bug.
func (a Archetype) Validate() error {
	var errs []error
	finite := func(field string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite, got %v", field, v))
			return false
		}
		return true
	}
	positive := func(field string, v float64) {
		if !finite(field, v) {
			return
		}
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", field, v))
		}
	}
	positiveDur := func(field string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", field, d))
		}
	}

	if a.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	positive("max_health", a.MaxHealth)
	positive("move_speed", a.MoveSpeed)
	positive("detection_radius", a.DetectionRadius)
	positive("attack_radius", a.AttackRadius)
	positive("body_radius", a.BodyRadius)
	positive("body_mass", a.BodyMass)
	positiveDur("attack_cooldown", a.AttackCooldown)
	positiveDur("knockback_duration", a.KnockbackDuration)
	positiveDur("update_interval", a.UpdateInterval)
	positiveDur("blink_time", a.BlinkTime)
	positiveDur("death_delay", a.DeathDelay)

	finite("attack_power", a.AttackPower)
	finite("knockback_impulse", a.KnockbackImpulse)
	finite("defend_probability", a.DefendProbability)

	if a.AttackPower < 0 {
		errs = append(errs, fmt.Errorf("attack_power must not be negative, got %v", a.AttackPower))
	}
	if a.KnockbackImpulse < 0 {
		errs = append(errs, fmt.Errorf("knockback_impulse must not be negative, got %v", a.KnockbackImpulse))
	}
	if a.StrikeDelay < 0 || a.DefendWindow < 0 {
		errs = append(errs, errors.New("strike_delay and defend_window must not be negative"))
	}
	if a.AttackRadius > a.DetectionRadius {
		errs = append(errs, fmt.Errorf("attack_radius %v exceeds detection_radius %v", a.AttackRadius, a.DetectionRadius))
	}
	if a.DefendProbability < 0 || a.DefendProbability > 1 {
		errs = append(errs, fmt.Errorf("defend_probability must be in [0, 1], got %v", a.DefendProbability))
	}
	if a.AttackVariants < 1 {
		errs = append(errs, fmt.Errorf("attack_variants must be at least 1, got %d", a.AttackVariants))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidArchetype, a.Name, errors.Join(errs...))
	}
	return nil
}

// Catalog maps archetype names to archetypes.
type Catalog map[string]Archetype

// DefaultCatalog returns a catalog holding only DefaultArchetype.
func DefaultCatalog() Catalog {
	a := DefaultArchetype()
	return Catalog{a.Name: a}
}

// Names returns archetype names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type catalogFile struct {
	Archetypes []yaml.Node `yaml:"archetypes"`
}

// ParseCatalog decodes a YAML archetype list.
// Every entry starts from DefaultArchetype, so files only list overrides.
func ParseCatalog(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Archetypes) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidArchetype)
	}

	catalog := make(Catalog, len(file.Archetypes))
	for i := range file.Archetypes {
		a := DefaultArchetype()
		a.Name = ""
		if err := file.Archetypes[i].Decode(&a); err != nil {
			return nil, fmt.Errorf("archetype #%d: %w", i+1, err)
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := catalog[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidArchetype, a.Name)
		}
		catalog[a.Name] = a
	}
	return catalog, nil
}

// LoadCatalog loads an archetype catalog from a YAML file.
// If the file doesn't exist, returns DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("reading archetypes %s: %w", path, err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parsing archetypes %s: %w", path, err)
	}
	return catalog, nil
}
