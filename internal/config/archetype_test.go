package config

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultArchetype_Valid(t *testing.T) {
	a := DefaultArchetype()
	require.NoError(t, a.Validate())
	assert.Equal(t, 5.0, a.DetectionRadius)
	assert.Equal(t, 1.8, a.AttackRadius)
	assert.Equal(t, 500*time.Millisecond, a.UpdateInterval)
	assert.Equal(t, 4, a.AttackVariants)
}

func TestArchetype_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Archetype)
	}{
		{"empty name", func(a *Archetype) { a.Name = "" }},
		{"zero health", func(a *Archetype) { a.MaxHealth = 0 }},
		{"negative detection", func(a *Archetype) { a.DetectionRadius = -1 }},
		{"zero attack radius", func(a *Archetype) { a.AttackRadius = 0 }},
		{"attack beyond detection", func(a *Archetype) { a.AttackRadius = 6 }},
		{"zero cooldown", func(a *Archetype) { a.AttackCooldown = 0 }},
		{"zero interval", func(a *Archetype) { a.UpdateInterval = 0 }},
		{"probability above one", func(a *Archetype) { a.DefendProbability = 1.1 }},
		{"no variants", func(a *Archetype) { a.AttackVariants = 0 }},
		{"negative power", func(a *Archetype) { a.AttackPower = -5 }},
		{"negative strike delay", func(a *Archetype) { a.StrikeDelay = -time.Second }},
		{"nan health", func(a *Archetype) { a.MaxHealth = math.NaN() }},
		{"nan power", func(a *Archetype) { a.AttackPower = math.NaN() }},
		{"infinite detection", func(a *Archetype) { a.DetectionRadius = math.Inf(1) }},
		{"nan probability", func(a *Archetype) { a.DefendProbability = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultArchetype()
			tt.mutate(&a)
			assert.ErrorIs(t, a.Validate(), ErrInvalidArchetype)
		})
	}
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte(`
archetypes:
  - name: grunt
  - name: brute
    max_health: 250
    attack_cooldown: 3s
    knockback_duration: 1500ms
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"brute", "grunt"}, catalog.Names())

	brute := catalog["brute"]
	assert.Equal(t, 250.0, brute.MaxHealth)
	assert.Equal(t, 3*time.Second, brute.AttackCooldown)
	assert.Equal(t, 1500*time.Millisecond, brute.KnockbackDuration)
	assert.Equal(t, DefaultArchetype().DetectionRadius, brute.DetectionRadius)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "archetypes: []"},
		{"missing name", "archetypes:\n  - max_health: 10"},
		{"duplicate", "archetypes:\n  - name: a\n  - name: a"},
		{"invalid values", "archetypes:\n  - name: a\n    attack_cooldown: 0s"},
		{"nan values", "archetypes:\n  - name: a\n    max_health: .nan\n    attack_power: .nan\n    detection_radius: .inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.content))
			assert.ErrorIs(t, err, ErrInvalidArchetype)
		})
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), catalog)
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(DefaultCatalog())
	v := s.Version()

	_, ok := s.Archetype("brute")
	assert.False(t, ok)

	brute := DefaultArchetype()
	brute.Name = "brute"
	s.Replace(Catalog{"brute": brute})

	got, ok := s.Archetype("brute")
	require.True(t, ok)
	assert.Equal(t, brute, got)
	assert.Equal(t, v+1, s.Version())
	assert.Equal(t, []string{"brute"}, s.Names())
}
