package ai

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/testutil"
)

const enemyID = 100

type harness struct {
	anim   *testutil.Animator
	audio  *testutil.Audio
	hl     *testutil.Highlighter
	mover  *testutil.Mover
	body   *testutil.Body
	world  *testutil.Perception
	rem    *testutil.Remover
	player *testutil.Dummy
	e      *Enemy
}

// newHarness builds a started enemy at the origin and a player dummy far away.
// The first perception poll has already run.
func newHarness(t testing.TB, rng *rand.Rand) *harness {
	t.Helper()

	h := &harness{
		anim:   &testutil.Animator{},
		audio:  &testutil.Audio{},
		hl:     &testutil.Highlighter{},
		mover:  &testutil.Mover{},
		body:   &testutil.Body{},
		world:  &testutil.Perception{},
		rem:    &testutil.Remover{},
		player: testutil.NewDummy(1, model.NewLocation(10, 0)),
	}
	h.world.Add(h.player, model.LayerPlayer)

	e, err := NewEnemy(enemyID, config.DefaultArchetype(), Deps{
		Mover:      h.mover,
		Body:       h.body,
		Perception: h.world,
		Animator:   h.anim,
		Audio:      h.audio,
		Highlight:  h.hl,
		Remover:    h.rem,
		Resolver:   combat.NewResolver(),
		Rand:       rng,
	})
	require.NoError(t, err)
	h.e = e

	e.Start()
	e.Tick(0)
	return h
}

// toAttack walks the enemy Idle → Track → Attack with the player in reach.
func (h *harness) toAttack(t testing.TB) {
	t.Helper()
	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(500 * time.Millisecond)
	require.Equal(t, model.StateTrack, h.e.State())

	h.player.Loc = model.NewLocation(1, 0)
	h.e.Tick(500 * time.Millisecond)
	require.Equal(t, model.StateAttack, h.e.State())
}

func TestNewEnemy_InvalidArchetype(t *testing.T) {
	arch := config.DefaultArchetype()
	arch.AttackCooldown = 0

	_, err := NewEnemy(1, arch, Deps{})
	assert.ErrorIs(t, err, config.ErrInvalidArchetype)
}

func TestNewEnemy_MissingCollaborator(t *testing.T) {
	full := func() Deps {
		return Deps{
			Mover:      &testutil.Mover{},
			Body:       &testutil.Body{},
			Perception: &testutil.Perception{},
			Animator:   &testutil.Animator{},
			Audio:      &testutil.Audio{},
			Highlight:  &testutil.Highlighter{},
			Remover:    &testutil.Remover{},
			Resolver:   combat.NewResolver(),
		}
	}

	tests := []struct {
		name  string
		clear func(*Deps)
	}{
		{"mover", func(d *Deps) { d.Mover = nil }},
		{"body", func(d *Deps) { d.Body = nil }},
		{"perception", func(d *Deps) { d.Perception = nil }},
		{"animator", func(d *Deps) { d.Animator = nil }},
		{"audio", func(d *Deps) { d.Audio = nil }},
		{"highlighter", func(d *Deps) { d.Highlight = nil }},
		{"remover", func(d *Deps) { d.Remover = nil }},
		{"resolver", func(d *Deps) { d.Resolver = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full()
			tt.clear(&deps)
			_, err := NewEnemy(1, config.DefaultArchetype(), deps)
			require.ErrorIs(t, err, ErrMissingCollaborator)
			assert.Contains(t, err.Error(), tt.name)
		})
	}

	_, err := NewEnemy(1, config.DefaultArchetype(), full())
	assert.NoError(t, err)
}

func TestEnemy_Start(t *testing.T) {
	h := newHarness(t, testutil.Never())

	assert.Equal(t, model.StateIdle, h.e.State())
	assert.Equal(t, 100.0, h.e.Health())
	assert.Equal(t, 3.0, h.mover.Speed)
	assert.Equal(t, 1.8, h.mover.StoppingDistance)
	assert.True(t, h.body.Kinematic)

	status, ok := h.anim.Int(model.AnimCurrentStatus)
	require.True(t, ok)
	assert.Equal(t, int(model.StateIdle), status)
}

func TestEnemy_TakeDamage_HitAndBlink(t *testing.T) {
	h := newHarness(t, testutil.Never())

	var changes [][2]float64
	h.e.OnHealthChange(func(cur, max float64) { changes = append(changes, [2]float64{cur, max}) })

	h.e.TakeDamage(30)

	assert.Equal(t, 70.0, h.e.Health())
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnHit))
	assert.Equal(t, 1, h.audio.Count(model.SoundHit))
	assert.Equal(t, [][2]float64{{70, 100}}, changes)
	assert.Equal(t, 1.0, h.hl.Current(), "blink starts")

	h.e.Tick(199 * time.Millisecond)
	assert.Equal(t, 1.0, h.hl.Current())

	h.e.Tick(time.Millisecond)
	assert.Equal(t, 0.0, h.hl.Current(), "blink ends after blink time")
}

func TestEnemy_TakeDamage_OverlappingBlinks(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.e.TakeDamage(5)
	h.e.Tick(100 * time.Millisecond)
	h.e.TakeDamage(5)

	h.e.Tick(100 * time.Millisecond)
	assert.Equal(t, 0.0, h.hl.Current(), "first blink restores")

	h.e.Tick(100 * time.Millisecond)
	assert.Equal(t, []float64{1, 1, 0, 0}, h.hl.Values)
}

func TestEnemy_TakeDamage_Defending(t *testing.T) {
	h := newHarness(t, testutil.Never())

	var changes int
	h.e.OnHealthChange(func(float64, float64) { changes++ })

	h.e.SetDefending(true)
	h.e.TakeDamage(50)

	assert.Equal(t, 100.0, h.e.Health(), "defended damage is fully negated")
	assert.Equal(t, 1, h.audio.Count(model.SoundHit), "hit sound still plays")
	assert.Equal(t, 1, changes, "zero-damage hit is still observable")
	assert.Empty(t, h.hl.Values, "no blink on defended hit")
}

func TestEnemy_TakeDamage_Negative(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.e.TakeDamage(-40)
	assert.Equal(t, 100.0, h.e.Health())
}

func TestEnemy_NaNLeavesHealth(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Enemy)
	}{
		{"take damage", func(e *Enemy) { e.TakeDamage(math.NaN()) }},
		{"heal", func(e *Enemy) { e.Heal(math.NaN()) }},
		{"set health", func(e *Enemy) { e.SetHealth(math.NaN()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testutil.Never())

			tt.apply(h.e)

			assert.Equal(t, 100.0, h.e.Health())
			assert.False(t, h.e.IsDead())
			assert.NotEqual(t, model.StateDie, h.e.State())
		})
	}
}

func TestEnemy_HealthBounds(t *testing.T) {
	h := newHarness(t, testutil.Never())
	rng := testutil.Rand(3)

	for range 200 {
		if h.e.IsDead() {
			break
		}
		if rng.IntN(3) == 0 {
			h.e.Heal(rng.Float64() * 40)
		} else {
			h.e.TakeDamage(rng.Float64() * 25)
		}
		hp := h.e.Health()
		require.GreaterOrEqual(t, hp, 0.0)
		require.LessOrEqual(t, hp, h.e.MaxHealth())
	}
}

func TestEnemy_DiesAtZeroHealth(t *testing.T) {
	h := newHarness(t, testutil.Never())

	deaths := 0
	h.e.OnDie(func(*Enemy) { deaths++ })

	h.e.TakeDamage(150)

	assert.Equal(t, 0.0, h.e.Health())
	assert.Equal(t, model.StateDie, h.e.State())
	assert.True(t, h.e.IsDead())
	assert.Equal(t, 1, deaths)
	assert.Equal(t, 1, h.audio.Count(model.SoundDie))
	assert.Equal(t, model.LayerDefault, h.body.Layer, "no longer targetable")
	assert.True(t, h.mover.IsStopped)

	dead, _ := h.anim.Bool(model.AnimIsDead)
	assert.True(t, dead)
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnDie))

	// nothing changes after death
	h.e.TakeDamage(10)
	h.e.Heal(50)
	h.e.SetHealth(80)
	h.e.ParryAction(model.NewLocation(1, 0))
	assert.Equal(t, 0.0, h.e.Health())
	assert.Equal(t, model.StateDie, h.e.State())
	assert.Equal(t, 1, h.audio.Count(model.SoundHit), "only the killing blow")
	assert.Equal(t, 1, deaths)

	h.e.Tick(1999 * time.Millisecond)
	assert.Empty(t, h.rem.Despawned)
	h.e.Tick(time.Millisecond)
	assert.Equal(t, []uint32{enemyID}, h.rem.Despawned)
}

func TestEnemy_InstantKill(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.toAttack(t)

	deaths := 0
	h.e.OnDie(func(*Enemy) { deaths++ })

	h.e.InstantKill()
	h.e.InstantKill()

	assert.Equal(t, model.StateDie, h.e.State())
	assert.Equal(t, 1, deaths)
	assert.True(t, h.mover.IsStopped, "movement frozen")
	assert.Equal(t, 100.0, h.e.Health(), "instant kill bypasses health")

	status, _ := h.anim.Int(model.AnimCurrentStatus)
	assert.Equal(t, int(model.StateDie), status)

	h.e.Tick(5 * time.Second)
	assert.Equal(t, []uint32{enemyID}, h.rem.Despawned, "removed exactly once")
	assert.Equal(t, model.StateDie, h.e.State())
}

func TestEnemy_Perception_IdleTrackAttack(t *testing.T) {
	h := newHarness(t, testutil.Never())
	assert.Equal(t, model.StateIdle, h.e.State())

	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateTrack, h.e.State())
	moving, _ := h.anim.Bool(model.AnimIsMoving)
	assert.True(t, moving)
	id, ok := h.e.Target()
	assert.True(t, ok)
	assert.Equal(t, uint32(1), id)

	h.e.Tick(500 * time.Millisecond)
	assert.Equal(t, model.StateTrack, h.e.State())
	assert.Equal(t, []model.Location{{X: 4}}, h.mover.Destinations, "track moves toward the target")

	h.player.Loc = model.NewLocation(1.5, 0)
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateAttack, h.e.State())
	assert.True(t, h.mover.IsStopped, "movement halted in attack")
	moving, _ = h.anim.Bool(model.AnimIsMoving)
	assert.False(t, moving)
}

func TestEnemy_Perception_PollsOnlyOnInterval(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(499 * time.Millisecond)
	assert.Equal(t, model.StateIdle, h.e.State())

	h.e.Tick(time.Millisecond)
	assert.Equal(t, model.StateTrack, h.e.State())
}

func TestEnemy_AttackOnlyFromTrack(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.player.Loc = model.NewLocation(1, 0)
	h.e.Tick(500 * time.Millisecond)
	assert.Equal(t, model.StateTrack, h.e.State(), "idle never jumps to attack")

	h.e.Tick(500 * time.Millisecond)
	assert.Equal(t, model.StateAttack, h.e.State())
}

func TestEnemy_Track_PathPending(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.mover.Pending = true

	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(500 * time.Millisecond)
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateTrack, h.e.State())
	assert.Empty(t, h.mover.Destinations, "no new destination while a path is pending")
}

func TestEnemy_Track_TargetLost(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(500 * time.Millisecond)
	require.Equal(t, model.StateTrack, h.e.State())

	h.player.Loc = model.NewLocation(6, 0)
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateIdle, h.e.State())
	_, ok := h.e.Target()
	assert.False(t, ok)
}

func TestEnemy_Attack_OutOfRangeReturnsToTrack(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.toAttack(t)

	h.player.Loc = model.NewLocation(3, 0)
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateTrack, h.e.State())
	assert.False(t, h.mover.IsStopped, "movement resumed")
	moving, _ := h.anim.Bool(model.AnimIsMoving)
	assert.True(t, moving)
}

func TestEnemy_Attack_RequiresStoppedMover(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.toAttack(t)

	h.mover.IsStopped = false
	h.e.Tick(500 * time.Millisecond)

	assert.Equal(t, model.StateTrack, h.e.State())
}

func TestEnemy_Attack_TargetGone(t *testing.T) {
	tests := []struct {
		name string
		lose func(h *harness)
	}{
		{"removed from world", func(h *harness) { h.world.Remove(h.player.ID) }},
		{"dead", func(h *harness) { h.player.Dead = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testutil.Never())
			h.toAttack(t)

			tt.lose(h)
			h.e.Tick(500 * time.Millisecond)

			assert.Equal(t, model.StateIdle, h.e.State())
			assert.False(t, h.mover.IsStopped)
		})
	}
}

func TestEnemy_Attack_Cooldown(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.toAttack(t)

	// 5s cooldown at 0.5s polls: the accumulator must exceed 5s, i.e. the 11th poll.
	for i := range 10 {
		h.e.Tick(500 * time.Millisecond)
		require.Equal(t, 0, h.anim.Triggers(model.AnimOnAttack), "poll %d", i+1)
	}
	assert.Len(t, h.mover.Facing, 10, "locks on every attack poll")

	h.e.Tick(500 * time.Millisecond)
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnAttack))
	variant, _ := h.anim.Int(model.AnimAttackNum)
	assert.Equal(t, 4, variant)
	assert.Zero(t, h.anim.Triggers(model.AnimOnDefend))

	h.e.Tick(399 * time.Millisecond)
	assert.Empty(t, h.player.Damage)

	h.e.Tick(time.Millisecond)
	assert.Equal(t, []float64{10}, h.player.Damage, "strike lands after strike delay")

	// cooldown restarted
	for range 10 {
		h.e.Tick(500 * time.Millisecond)
	}
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnAttack))
}

func TestEnemy_Attack_VariantsInRange(t *testing.T) {
	arch := config.DefaultArchetype()
	arch.AttackCooldown = 100 * time.Millisecond

	h := newHarness(t, testutil.Rand(99))
	h.e.arch = arch
	h.toAttack(t)

	for range 50 {
		h.e.Tick(500 * time.Millisecond)
	}

	seen := map[int]bool{}
	for _, c := range h.anim.Calls {
		if c.Param == model.AnimAttackNum {
			require.GreaterOrEqual(t, c.Int, 1)
			require.LessOrEqual(t, c.Int, 4)
			seen[c.Int] = true
		}
	}
	assert.NotEmpty(t, seen)
}

func TestEnemy_Attack_StrikeCancelledByDeath(t *testing.T) {
	arch := config.DefaultArchetype()
	arch.AttackCooldown = 100 * time.Millisecond

	h := newHarness(t, testutil.Never())
	h.e.arch = arch
	h.toAttack(t)

	h.e.Tick(500 * time.Millisecond)
	require.Equal(t, 1, h.anim.Triggers(model.AnimOnAttack))

	h.e.InstantKill()
	h.e.Tick(time.Second)

	assert.Empty(t, h.player.Damage)
}

func TestEnemy_Attack_DefendWindow(t *testing.T) {
	h := newHarness(t, testutil.Always())
	h.toAttack(t)

	h.e.Tick(500 * time.Millisecond)
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnDefend))
	assert.True(t, h.e.IsDefending())

	h.e.TakeDamage(50)
	assert.Equal(t, 100.0, h.e.Health())

	h.player.Loc = model.NewLocation(3, 0)
	h.e.Tick(500 * time.Millisecond)
	require.Equal(t, model.StateTrack, h.e.State())
	assert.True(t, h.e.IsDefending(), "window still open")

	h.e.Tick(500 * time.Millisecond)
	assert.False(t, h.e.IsDefending(), "window closed after defend window")
}

func TestEnemy_DefendWindowAfterDeath(t *testing.T) {
	h := newHarness(t, testutil.Always())
	h.toAttack(t)

	h.e.Tick(500 * time.Millisecond)
	require.True(t, h.e.IsDefending())

	h.e.InstantKill()
	h.e.Tick(time.Second)

	assert.False(t, h.e.IsDefending())
	assert.True(t, h.e.IsDead())
	assert.Equal(t, 1, h.anim.Triggers(model.AnimOnDefend), "no defend after death")
}

func TestEnemy_ParriedStrikeKnocksBack(t *testing.T) {
	arch := config.DefaultArchetype()
	arch.AttackCooldown = 100 * time.Millisecond

	h := newHarness(t, testutil.Never())
	h.e.arch = arch
	h.toAttack(t)
	h.player.Parrying = true

	h.e.Tick(500 * time.Millisecond) // swing
	h.e.Tick(400 * time.Millisecond) // strike

	assert.Equal(t, model.StateKnockback, h.e.State())
	assert.Equal(t, []model.Location{{X: -1}}, h.body.Impulses, "pushed away from the player")
	assert.False(t, h.body.Kinematic)
	assert.Equal(t, []float64{10}, h.player.Damage, "parried strike still damages the defender")
}

func TestEnemy_ParryAction_FromAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
	}{
		{"idle", func(t *testing.T, h *harness) {}},
		{"track", func(t *testing.T, h *harness) {
			h.player.Loc = model.NewLocation(4, 0)
			h.e.Tick(500 * time.Millisecond)
			require.Equal(t, model.StateTrack, h.e.State())
		}},
		{"attack", func(t *testing.T, h *harness) { h.toAttack(t) }},
		{"knockback", func(t *testing.T, h *harness) { h.e.ParryAction(model.NewLocation(1, 0)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testutil.Never())
			tt.setup(t, h)
			before := h.anim.Triggers(model.AnimOnParried)

			h.e.ParryAction(model.NewLocation(0, -1))

			assert.Equal(t, model.StateKnockback, h.e.State())
			assert.Equal(t, before+1, h.anim.Triggers(model.AnimOnParried))
			assert.Equal(t, model.Location{Y: 1}, h.body.Impulses[len(h.body.Impulses)-1])
			assert.False(t, h.body.Kinematic)
			_, ok := h.e.Target()
			assert.False(t, ok, "knockback loses the target")
		})
	}
}

func TestEnemy_Knockback_ResolvesToIdleAfterDuration(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.e.ParryAction(model.NewLocation(0, -1))

	h.e.Tick(1999 * time.Millisecond)
	assert.Equal(t, model.StateKnockback, h.e.State())

	h.e.Tick(time.Millisecond)
	assert.Equal(t, model.StateIdle, h.e.State())
	assert.True(t, h.body.Kinematic, "stability restored")
}

func TestEnemy_Knockback_ReparryRestarts(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.e.ParryAction(model.NewLocation(0, -1))
	h.e.Tick(time.Second)
	h.e.ParryAction(model.NewLocation(0, -1))

	h.e.Tick(1999 * time.Millisecond)
	assert.Equal(t, model.StateKnockback, h.e.State())
	h.e.Tick(time.Millisecond)
	assert.Equal(t, model.StateIdle, h.e.State())
	assert.Len(t, h.body.Impulses, 2)
}

func TestEnemy_Knockback_DeathWins(t *testing.T) {
	h := newHarness(t, testutil.Never())

	h.e.ParryAction(model.NewLocation(0, -1))
	h.e.InstantKill()
	h.e.Tick(3 * time.Second)

	assert.Equal(t, model.StateDie, h.e.State())
	assert.True(t, h.body.Kinematic)
	assert.Equal(t, []bool{true, false, true}, h.body.Toggles, "start, knockback, death")
}

func TestEnemy_Search_FirstMatchNotNearest(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.world.Remove(h.player.ID)

	far := testutil.NewDummy(2, model.NewLocation(4, 0))
	near := testutil.NewDummy(3, model.NewLocation(1, 0))
	ally := testutil.NewDummy(4, model.NewLocation(0.5, 0))
	h.world.Add(ally, model.LayerEnemy)
	h.world.Add(far, model.LayerPlayer)
	h.world.Add(near, model.LayerPlayer)

	h.e.Tick(500 * time.Millisecond)

	id, ok := h.e.Target()
	require.True(t, ok)
	assert.Equal(t, uint32(2), id, "first candidate wins, enemy layer ignored")
}

func TestEnemy_StopDropsTimers(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.e.Stop()

	h.player.Loc = model.NewLocation(4, 0)
	h.e.Tick(time.Second)

	assert.Equal(t, model.StateIdle, h.e.State())
	assert.Zero(t, h.e.sched.Len())
}

func TestEnemy_InstantKillAfterStopStillDespawns(t *testing.T) {
	h := newHarness(t, testutil.Never())
	h.e.Stop()

	h.e.InstantKill()
	require.True(t, h.e.IsDead())
	assert.Empty(t, h.rem.Despawned)

	h.e.Tick(h.e.Archetype().DeathDelay)
	assert.Equal(t, []uint32{enemyID}, h.rem.Despawned)
}
