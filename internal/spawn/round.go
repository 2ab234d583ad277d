package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/model"
)

// RoundControllerID is the tick manager slot of the round controller.
// Actor ids start far above it.
const RoundControllerID uint32 = 1

const (
	timerIntro    = "intro"
	timerSpawn    = "spawn"
	timerSlowMo   = "slowmo"
	timerNextWave = "next"
)

// Spawner creates enemies for a round.
type Spawner interface {
	SpawnEnemy(ctx context.Context, archetype string, loc model.Location) (*ai.Enemy, error)
}

// TimeScaler controls the game clock (slow motion).
type TimeScaler interface {
	SetTimeScale(scale float64)
}

// Result is the outcome of a finished game.
type Result struct {
	Won    bool
	Rounds int           // rounds started
	Score  time.Duration // time left on the final round clock, zero on a loss
}

// Round orchestrates rounds of enemies against the player.
//
// Each round announces itself, waits IntroDelay, then spawns its enemies one
// per SpawnInterval while the round clock counts down. Killing every enemy
// ends the round: victory cue, slow motion, leftover time carried into the
// next round. The clock running out or the player dying ends the game.
//
// Round is a Controller: all methods run on the tick goroutine.
type Round struct {
	cfg       config.RoundsConfig
	archetype string
	spawner   Spawner
	clock     TimeScaler
	audio     ai.AudioSink
	sched     *ai.Scheduler

	round     int // 1-based, 0 before the first round
	enemies   int // enemies of the current round
	spawned   int
	left      int
	remaining []time.Duration
	nextPoint int
	counting  bool
	roundOver bool
	gameOver  bool
	finished  bool
	running   bool

	onRoundStart []func(enemies, round int)
	onEnemyDie   []func(left int)
	onRoundOver  []func(round int)
	onGameOver   []func()
	onFinish     []func(Result)
}

var _ ai.Controller = (*Round)(nil)

// NewRound creates a round controller spawning enemies of the named archetype.
func NewRound(cfg config.RoundsConfig, archetype string, spawner Spawner, clock TimeScaler, audio ai.AudioSink) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating rounds: %w", err)
	}
	if spawner == nil || clock == nil || audio == nil {
		return nil, fmt.Errorf("%w: round needs spawner, clock and audio", ai.ErrMissingCollaborator)
	}

	remaining := make([]time.Duration, cfg.Total())
	for i := range remaining {
		remaining[i] = cfg.MaxRoundTime
	}

	return &Round{
		cfg:       cfg,
		archetype: archetype,
		spawner:   spawner,
		clock:     clock,
		audio:     audio,
		sched:     ai.NewScheduler(),
		remaining: remaining,
	}, nil
}

// OnRoundStart registers a listener for (enemies to kill, round number).
func (r *Round) OnRoundStart(fn func(enemies, round int)) {
	r.onRoundStart = append(r.onRoundStart, fn)
}

// OnEnemyDie registers a listener for the number of enemies left.
func (r *Round) OnEnemyDie(fn func(left int)) { r.onEnemyDie = append(r.onEnemyDie, fn) }

// OnRoundOver registers a listener for a cleared round.
func (r *Round) OnRoundOver(fn func(round int)) { r.onRoundOver = append(r.onRoundOver, fn) }

// OnGameOver registers a listener for a lost game.
func (r *Round) OnGameOver(fn func()) { r.onGameOver = append(r.onGameOver, fn) }

// OnFinish registers a listener for the end of the game, won or lost.
func (r *Round) OnFinish(fn func(Result)) { r.onFinish = append(r.onFinish, fn) }

// Start begins the first round.
func (r *Round) Start() {
	if r.running || r.finished {
		return
	}
	r.running = true
	r.startRound()
}

// Stop halts the controller and restores normal time.
func (r *Round) Stop() {
	r.running = false
	r.counting = false
	r.sched.Clear()
	r.clock.SetTimeScale(1)
}

// Tick advances the round clock and timers by dt of game time.
// The clock counts whole frames: it starts on the frame after the intro.
func (r *Round) Tick(dt time.Duration) {
	if !r.running {
		return
	}
	r.countdown(dt)
	r.sched.Advance(dt)
}

// Round returns the current round number (1-based, 0 before Start).
func (r *Round) Round() int { return r.round }

// EnemiesLeft returns enemies still to be killed in the current round.
func (r *Round) EnemiesLeft() int { return r.left }

// IsRoundOver reports whether the current round was cleared.
func (r *Round) IsRoundOver() bool { return r.roundOver }

// IsGameOver reports whether the game was lost.
func (r *Round) IsGameOver() bool { return r.gameOver }

// Finished reports whether the game ended, won or lost.
func (r *Round) Finished() bool { return r.finished }

// Remaining returns the clock of the current round.
func (r *Round) Remaining() time.Duration { return r.RemainingIn(r.round) }

// RemainingIn returns the clock of round n (1-based).
func (r *Round) RemainingIn(n int) time.Duration {
	if n < 1 || n > len(r.remaining) {
		return 0
	}
	return r.remaining[n-1]
}

// GameOver ends the game as lost (player death). Idempotent.
func (r *Round) GameOver() {
	if r.gameOver || r.finished {
		return
	}
	r.gameOver = true
	r.counting = false
	r.sched.Cancel(timerIntro)
	r.sched.Cancel(timerSpawn)
	r.sched.Cancel(timerNextWave)

	r.audio.Play(model.SoundGameOver)
	slog.Info("game over", "round", r.round, "enemiesLeft", r.left)
	for _, fn := range r.onGameOver {
		fn()
	}
	r.finish(Result{Won: false, Rounds: r.round})
}

func (r *Round) startRound() {
	r.round++
	r.enemies = r.cfg.EnemiesPerRound[r.round-1]
	r.left = r.enemies
	r.spawned = 0
	r.roundOver = false

	slog.Info("round started", "round", r.round, "enemies", r.enemies, "time", r.Remaining())
	for _, fn := range r.onRoundStart {
		fn(r.enemies, r.round)
	}

	r.sched.AfterKey(timerIntro, r.cfg.IntroDelay, func() {
		r.counting = true
		r.spawnNext()
		if r.spawned < r.enemies {
			r.sched.Every(timerSpawn, r.cfg.SpawnInterval, r.cfg.SpawnInterval, r.spawnNext)
		}
	})
}

// spawnNext spawns one enemy at the next spawn point (round robin).
func (r *Round) spawnNext() {
	if r.gameOver || r.spawned >= r.enemies {
		r.sched.Cancel(timerSpawn)
		return
	}
	pt := r.cfg.SpawnPoints[r.nextPoint%len(r.cfg.SpawnPoints)]
	r.nextPoint++
	r.spawned++
	if r.spawned >= r.enemies {
		r.sched.Cancel(timerSpawn)
	}

	// Spawns run on the tick goroutine, outside any request scope.
	enemy, err := r.spawner.SpawnEnemy(context.Background(), r.archetype, model.NewLocation(pt.X, pt.Y))
	if err != nil {
		// The round can no longer be cleared; the clock decides.
		slog.Error("round spawn failed", "round", r.round, "error", err)
		return
	}
	round := r.round
	enemy.OnDie(func(*ai.Enemy) {
		if round == r.round {
			r.enemyDied()
		}
	})
}

func (r *Round) enemyDied() {
	// Kills after game over do not count.
	if r.gameOver || r.roundOver || r.left == 0 {
		return
	}
	r.left--

	if r.left == r.cfg.KeepUpThreshold {
		r.audio.Play(model.SoundTimeTicking)
	}
	for _, fn := range r.onEnemyDie {
		fn(r.left)
	}
	if r.left == 0 {
		r.endRound()
	}
}

func (r *Round) endRound() {
	r.roundOver = true
	r.counting = false
	r.sched.Cancel(timerSpawn)

	r.audio.Play(model.SoundVictory)
	r.slowMotion()
	for _, fn := range r.onRoundOver {
		fn(r.round)
	}
	slog.Info("round over", "round", r.round, "timeLeft", r.Remaining())

	if r.round == r.cfg.Total() {
		r.finish(Result{Won: true, Rounds: r.round, Score: r.Remaining()})
		return
	}

	if r.cfg.CarryOverLeftover {
		r.remaining[r.round] += r.remaining[r.round-1]
	}
	r.sched.AfterKey(timerNextWave, r.cfg.SlowMotionPeriod, r.startRound)
}

// slowMotion slows the game clock for SlowMotionPeriod of game time.
func (r *Round) slowMotion() {
	r.clock.SetTimeScale(r.cfg.SlowMotionScale)
	r.sched.AfterKey(timerSlowMo, r.cfg.SlowMotionPeriod, func() {
		r.clock.SetTimeScale(1)
	})
}

func (r *Round) countdown(dt time.Duration) {
	if !r.counting || r.gameOver {
		return
	}
	i := r.round - 1
	r.remaining[i] -= dt
	if r.remaining[i] <= 0 {
		r.remaining[i] = 0
		r.GameOver()
	}
}

func (r *Round) finish(res Result) {
	if r.finished {
		return
	}
	r.finished = true
	for _, fn := range r.onFinish {
		fn(res)
	}
}
