package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
)

// ErrMissingCollaborator is returned when a required collaborator is nil at construction.
var ErrMissingCollaborator = errors.New("missing collaborator")

// Mover is the navigation side of an actor's body.
type Mover interface {
	SetDestination(dst model.Location)
	PathPending() bool
	// SetStopped toggles the "movement halted" flag; a halted mover ignores its destination.
	SetStopped(stopped bool)
	Stopped() bool
	SetSpeed(speed float64)
	SetStoppingDistance(d float64)
	Position() model.Location
	LookAt(target model.Location)
}

// Body is the rigid-body side of an actor.
type Body interface {
	// SetKinematic(false) hands the body to the physics solver (knockback slide).
	SetKinematic(kinematic bool)
	ApplyImpulse(impulse model.Location)
	// SetLayer changes which perception queries can see the actor.
	SetLayer(layer model.Layer)
}

// Perception is a bounded, layer-filtered spatial query over the world.
type Perception interface {
	// Overlap fills buf with objects within radius of center on mask layers
	// and returns how many were written (at most len(buf)).
	Overlap(center model.Location, radius float64, mask model.Layer, buf []model.Object) int
	GetObject(objectID uint32) (model.Object, bool)
}

// Animator is the animation command sink.
type Animator interface {
	SetTrigger(p model.AnimParam)
	SetBool(p model.AnimParam, v bool)
	SetInteger(p model.AnimParam, v int)
}

// AudioSink plays fire-and-forget sound cues.
type AudioSink interface {
	Play(cue model.SoundCue)
}

// Highlighter sets the hit-flash intensity (0 = off, 1 = full).
type Highlighter interface {
	SetHighlight(intensity float64)
}

// Remover removes an actor from the world.
type Remover interface {
	Despawn(objectID uint32)
}

// Resolver resolves attacks between combatants.
type Resolver interface {
	Resolve(attacker, defender combat.Combatant) (combat.HitResult, bool)
}

// Deps holds collaborators injected into an Enemy at construction.
type Deps struct {
	Mover      Mover
	Body       Body
	Perception Perception
	Animator   Animator
	Audio      AudioSink
	Highlight  Highlighter
	Remover    Remover
	Resolver   Resolver

	// Rand drives defend rolls and attack variants. Nil gets a randomly seeded source.
	Rand *rand.Rand

	// TargetMask selects the layers searched for targets (default LayerPlayer).
	TargetMask model.Layer
}

func (d *Deps) validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingCollaborator, name)
	}
	switch {
	case d.Mover == nil:
		return missing("mover")
	case d.Body == nil:
		return missing("body")
	case d.Perception == nil:
		return missing("perception")
	case d.Animator == nil:
		return missing("animator")
	case d.Audio == nil:
		return missing("audio")
	case d.Highlight == nil:
		return missing("highlighter")
	case d.Remover == nil:
		return missing("remover")
	case d.Resolver == nil:
		return missing("resolver")
	}
	return nil
}
