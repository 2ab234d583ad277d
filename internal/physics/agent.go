package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/udisondev/arena/internal/model"
)

// Agent is one actor's body in the space: a navigation mover while kinematic,
// a rigid body while dynamic. The agent layer lives in the shape filter
// categories so perception can filter with cp.ShapeFilter.
type Agent struct {
	space  *Space
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	layer  model.Layer

	dest     model.Location
	hasDest  bool
	pending  bool // destination accepted, not yet steered
	stopped  bool
	speed    float64
	stopDist float64
	heading  model.Location
}

// SetDestination sets the navigation target. The path is pending until the next Step.
func (a *Agent) SetDestination(dst model.Location) {
	a.dest = dst
	a.hasDest = true
	a.pending = true
}

// Destination returns the current navigation target.
func (a *Agent) Destination() (model.Location, bool) {
	return a.dest, a.hasDest
}

// PathPending reports whether a destination was set since the last Step.
func (a *Agent) PathPending() bool { return a.pending }

// SetStopped halts (true) or resumes (false) navigation.
func (a *Agent) SetStopped(stopped bool) { a.stopped = stopped }

// Stopped returns the halt flag.
func (a *Agent) Stopped() bool { return a.stopped }

// SetSpeed sets navigation speed in units per second.
func (a *Agent) SetSpeed(speed float64) { a.speed = max(speed, 0) }

// SetStoppingDistance sets how close to the destination navigation stops.
func (a *Agent) SetStoppingDistance(d float64) { a.stopDist = max(d, 0) }

// Position returns the body position.
func (a *Agent) Position() model.Location { return loc(a.body.Position()) }

// SetPosition teleports the body.
func (a *Agent) SetPosition(p model.Location) { a.body.SetPosition(vec(p)) }

// Velocity returns the body velocity.
func (a *Agent) Velocity() model.Location { return loc(a.body.Velocity()) }

// LookAt turns the agent toward target.
func (a *Agent) LookAt(target model.Location) {
	if dir := target.Sub(a.Position()).Normalize(); dir != (model.Location{}) {
		a.heading = dir
	}
}

// Heading returns the unit facing direction (zero until the first LookAt).
func (a *Agent) Heading() model.Location { return a.heading }

// SetKinematic switches between navigation control (true) and solver control (false).
func (a *Agent) SetKinematic(kinematic bool) {
	if kinematic {
		a.body.SetType(cp.BODY_KINEMATIC)
		return
	}
	a.body.SetType(cp.BODY_DYNAMIC)
}

// Kinematic reports whether the agent is under navigation control.
func (a *Agent) Kinematic() bool {
	return a.body.GetType() == cp.BODY_KINEMATIC
}

// ApplyImpulse pushes the body at its center. Kinematic bodies ignore impulses.
func (a *Agent) ApplyImpulse(impulse model.Location) {
	a.body.ApplyImpulseAtWorldPoint(vec(impulse), a.body.Position())
}

// SetLayer moves the agent to layer.
func (a *Agent) SetLayer(layer model.Layer) {
	a.layer = layer
	a.applyFilter()
}

// Layer returns the agent layer.
func (a *Agent) Layer() model.Layer { return a.layer }

// Filter returns the shape filter carrying the layer.
func (a *Agent) Filter() cp.ShapeFilter { return a.shape.Filter }

// Radius returns the body radius.
func (a *Agent) Radius() float64 { return a.radius }

func (a *Agent) applyFilter() {
	a.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(a.layer), cp.ALL_CATEGORIES))
}

// steer sets the kinematic velocity for this step.
func (a *Agent) steer(dt float64) {
	if !a.Kinematic() {
		return
	}
	a.pending = false

	if a.stopped || !a.hasDest || a.speed == 0 {
		a.body.SetVelocityVector(cp.Vector{})
		return
	}

	delta := a.dest.Sub(a.Position())
	remaining := delta.Length() - a.stopDist
	if remaining <= 0 {
		a.body.SetVelocityVector(cp.Vector{})
		return
	}

	// never overshoot the stopping distance within one step
	speed := min(a.speed, remaining/dt)
	a.body.SetVelocityVector(vec(delta.Normalize().Scale(speed)))
}
