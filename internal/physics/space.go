package physics

import (
	"slices"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/udisondev/arena/internal/model"
)

// Space is a top-down (zero gravity) Chipmunk space holding actor agents.
//
// Agents are kinematic while navigating: Step sets their velocity toward the
// destination and the solver integrates it. A knocked-back agent is switched to
// dynamic and slides under the space damping until it is made kinematic again.
//
// Not safe for concurrent use; stepped from the tick goroutine.
type Space struct {
	space  *cp.Space
	agents []*Agent
}

// NewSpace creates a space. damping is the fraction of velocity dynamic bodies
// keep per second (1 = no damping).
func NewSpace(damping float64) *Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	space.SetDamping(max(damping, 0))
	return &Space{space: space}
}

// AddAgent creates a kinematic circle agent at pos on layer.
func (s *Space) AddAgent(pos model.Location, radius, mass float64, layer model.Layer) *Agent {
	body := s.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(vec(pos))

	shape := s.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetMass(mass)
	shape.SetFriction(0.5)

	a := &Agent{
		space:  s,
		body:   body,
		shape:  shape,
		radius: radius,
		layer:  layer,
	}
	a.applyFilter()

	s.agents = append(s.agents, a)
	return a
}

// RemoveAgent removes a from the space. Removing twice is a no-op.
func (s *Space) RemoveAgent(a *Agent) {
	i := slices.Index(s.agents, a)
	if i < 0 {
		return
	}
	s.agents = slices.Delete(s.agents, i, i+1)
	s.space.RemoveShape(a.shape)
	s.space.RemoveBody(a.body)
	a.space = nil
}

// Len returns the number of agents.
func (s *Space) Len() int {
	return len(s.agents)
}

// Step steers kinematic agents toward their destinations and advances the solver.
func (s *Space) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	secs := dt.Seconds()
	for _, a := range s.agents {
		a.steer(secs)
	}
	s.space.Step(secs)
}

func vec(l model.Location) cp.Vector {
	return cp.Vector{X: l.X, Y: l.Y}
}

func loc(v cp.Vector) model.Location {
	return model.Location{X: v.X, Y: v.Y}
}
