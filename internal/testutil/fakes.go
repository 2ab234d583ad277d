package testutil

import (
	"github.com/udisondev/arena/internal/model"
)

// AnimCall is one command received by Animator.
type AnimCall struct {
	Param model.AnimParam
	Kind  string // "trigger", "bool", "int"
	Bool  bool
	Int   int
}

// Animator records animation commands.
type Animator struct {
	Calls []AnimCall
}

func (a *Animator) SetTrigger(p model.AnimParam) {
	a.Calls = append(a.Calls, AnimCall{Param: p, Kind: "trigger"})
}

func (a *Animator) SetBool(p model.AnimParam, v bool) {
	a.Calls = append(a.Calls, AnimCall{Param: p, Kind: "bool", Bool: v})
}

func (a *Animator) SetInteger(p model.AnimParam, v int) {
	a.Calls = append(a.Calls, AnimCall{Param: p, Kind: "int", Int: v})
}

// Triggers counts SetTrigger calls for p.
func (a *Animator) Triggers(p model.AnimParam) int {
	n := 0
	for _, c := range a.Calls {
		if c.Param == p && c.Kind == "trigger" {
			n++
		}
	}
	return n
}

// Bool returns the last bool written for p.
func (a *Animator) Bool(p model.AnimParam) (bool, bool) {
	for i := len(a.Calls) - 1; i >= 0; i-- {
		if c := a.Calls[i]; c.Param == p && c.Kind == "bool" {
			return c.Bool, true
		}
	}
	return false, false
}

// Int returns the last integer written for p.
func (a *Animator) Int(p model.AnimParam) (int, bool) {
	for i := len(a.Calls) - 1; i >= 0; i-- {
		if c := a.Calls[i]; c.Param == p && c.Kind == "int" {
			return c.Int, true
		}
	}
	return 0, false
}

// Reset forgets recorded calls.
func (a *Animator) Reset() { a.Calls = nil }

// Audio records played cues.
type Audio struct {
	Played []model.SoundCue
}

func (a *Audio) Play(cue model.SoundCue) { a.Played = append(a.Played, cue) }

// Count returns how many times cue was played.
func (a *Audio) Count(cue model.SoundCue) int {
	n := 0
	for _, c := range a.Played {
		if c == cue {
			n++
		}
	}
	return n
}

// Highlighter records highlight intensities.
type Highlighter struct {
	Values []float64
}

func (h *Highlighter) SetHighlight(v float64) { h.Values = append(h.Values, v) }

// Current returns the last intensity written (0 if none).
func (h *Highlighter) Current() float64 {
	if len(h.Values) == 0 {
		return 0
	}
	return h.Values[len(h.Values)-1]
}

// Mover is a navigation agent that never moves on its own; tests place it.
type Mover struct {
	Pos              model.Location
	Destinations     []model.Location
	Pending          bool
	IsStopped        bool
	Speed            float64
	StoppingDistance float64
	Facing           []model.Location
}

func (m *Mover) SetDestination(dst model.Location) { m.Destinations = append(m.Destinations, dst) }
func (m *Mover) PathPending() bool                 { return m.Pending }
func (m *Mover) SetStopped(v bool)                 { m.IsStopped = v }
func (m *Mover) Stopped() bool                     { return m.IsStopped }
func (m *Mover) SetSpeed(v float64)                { m.Speed = v }
func (m *Mover) SetStoppingDistance(d float64)     { m.StoppingDistance = d }
func (m *Mover) Position() model.Location          { return m.Pos }
func (m *Mover) LookAt(t model.Location)           { m.Facing = append(m.Facing, t) }

// Body records rigid-body commands.
type Body struct {
	Kinematic bool
	Impulses  []model.Location
	Layer     model.Layer
	Toggles   []bool // every SetKinematic value in order
}

func (b *Body) SetKinematic(v bool) {
	b.Kinematic = v
	b.Toggles = append(b.Toggles, v)
}

func (b *Body) ApplyImpulse(i model.Location) { b.Impulses = append(b.Impulses, i) }
func (b *Body) SetLayer(l model.Layer)        { b.Layer = l }

// Remover records despawn requests.
type Remover struct {
	Despawned []uint32
}

func (r *Remover) Despawn(id uint32) { r.Despawned = append(r.Despawned, id) }

// Perception is an in-memory world: objects are matched in insertion order.
type Perception struct {
	entries []perceived
}

type perceived struct {
	obj   model.Object
	layer model.Layer
}

// Add places obj on layer.
func (p *Perception) Add(obj model.Object, layer model.Layer) {
	p.entries = append(p.entries, perceived{obj: obj, layer: layer})
}

// Remove drops the object with id.
func (p *Perception) Remove(id uint32) {
	for i, e := range p.entries {
		if e.obj.ObjectID() == id {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

func (p *Perception) Overlap(center model.Location, radius float64, mask model.Layer, buf []model.Object) int {
	n := 0
	for _, e := range p.entries {
		if n == len(buf) {
			break
		}
		if !e.layer.Has(mask) {
			continue
		}
		if e.obj.Location().Distance(center) > radius {
			continue
		}
		buf[n] = e.obj
		n++
	}
	return n
}

func (p *Perception) GetObject(id uint32) (model.Object, bool) {
	for _, e := range p.entries {
		if e.obj.ObjectID() == id {
			return e.obj, true
		}
	}
	return nil, false
}
