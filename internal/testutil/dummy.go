package testutil

import (
	"github.com/udisondev/arena/internal/model"
)

// Dummy is a scripted combatant used as attack target or attacker.
type Dummy struct {
	ID       uint32
	Loc      model.Location
	Power    float64
	HP       float64
	Parrying bool
	Dead     bool

	Damage  []float64        // every TakeDamage amount
	Parried []model.Location // every ParryAction aggressor
}

// NewDummy creates a live dummy at loc.
func NewDummy(id uint32, loc model.Location) *Dummy {
	return &Dummy{ID: id, Loc: loc, Power: 10, HP: 100}
}

func (d *Dummy) ObjectID() uint32         { return d.ID }
func (d *Dummy) Location() model.Location { return d.Loc }
func (d *Dummy) AttackPower() float64     { return d.Power }
func (d *Dummy) IsParrying() bool         { return d.Parrying }
func (d *Dummy) IsDead() bool             { return d.Dead }
func (d *Dummy) Health() float64          { return d.HP }

func (d *Dummy) TakeDamage(damage float64) {
	d.Damage = append(d.Damage, damage)
	d.HP = max(d.HP-damage, 0)
}

func (d *Dummy) ParryAction(aggressor model.Location) {
	d.Parried = append(d.Parried, aggressor)
}
