package world

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jakecoffman/cp"

	"github.com/udisondev/arena/internal/model"
)

// ErrDuplicateObject is returned when an object id is already registered.
var ErrDuplicateObject = errors.New("duplicate object")

// Body is the collision footprint of a world object.
type Body interface {
	// Filter carries the object's layer in its categories.
	Filter() cp.ShapeFilter
	Radius() float64
}

type entry struct {
	obj  model.Object
	body Body
}

// World is the arena object registry and perception query.
// Objects are kept in insertion order; queries never re-rank by distance.
type World struct {
	mu      sync.RWMutex
	objects map[uint32]entry
	order   []uint32
}

// New creates an empty world.
func New() *World {
	return &World{objects: make(map[uint32]entry)}
}

// AddObject registers obj with its collision body.
func (w *World) AddObject(obj model.Object, body Body) error {
	if obj == nil || body == nil {
		return fmt.Errorf("adding object: nil object or body")
	}
	id := obj.ObjectID()

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.objects[id]; ok {
		return fmt.Errorf("adding object %d: %w", id, ErrDuplicateObject)
	}
	w.objects[id] = entry{obj: obj, body: body}
	w.order = append(w.order, id)
	return nil
}

// RemoveObject removes object from world. Unknown ids are ignored.
func (w *World) RemoveObject(objectID uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.objects[objectID]; !ok {
		return
	}
	delete(w.objects, objectID)
	if i := slices.Index(w.order, objectID); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
}

// GetObject returns object by ID
func (w *World) GetObject(objectID uint32) (model.Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.objects[objectID]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

// Overlap fills buf with objects on mask layers whose body overlaps the circle
// (center, radius) and returns how many were written. Scan stops when buf is full.
func (w *World) Overlap(center model.Location, radius float64, mask model.Layer, buf []model.Object) int {
	if len(buf) == 0 {
		return 0
	}
	query := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))

	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, id := range w.order {
		e := w.objects[id]
		if query.Reject(e.body.Filter()) {
			continue
		}
		reach := radius + e.body.Radius()
		if e.obj.Location().DistanceSquared(center) > reach*reach {
			continue
		}
		buf[n] = e.obj
		n++
		if n == len(buf) {
			break
		}
	}
	return n
}

// ForEach calls fn for every object in insertion order until fn returns false.
// fn must not add or remove objects.
func (w *World) ForEach(fn func(model.Object) bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, id := range w.order {
		if !fn(w.objects[id].obj) {
			return
		}
	}
}

// ObjectCount returns total number of objects in world.
func (w *World) ObjectCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}
