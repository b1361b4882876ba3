package state

import "sync/atomic"

// Entity is anything with a stable integer identity.
type Entity interface {
	EntityID() int64
}

var collectionVersion atomic.Uint64

// Collection is a normalized id -> entity mapping plus the id order.
// Values are immutable: every mutating method returns a new Collection and
// leaves the receiver untouched. The zero value is an empty collection.
type Collection[T Entity] struct {
	ids      []int64
	entities map[int64]T
	version  uint64
}

// NewCollection builds a collection holding exactly items, in order. A later
// item with a duplicate id replaces the earlier one in place.
func NewCollection[T Entity](items ...T) Collection[T] {
	return Collection[T]{}.SetAll(items)
}

func (c Collection[T]) clone(extra int) Collection[T] {
	ids := make([]int64, len(c.ids), len(c.ids)+extra)
	copy(ids, c.ids)
	entities := make(map[int64]T, len(c.entities)+extra)
	for id, e := range c.entities {
		entities[id] = e
	}
	return Collection[T]{ids: ids, entities: entities, version: collectionVersion.Add(1)}
}

// Version identifies this collection value. Two collections with the same
// non-zero version are the same value.
func (c Collection[T]) Version() uint64 { return c.version }

// Len returns the number of entities.
func (c Collection[T]) Len() int { return len(c.ids) }

// IDs returns a copy of the ordered ids.
func (c Collection[T]) IDs() []int64 {
	out := make([]int64, len(c.ids))
	copy(out, c.ids)
	return out
}

// Get looks up an entity by id.
func (c Collection[T]) Get(id int64) (T, bool) {
	e, ok := c.entities[id]
	return e, ok
}

// Has reports whether id is present.
func (c Collection[T]) Has(id int64) bool {
	_, ok := c.entities[id]
	return ok
}

// All returns the entities in collection order.
func (c Collection[T]) All() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.entities[id])
	}
	return out
}

// SetAll replaces the whole collection with items.
func (c Collection[T]) SetAll(items []T) Collection[T] {
	next := Collection[T]{
		ids:      make([]int64, 0, len(items)),
		entities: make(map[int64]T, len(items)),
		version:  collectionVersion.Add(1),
	}
	for _, item := range items {
		id := item.EntityID()
		if _, ok := next.entities[id]; !ok {
			next.ids = append(next.ids, id)
		}
		next.entities[id] = item
	}
	return next
}

// AddOne appends item. It is a no-op when the id already exists.
func (c Collection[T]) AddOne(item T) (Collection[T], bool) {
	id := item.EntityID()
	if c.Has(id) {
		return c, false
	}
	next := c.clone(1)
	next.ids = append(next.ids, id)
	next.entities[id] = item
	return next, true
}

// UpdateOne replaces the entity with item's id, keeping its position. It is a
// no-op when the id is absent.
func (c Collection[T]) UpdateOne(item T) (Collection[T], bool) {
	id := item.EntityID()
	if !c.Has(id) {
		return c, false
	}
	next := c.clone(0)
	next.entities[id] = item
	return next, true
}

// UpsertOne updates item in place when its id exists, otherwise appends it.
func (c Collection[T]) UpsertOne(item T) Collection[T] {
	if next, ok := c.UpdateOne(item); ok {
		return next
	}
	next, _ := c.AddOne(item)
	return next
}

// RemoveOne drops id from both the mapping and the order.
func (c Collection[T]) RemoveOne(id int64) (Collection[T], bool) {
	if !c.Has(id) {
		return c, false
	}
	next := c.clone(0)
	delete(next.entities, id)
	ids := next.ids[:0]
	for _, existing := range next.ids {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	next.ids = ids
	return next, true
}
