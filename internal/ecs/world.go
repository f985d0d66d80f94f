package ecs

// World is the arena that owns every actor on a level. Entity IDs are handed
// out in increasing order, so ID order equals insertion order. Entities are
// never removed; a dead actor stays as a corpse.
type World struct {
	nextID     EntityID
	order      []EntityID
	components map[ComponentType]map[EntityID]Component
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:     1,
		components: make(map[ComponentType]map[EntityID]Component),
	}
}

// CreateEntity mints a new entity ID and appends it to the iteration order.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.order = append(w.order, id)
	return id
}

// Alive reports whether id was handed out by this world.
func (w *World) Alive(id EntityID) bool {
	return id != NilEntity && id < w.nextID
}

// Len returns the number of entities.
func (w *World) Len() int {
	return len(w.order)
}

// Entities returns every entity in insertion order. The slice is a copy.
func (w *World) Entities() []EntityID {
	out := make([]EntityID, len(w.order))
	copy(out, w.order)
	return out
}

// Add attaches a component to an entity, replacing any previous value of the
// same type.
func (w *World) Add(id EntityID, c Component) {
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns all entities that have every listed component type,
// in insertion order.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	for _, t := range types {
		if len(w.components[t]) == 0 {
			return nil
		}
	}
	var result []EntityID
	for _, id := range w.order {
		match := true
		for _, t := range types {
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	return result
}
