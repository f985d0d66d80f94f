package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK      MoveResult = iota // position updated
	MoveBlocked                   // wall or out-of-bounds
	MoveAttack                    // bumped a blocking entity
)

// TryMove attempts to move entity id by (dx, dy). A tile that blocks movement
// wins over any actor on it; a blocking actor turns the move into a bump.
// Returns the outcome and, for MoveAttack, the entity that was bumped.
func TryMove(w *ecs.World, lvl *gamemap.Level, id ecs.EntityID, dx, dy int) (MoveResult, ecs.EntityID) {
	posComp := w.Get(id, component.CPosition)
	if posComp == nil {
		return MoveBlocked, ecs.NilEntity
	}
	pos := posComp.(component.Position)
	nx, ny := pos.X+dx, pos.Y+dy

	if lvl.BlocksMoveAt(nx, ny) {
		return MoveBlocked, ecs.NilEntity
	}
	if other := lvl.BlockingActorAt(w, nx, ny); other != ecs.NilEntity && other != id {
		return MoveAttack, other
	}

	MoveEntity(w, lvl, id, nx, ny)
	return MoveOK, ecs.NilEntity
}

// MoveEntity sets id's position to (x, y) and keeps the level's occupancy
// index in sync. It performs no checks.
func MoveEntity(w *ecs.World, lvl *gamemap.Level, id ecs.EntityID, x, y int) {
	if c := w.Get(id, component.CPosition); c != nil {
		old := c.(component.Position)
		lvl.Move(id, old.X, old.Y, x, y)
	} else {
		lvl.Place(id, x, y)
	}
	w.Add(id, component.Position{X: x, Y: y})
}

// IsFree reports whether a walker could step onto (x, y) right now.
func IsFree(w *ecs.World, lvl *gamemap.Level, x, y int) bool {
	return !lvl.BlocksMoveAt(x, y) && lvl.BlockingActorAt(w, x, y) == ecs.NilEntity
}
