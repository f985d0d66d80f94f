// Package gamemap holds the tile grid of one dungeon level and the index of
// which actors stand where.
package gamemap

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"sort"
)

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Level holds the tile grid, room list and occupancy index for one level.
type Level struct {
	Width, Height int
	Tiles         [][]Tile
	Rooms         []Rect

	occupants map[Point][]ecs.EntityID
}

// New creates a Level filled with walls.
func New(width, height int) *Level {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = MakeWall()
		}
	}
	return &Level{
		Width:     width,
		Height:    height,
		Tiles:     tiles,
		occupants: make(map[Point][]ecs.EntityID),
	}
}

// InBounds reports whether (x, y) is within the map boundaries.
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// At returns a pointer to the tile at (x, y). Panics if out of bounds.
func (l *Level) At(x, y int) *Tile {
	return &l.Tiles[y][x]
}

// Set replaces the tile at (x, y).
func (l *Level) Set(x, y int, t Tile) {
	l.Tiles[y][x] = t
}

// BlocksMoveAt reports whether a walker cannot enter (x, y). Out of bounds
// always blocks.
func (l *Level) BlocksMoveAt(x, y int) bool {
	if !l.InBounds(x, y) {
		return true
	}
	return l.Tiles[y][x].BlocksMove
}

// BlocksSightAt reports whether (x, y) stops line of sight. Out of bounds
// always blocks.
func (l *Level) BlocksSightAt(x, y int) bool {
	if !l.InBounds(x, y) {
		return true
	}
	return l.Tiles[y][x].BlocksSight
}

// Explore marks (x, y) as seen at least once.
func (l *Level) Explore(x, y int) {
	if l.InBounds(x, y) {
		l.Tiles[y][x].Explored = true
	}
}

// Place records that id stands on (x, y).
func (l *Level) Place(id ecs.EntityID, x, y int) {
	p := Point{x, y}
	ids := l.occupants[p]
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return
	}
	ids = append(ids, ecs.NilEntity)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	l.occupants[p] = ids
}

// Vacate removes id from (x, y).
func (l *Level) Vacate(id ecs.EntityID, x, y int) {
	p := Point{x, y}
	ids := l.occupants[p]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(l.occupants, p)
		return
	}
	l.occupants[p] = ids
}

// Move relocates id in the occupancy index.
func (l *Level) Move(id ecs.EntityID, fromX, fromY, toX, toY int) {
	l.Vacate(id, fromX, fromY)
	l.Place(id, toX, toY)
}

// OccupantsAt returns the entities on (x, y) in collection order. The slice
// belongs to the index and must not be modified.
func (l *Level) OccupantsAt(x, y int) []ecs.EntityID {
	return l.occupants[Point{x, y}]
}

// BlockingActorAt returns the first live blocking entity on (x, y) by
// collection order, or ecs.NilEntity.
func (l *Level) BlockingActorAt(w *ecs.World, x, y int) ecs.EntityID {
	for _, id := range l.OccupantsAt(x, y) {
		if w.Alive(id) && w.Has(id, component.CTagBlocking) {
			return id
		}
	}
	return ecs.NilEntity
}
