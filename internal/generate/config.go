package generate

import (
	"dungeoncrawl/internal/component"
	"math/rand"
)

// Layout selects the room placement algorithm.
type Layout string

const (
	LayoutRooms Layout = "rooms" // random rectangles, rejected on overlap
	LayoutBSP   Layout = "bsp"   // binary space partition
)

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
)

// MonsterEntry describes one kind of monster the populator may spawn.
type MonsterEntry struct {
	Name       string
	Glyph      string
	Color      string
	HP         int
	Power      int
	Defense    int
	Behavior   component.AIBehavior
	SightRange int
	Weight     int // relative spawn chance; 0 never spawns
}

// Config drives generation of one level.
type Config struct {
	Width, Height      int
	Layout             Layout
	CorridorStyle      CorridorStyle
	MaxRooms           int // rooms layout: placement attempts
	RoomMinSize        int
	RoomMaxSize        int
	MinLeafSize        int // bsp layout
	MaxLeafSize        int // bsp layout
	MaxMonstersPerRoom int
	Monsters           []MonsterEntry
	Rand               *rand.Rand
}

// Spawn is one monster the caller should create.
type Spawn struct {
	Entry MonsterEntry
	X, Y  int
}
