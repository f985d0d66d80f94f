package gamemap

// TileKind identifies the type of a map tile.
type TileKind uint8

const (
	TileWall TileKind = iota
	TileFloor
)

// Tile holds the movement/sight flags and memory state for one map cell.
type Tile struct {
	Kind        TileKind
	BlocksMove  bool
	BlocksSight bool
	Explored    bool
}

// MakeWall returns a blocking, opaque wall tile.
func MakeWall() Tile {
	return Tile{Kind: TileWall, BlocksMove: true, BlocksSight: true}
}

// MakeFloor returns a passable, transparent floor tile.
func MakeFloor() Tile {
	return Tile{Kind: TileFloor}
}
