package render

import "github.com/gdamore/tcell/v2"

// Palette holds the glyphs and colors used to draw terrain. Lit tiles are in
// the player's view; dark tiles are remembered from earlier turns.
type Palette struct {
	WallGlyph  rune
	FloorGlyph rune
	LitWall    tcell.Color
	LitFloor   tcell.Color
	DarkWall   tcell.Color
	DarkFloor  tcell.Color
	Background tcell.Color
}

// DefaultPalette is the classic brown-and-blue dungeon look.
var DefaultPalette = Palette{
	WallGlyph:  '#',
	FloorGlyph: '.',
	LitWall:    tcell.NewRGBColor(130, 110, 50),
	LitFloor:   tcell.NewRGBColor(200, 180, 50),
	DarkWall:   tcell.NewRGBColor(0, 0, 100),
	DarkFloor:  tcell.NewRGBColor(50, 50, 150),
	Background: tcell.ColorBlack,
}
