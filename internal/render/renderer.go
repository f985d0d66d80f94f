// Package render draws engine frames onto a tcell screen.
package render

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/system"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of screen rows reserved for the HUD.
const hudRows = 5

// Frame is everything needed to draw one tick.
type Frame struct {
	Level    *gamemap.Level
	World    *ecs.World
	Player   ecs.EntityID
	Visible  system.Visibility
	Status   string // mode label shown in the HUD
	Turn     int
	Messages []string
}

// Renderer draws frames onto a tcell screen.
type Renderer struct {
	screen  tcell.Screen
	camera  *Camera
	palette Palette
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen, palette Palette) *Renderer {
	w, h := screen.Size()
	cell := max(runewidth.RuneWidth(palette.WallGlyph), runewidth.RuneWidth(palette.FloorGlyph), 1)
	return &Renderer{
		screen:  screen,
		camera:  NewCamera(0, 0, w, max(h-hudRows, 0), cell),
		palette: palette,
	}
}

// Render draws the map, the actors in view and the HUD, then shows the
// screen.
func (r *Renderer) Render(f Frame) {
	w, h := r.screen.Size()
	r.camera.Resize(w, max(h-hudRows, 0))
	if c := f.World.Get(f.Player, component.CPosition); c != nil {
		pos := c.(component.Position)
		r.camera.Center(pos.X, pos.Y)
	}

	r.screen.Clear()
	r.drawMap(f.Level, f.Visible)
	r.drawEntities(f.World, f.Visible)
	r.drawHUD(f)
	r.screen.Show()
}

// drawMap renders visible tiles lit and explored tiles dark.
func (r *Renderer) drawMap(lvl *gamemap.Level, visible system.Visibility) {
	p := r.palette
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			tile := lvl.At(x, y)
			lit := visible.Contains(x, y)
			if !lit && !tile.Explored {
				continue
			}
			sx, sy, onScreen := r.camera.WorldToScreen(x, y)
			if !onScreen {
				continue
			}

			glyph, color := p.FloorGlyph, p.DarkFloor
			switch {
			case tile.Kind == gamemap.TileWall && lit:
				glyph, color = p.WallGlyph, p.LitWall
			case tile.Kind == gamemap.TileWall:
				glyph, color = p.WallGlyph, p.DarkWall
			case lit:
				color = p.LitFloor
			}
			style := tcell.StyleDefault.Foreground(color).Background(p.Background)
			r.screen.SetContent(sx, sy, glyph, nil, style)
		}
	}
}

// renderableEntity holds sorting info for entity rendering.
type renderableEntity struct {
	id   ecs.EntityID
	pos  component.Position
	rend component.Renderable
}

// drawEntities renders every actor standing on a visible tile, lowest
// RenderOrder first so the player ends up on top of corpses.
func (r *Renderer) drawEntities(w *ecs.World, visible system.Visibility) {
	ids := w.Query(component.CRenderable, component.CPosition)
	entities := make([]renderableEntity, 0, len(ids))
	for _, id := range ids {
		pos := w.Get(id, component.CPosition).(component.Position)
		if !visible.Contains(pos.X, pos.Y) {
			continue
		}
		entities = append(entities, renderableEntity{
			id:   id,
			pos:  pos,
			rend: w.Get(id, component.CRenderable).(component.Renderable),
		})
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].rend.RenderOrder < entities[j].rend.RenderOrder
	})

	for _, e := range entities {
		sx, sy, onScreen := r.camera.WorldToScreen(e.pos.X, e.pos.Y)
		if !onScreen {
			continue
		}
		style := tcell.StyleDefault.Foreground(e.rend.FGColor).Background(r.palette.Background)
		r.putGlyph(sx, sy, e.rend.Glyph, style)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 && r.camera.CellWidth == 2 {
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
