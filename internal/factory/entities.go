// Package factory creates actors and registers them with the level.
package factory

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/generate"

	"github.com/gdamore/tcell/v2"
)

// NewPlayer creates the player entity at (x, y) from the configured stats.
func NewPlayer(w *ecs.World, lvl *gamemap.Level, x, y int, p config.PlayerConfig) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Name{Text: p.Name})
	w.Add(id, component.Renderable{
		Glyph:       p.Glyph,
		FGColor:     config.Color(p.Color, tcell.ColorWhite),
		RenderOrder: component.OrderPlayer,
	})
	w.Add(id, component.Combat{HP: p.HP, MaxHP: p.HP, Power: p.Power, Defense: p.Defense})
	w.Add(id, component.TagPlayer{})
	w.Add(id, component.TagBlocking{})
	lvl.Place(id, x, y)
	return id
}

// NewMonster creates an enemy entity from a roster entry.
func NewMonster(w *ecs.World, lvl *gamemap.Level, entry generate.MonsterEntry, x, y int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Name{Text: entry.Name})
	w.Add(id, component.Renderable{
		Glyph:       entry.Glyph,
		FGColor:     config.Color(entry.Color, tcell.ColorRed),
		RenderOrder: component.OrderActor,
	})
	w.Add(id, component.Combat{HP: entry.HP, MaxHP: entry.HP, Power: entry.Power, Defense: entry.Defense})
	w.Add(id, component.AI{Behavior: entry.Behavior, SightRange: entry.SightRange})
	w.Add(id, component.TagBlocking{})
	lvl.Place(id, x, y)
	return id
}

// Roster converts configured monster definitions into spawn entries. Unknown
// behaviors fall back to chase; Config.Validate rejects them earlier.
func Roster(defs []config.MonsterDef) []generate.MonsterEntry {
	out := make([]generate.MonsterEntry, 0, len(defs))
	for _, d := range defs {
		behavior, err := component.ParseBehavior(d.Behavior)
		if err != nil {
			behavior = component.BehaviorChase
		}
		out = append(out, generate.MonsterEntry{
			Name:       d.Name,
			Glyph:      d.Glyph,
			Color:      d.Color,
			HP:         d.HP,
			Power:      d.Power,
			Defense:    d.Defense,
			Behavior:   behavior,
			SightRange: d.SightRange,
			Weight:     d.Weight,
		})
	}
	return out
}
