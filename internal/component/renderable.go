package component

import (
	"dungeoncrawl/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 3

// Render orders: lower is drawn first.
const (
	OrderCorpse = 1
	OrderActor  = 5
	OrderPlayer = 10
)

type Renderable struct {
	Glyph       string
	FGColor     tcell.Color
	RenderOrder int
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }
