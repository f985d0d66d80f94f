package component

import "dungeoncrawl/internal/ecs"

const CName ecs.ComponentType = 6

type Name struct {
	Text string
}

func (Name) Type() ecs.ComponentType { return CName }
