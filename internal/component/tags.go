package component

import "dungeoncrawl/internal/ecs"

const (
	CTagPlayer   ecs.ComponentType = 8
	CTagBlocking ecs.ComponentType = 9
	CTagCorpse   ecs.ComponentType = 12
)

// TagPlayer marks the player-controlled entity.
type TagPlayer struct{}

func (TagPlayer) Type() ecs.ComponentType { return CTagPlayer }

// TagBlocking marks an entity that occupies its tile (blocks movement).
type TagBlocking struct{}

func (TagBlocking) Type() ecs.ComponentType { return CTagBlocking }

// TagCorpse marks the remains of a dead actor.
type TagCorpse struct{}

func (TagCorpse) Type() ecs.ComponentType { return CTagCorpse }
