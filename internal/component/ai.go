package component

import (
	"dungeoncrawl/internal/ecs"
	"fmt"
	"strings"
)

const CAI ecs.ComponentType = 5

// AIBehavior selects the strategy an enemy runs on its turn.
type AIBehavior uint8

const (
	BehaviorChase      AIBehavior = iota // step toward a visible player, attack when adjacent
	BehaviorWander                       // random step, attack when adjacent
	BehaviorStationary                   // never moves, attacks when adjacent
)

// String returns the config name of the behavior.
func (b AIBehavior) String() string {
	switch b {
	case BehaviorChase:
		return "chase"
	case BehaviorWander:
		return "wander"
	case BehaviorStationary:
		return "stationary"
	default:
		return "unknown"
	}
}

// ParseBehavior maps a config name to an AIBehavior. The empty string is chase.
func ParseBehavior(s string) (AIBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chase":
		return BehaviorChase, nil
	case "wander":
		return BehaviorWander, nil
	case "stationary":
		return BehaviorStationary, nil
	}
	return 0, fmt.Errorf("unknown ai behavior %q", s)
}

type AI struct {
	Behavior AIBehavior
	// SightRange is how far, in tiles, a chaser or wanderer notices the
	// player. Zero or less means no limit.
	SightRange int
}

func (AI) Type() ecs.ComponentType { return CAI }
