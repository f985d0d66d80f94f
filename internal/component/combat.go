package component

import "dungeoncrawl/internal/ecs"

const CCombat ecs.ComponentType = 4

// Combat makes an actor able to attack and be attacked.
type Combat struct {
	HP, MaxHP int
	Power     int
	Defense   int
}

func (Combat) Type() ecs.ComponentType { return CCombat }
