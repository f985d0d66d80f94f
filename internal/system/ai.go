package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/logger"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// TurnContext is everything one enemy sees when it takes its turn. Visible is
// the player's current visibility set.
type TurnContext struct {
	World   *ecs.World
	Level   *gamemap.Level
	Self    ecs.EntityID
	Player  ecs.EntityID
	Visible Visibility
	Formula DamageFormula
	Rand    *rand.Rand
}

// Strategy decides what one enemy does on its turn. Implementations may only
// move Self and may only attack Player. No action means a nil slice.
type Strategy interface {
	TakeTurn(tc TurnContext) []TurnResult
}

// Chase closes in on the player while standing in the player's view and
// within its sight range, and attacks once adjacent.
type Chase struct{}

// Wander ambles about at random. Once the player is in view and within its
// sight range it closes in and attacks when adjacent.
type Wander struct{}

// Stationary never moves but attacks an adjacent player. It ignores sight
// range.
type Stationary struct{}

// StrategyFor returns the strategy for an AI behavior. Unknown behaviors chase.
func StrategyFor(b component.AIBehavior) Strategy {
	switch b {
	case component.BehaviorWander:
		return Wander{}
	case component.BehaviorStationary:
		return Stationary{}
	default:
		return Chase{}
	}
}

func (Chase) TakeTurn(tc TurnContext) []TurnResult {
	self, player, ok := positions(tc)
	if !ok || !notices(tc, self, player) {
		return nil
	}
	if distance(self, player) >= 2 {
		stepTowards(tc, self, player)
		return nil
	}
	return attackPlayer(tc)
}

func (Wander) TakeTurn(tc TurnContext) []TurnResult {
	self, player, ok := positions(tc)
	if !ok {
		return nil
	}
	if notices(tc, self, player) {
		if adjacent(self, player) {
			return attackPlayer(tc)
		}
		stepTowards(tc, self, player)
		return nil
	}
	if tc.Rand == nil {
		return nil
	}
	// 0..3 are the cardinal steps, 4 means stay put.
	dirs := [5][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}, {0, 0}}
	d := dirs[tc.Rand.Intn(len(dirs))]
	if d == [2]int{0, 0} {
		return nil
	}
	nx, ny := self.X+d[0], self.Y+d[1]
	if IsFree(tc.World, tc.Level, nx, ny) {
		MoveEntity(tc.World, tc.Level, tc.Self, nx, ny)
	}
	return nil
}

func (Stationary) TakeTurn(tc TurnContext) []TurnResult {
	self, player, ok := positions(tc)
	if !ok || !adjacent(self, player) {
		return nil
	}
	return attackPlayer(tc)
}

func positions(tc TurnContext) (self, player component.Position, ok bool) {
	sc := tc.World.Get(tc.Self, component.CPosition)
	pc := tc.World.Get(tc.Player, component.CPosition)
	if sc == nil || pc == nil {
		return self, player, false
	}
	return sc.(component.Position), pc.(component.Position), true
}

// notices reports whether Self stands in the player's view and within its
// own sight range.
func notices(tc TurnContext, self, player component.Position) bool {
	if !tc.Visible.Contains(self.X, self.Y) {
		return false
	}
	c := tc.World.Get(tc.Self, component.CAI)
	if c == nil {
		return true
	}
	r := c.(component.AI).SightRange
	return r <= 0 || distance(self, player) <= float64(r)
}

// attackPlayer hits the player unless the player is already down.
func attackPlayer(tc TurnContext) []TurnResult {
	c := tc.World.Get(tc.Player, component.CCombat)
	if c == nil || c.(component.Combat).HP <= 0 {
		return nil
	}
	return Attack(tc.World, tc.Formula, tc.Self, tc.Player)
}

// stepTowards moves one tile along x, or along y when x is blocked. Never
// lands on a wall or a blocking actor.
func stepTowards(tc TurnContext, from, to component.Position) {
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	if sx != 0 && IsFree(tc.World, tc.Level, from.X+sx, from.Y) {
		MoveEntity(tc.World, tc.Level, tc.Self, from.X+sx, from.Y)
		return
	}
	if sy != 0 && IsFree(tc.World, tc.Level, from.X, from.Y+sy) {
		MoveEntity(tc.World, tc.Level, tc.Self, from.X, from.Y+sy)
		return
	}
	logger.Component("ai").WithFields(logrus.Fields{
		"entity": tc.Self,
		"x":      from.X,
		"y":      from.Y,
	}).Trace("Chase step blocked.")
}

func distance(a, b component.Position) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func adjacent(a, b component.Position) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && (dx != 0 || dy != 0)
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
