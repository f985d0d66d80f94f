package game

import (
	"context"
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/logger"
	"dungeoncrawl/internal/render"
	"dungeoncrawl/internal/system"
	"dungeoncrawl/internal/telemetry"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultFOVRadius is the player's sight radius when Options leaves it unset.
const DefaultFOVRadius = 10

// corpseGlyph marks dead actors, the player included.
const corpseGlyph = "%"

// Renderer receives a frame after every tick.
type Renderer interface {
	Render(f render.Frame)
}

// Options configures an Engine. Zero values pick the defaults.
type Options struct {
	Formula   system.DamageFormula // default system.Subtractive
	FOVRadius int                  // default DefaultFOVRadius
	Sink      MessageSink          // receives every message besides the HUD log
	Renderer  Renderer             // nil skips rendering
	Rand      *rand.Rand           // used by wandering monsters
	Tracer    trace.Tracer         // default telemetry.Tracer("engine")

	// Strategy picks the AI for a behavior. Default system.StrategyFor.
	Strategy func(component.AIBehavior) system.Strategy
	// ComputeFOV computes visibility. Default system.ComputeFOV.
	ComputeFOV func(lvl *gamemap.Level, x, y, radius int) system.Visibility
}

// Stats summarises the current run.
type Stats struct {
	Turns    int
	Kills    map[string]int // monster name → count
	KilledBy string
}

// fovState is the engine-owned visibility cache. visible is only replaced
// when needsRecompute is set.
type fovState struct {
	radius         int
	visible        system.Visibility
	needsRecompute bool
}

// Engine runs the turn loop for one player on one level. It is not safe for
// concurrent use; Update must not be re-entered.
type Engine struct {
	world  *ecs.World
	level  *gamemap.Level
	player ecs.EntityID
	mode   Mode
	fov    fovState
	opts   Options
	stats  Stats
	acting ecs.EntityID // enemy whose results are being processed
	msgs   MessageLog
	sink   MessageSink
	log    *logrus.Entry
}

// NewEngine wires an engine around an existing world, level and player. The
// initial visibility is computed immediately.
func NewEngine(w *ecs.World, lvl *gamemap.Level, player ecs.EntityID, opts Options) *Engine {
	if opts.Formula == nil {
		opts.Formula = system.Subtractive{}
	}
	if opts.FOVRadius <= 0 {
		opts.FOVRadius = DefaultFOVRadius
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.Tracer("engine")
	}
	if opts.Strategy == nil {
		opts.Strategy = system.StrategyFor
	}
	if opts.ComputeFOV == nil {
		opts.ComputeFOV = system.ComputeFOV
	}
	e := &Engine{opts: opts, log: logger.Component("engine")}
	e.sink = &e.msgs
	if opts.Sink != nil {
		e.sink = MultiSink{&e.msgs, opts.Sink}
	}
	e.Reset(w, lvl, player)
	return e
}

// Reset starts a new run on the given world and level.
func (e *Engine) Reset(w *ecs.World, lvl *gamemap.Level, player ecs.EntityID) {
	e.world = w
	e.level = lvl
	e.player = player
	e.mode = ModePlayerTurn
	e.stats = Stats{Kills: make(map[string]int)}
	e.acting = ecs.NilEntity
	e.msgs.Clear()
	e.fov = fovState{radius: e.opts.FOVRadius, needsRecompute: true}
	e.recomputeFOV()
}

// Update runs one tick: the player's action, then every enemy in collection
// order, then visibility, then rendering. Actions outside the player's turn
// change nothing.
func (e *Engine) Update(ctx context.Context, a Action) {
	_, span := e.opts.Tracer.Start(ctx, "engine.update")
	defer span.End()
	startMode := e.mode

	var results []system.TurnResult
	if a.Move != nil && e.mode == ModePlayerTurn {
		results = e.playerMove(a.Move.DX, a.Move.DY)
	}
	e.acting = ecs.NilEntity
	e.process(results)

	if e.mode == ModeEnemyTurn {
		e.enemyPhase()
	}

	e.recomputeFOV()
	e.render()

	span.SetAttributes(
		attribute.String("mode.before", startMode.String()),
		attribute.String("mode.after", e.mode.String()),
		attribute.Int("turn", e.stats.Turns),
	)
}

// playerMove applies a move or bump attack. A blocked destination is a no-op
// and keeps the player's turn.
func (e *Engine) playerMove(dx, dy int) []system.TurnResult {
	var results []system.TurnResult
	switch outcome, target := system.TryMove(e.world, e.level, e.player, dx, dy); outcome {
	case system.MoveBlocked:
		return nil
	case system.MoveAttack:
		results = system.Attack(e.world, e.opts.Formula, e.player, target)
	case system.MoveOK:
		e.fov.needsRecompute = true
	}
	e.stats.Turns++
	e.mode = e.mode.next(evPlayerActed)
	return results
}

// enemyPhase gives every living AI actor one turn, stopping as soon as the
// player dies.
func (e *Engine) enemyPhase() {
	for _, id := range e.world.Query(component.CAI) {
		if id == e.player || !e.world.Has(id, component.CAI) {
			continue
		}
		ai := e.world.Get(id, component.CAI).(component.AI)
		results := e.opts.Strategy(ai.Behavior).TakeTurn(system.TurnContext{
			World:   e.world,
			Level:   e.level,
			Self:    id,
			Player:  e.player,
			Visible: e.fov.visible,
			Formula: e.opts.Formula,
			Rand:    e.opts.Rand,
		})
		e.acting = id
		e.process(results)
		if e.mode == ModePlayerDead {
			break
		}
	}
	e.acting = ecs.NilEntity
	e.mode = e.mode.next(evEnemiesDone)
}

// process surfaces messages and handles deaths in order. A player death
// ends the batch.
func (e *Engine) process(results []system.TurnResult) {
	for _, r := range results {
		if r.Message != "" {
			e.sink.Post(r.Message)
		}
		if r.Dead == ecs.NilEntity {
			continue
		}
		if r.Dead == e.player {
			e.sink.Post(e.killPlayer())
			e.mode = e.mode.next(evPlayerDied)
			return
		}
		e.sink.Post(e.killActor(r.Dead))
	}
}

// killPlayer turns the player into a corpse. The entity stays in the world.
func (e *Engine) killPlayer() string {
	e.toCorpseGlyph(e.player)
	if e.acting != ecs.NilEntity {
		e.stats.KilledBy = system.EntityName(e.world, e.acting)
	}
	e.log.WithFields(logrus.Fields{
		"turn":      e.stats.Turns,
		"killed_by": e.stats.KilledBy,
	}).Info("Player died.")
	return "You died!"
}

// killActor leaves a corpse behind: it no longer blocks, acts or fights.
func (e *Engine) killActor(id ecs.EntityID) string {
	name := system.EntityName(e.world, id)
	e.toCorpseGlyph(id)
	e.world.Add(id, component.Name{Text: "remains of " + name})
	e.world.Remove(id, component.CTagBlocking)
	e.world.Remove(id, component.CAI)
	e.world.Remove(id, component.CCombat)
	e.world.Add(id, component.TagCorpse{})
	e.stats.Kills[name]++

	e.log.WithFields(logrus.Fields{
		"entity": id,
		"name":   name,
		"turn":   e.stats.Turns,
	}).Debug("Actor died.")
	return fmt.Sprintf("%s is dead!", system.Capitalize(name))
}

func (e *Engine) toCorpseGlyph(id ecs.EntityID) {
	rend := component.Renderable{}
	if c := e.world.Get(id, component.CRenderable); c != nil {
		rend = c.(component.Renderable)
	}
	rend.Glyph = corpseGlyph
	rend.FGColor = tcell.ColorDarkRed
	rend.RenderOrder = component.OrderCorpse
	e.world.Add(id, rend)
}

// recomputeFOV refreshes the visible set when dirty and always clears the
// flag.
func (e *Engine) recomputeFOV() {
	if e.fov.needsRecompute {
		if c := e.world.Get(e.player, component.CPosition); c != nil {
			pos := c.(component.Position)
			e.fov.visible = e.opts.ComputeFOV(e.level, pos.X, pos.Y, e.fov.radius)
			e.fov.visible.Each(func(p gamemap.Point) { e.level.Explore(p.X, p.Y) })
		}
	}
	e.fov.needsRecompute = false
}

func (e *Engine) render() {
	if e.opts.Renderer != nil {
		e.opts.Renderer.Render(e.Frame())
	}
}

// Render draws the current state without advancing the game.
func (e *Engine) Render() { e.render() }

// Post surfaces a message outside of a tick, e.g. a welcome line.
func (e *Engine) Post(msg string) { e.sink.Post(msg) }

// Messages returns the retained message log, oldest first.
func (e *Engine) Messages() []string { return e.msgs.Lines() }

// Frame snapshots the state for a renderer.
func (e *Engine) Frame() render.Frame {
	return render.Frame{
		Level:    e.level,
		World:    e.world,
		Player:   e.player,
		Visible:  e.fov.visible,
		Status:   e.mode.String(),
		Turn:     e.stats.Turns,
		Messages: e.msgs.Lines(),
	}
}

// Mode returns the current turn state.
func (e *Engine) Mode() Mode { return e.mode }

// World returns the actor arena.
func (e *Engine) World() *ecs.World { return e.world }

// Level returns the current level.
func (e *Engine) Level() *gamemap.Level { return e.level }

// Player returns the player's entity ID.
func (e *Engine) Player() ecs.EntityID { return e.player }

// Visible returns the current visibility set.
func (e *Engine) Visible() system.Visibility { return e.fov.visible }

// Stats returns the run statistics so far.
func (e *Engine) Stats() Stats { return e.stats }
