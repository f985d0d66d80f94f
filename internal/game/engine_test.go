package game

import (
	"context"
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/render"
	"dungeoncrawl/internal/system"
	"testing"

	"github.com/gdamore/tcell/v2"
)

// openLevel returns a w×h level with a wall border and open floor inside.
func openLevel(w, h int) *gamemap.Level {
	lvl := gamemap.New(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lvl.Set(x, y, gamemap.MakeFloor())
		}
	}
	return lvl
}

func addActor(w *ecs.World, lvl *gamemap.Level, name string, x, y int, c component.Combat) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Name{Text: name})
	w.Add(id, component.Renderable{Glyph: string(name[0]), FGColor: tcell.ColorRed, RenderOrder: component.OrderActor})
	w.Add(id, c)
	w.Add(id, component.TagBlocking{})
	lvl.Place(id, x, y)
	return id
}

func addPlayer(w *ecs.World, lvl *gamemap.Level, x, y int) ecs.EntityID {
	id := addActor(w, lvl, "player", x, y, component.Combat{HP: 30, MaxHP: 30, Power: 2, Defense: 5})
	w.Add(id, component.TagPlayer{})
	return id
}

func addEnemy(w *ecs.World, lvl *gamemap.Level, name string, x, y int, c component.Combat) ecs.EntityID {
	id := addActor(w, lvl, name, x, y, c)
	w.Add(id, component.AI{Behavior: component.BehaviorChase, SightRange: 8})
	return id
}

type fakeRenderer struct{ frames []render.Frame }

func (r *fakeRenderer) Render(f render.Frame) { r.frames = append(r.frames, f) }

type recordingSink struct{ msgs []string }

func (s *recordingSink) Post(msg string) { s.msgs = append(s.msgs, msg) }

// scripted lets a test decide what each enemy does.
type scripted struct {
	calls *[]ecs.EntityID
	turn  func(tc system.TurnContext) []system.TurnResult
}

func (s scripted) TakeTurn(tc system.TurnContext) []system.TurnResult {
	*s.calls = append(*s.calls, tc.Self)
	if s.turn == nil {
		return nil
	}
	return s.turn(tc)
}

type harness struct {
	w        *ecs.World
	lvl      *gamemap.Level
	player   ecs.EntityID
	renderer *fakeRenderer
	sink     *recordingSink
	fovCalls int
	acted    []ecs.EntityID
	turn     func(tc system.TurnContext) []system.TurnResult
	engine   *Engine
}

// newHarness builds a 12×12 open level with the player at (5, 5). setup may
// add more actors before the engine is created.
func newHarness(t *testing.T, setup func(h *harness)) *harness {
	t.Helper()
	h := &harness{
		w:        ecs.NewWorld(),
		lvl:      openLevel(12, 12),
		renderer: &fakeRenderer{},
		sink:     &recordingSink{},
	}
	h.player = addPlayer(h.w, h.lvl, 5, 5)
	if setup != nil {
		setup(h)
	}
	h.engine = NewEngine(h.w, h.lvl, h.player, Options{
		Sink:     h.sink,
		Renderer: h.renderer,
		Strategy: func(component.AIBehavior) system.Strategy {
			return scripted{calls: &h.acted, turn: h.turn}
		},
		ComputeFOV: func(lvl *gamemap.Level, x, y, r int) system.Visibility {
			h.fovCalls++
			return system.ComputeFOV(lvl, x, y, r)
		},
	})
	return h
}

func (h *harness) pos(id ecs.EntityID) component.Position {
	return h.w.Get(id, component.CPosition).(component.Position)
}

func (h *harness) hp(id ecs.EntityID) int {
	return h.w.Get(id, component.CCombat).(component.Combat).HP
}

func TestNewEngineComputesInitialFOV(t *testing.T) {
	h := newHarness(t, nil)
	if h.fovCalls != 1 {
		t.Fatalf("fov calls = %d, want 1", h.fovCalls)
	}
	if !h.engine.Visible().Contains(5, 5) {
		t.Error("player tile should be visible")
	}
	if !h.lvl.At(6, 5).Explored {
		t.Error("visible tiles should be explored")
	}
	if h.engine.Mode() != ModePlayerTurn {
		t.Errorf("mode = %v, want player turn", h.engine.Mode())
	}
}

func TestPlayerMoveIntoFloor(t *testing.T) {
	h := newHarness(t, nil)
	results := h.engine.playerMove(1, 0)
	if len(results) != 0 {
		t.Errorf("move produced results: %v", results)
	}
	if p := h.pos(h.player); p.X != 6 || p.Y != 5 {
		t.Errorf("player at (%d,%d), want (6,5)", p.X, p.Y)
	}
	if !h.engine.fov.needsRecompute {
		t.Error("visibility should be marked dirty after a move")
	}
	if h.engine.Mode() != ModeEnemyTurn {
		t.Errorf("mode = %v, want enemy turn", h.engine.Mode())
	}
	if got := h.lvl.OccupantsAt(6, 5); len(got) != 1 || got[0] != h.player {
		t.Errorf("occupants at (6,5) = %v", got)
	}
	if got := h.lvl.OccupantsAt(5, 5); len(got) != 0 {
		t.Errorf("old tile still occupied: %v", got)
	}
}

func TestPlayerMoveWithoutPosition(t *testing.T) {
	h := newHarness(t, nil)
	h.w.Remove(h.player, component.CPosition)
	if results := h.engine.playerMove(1, 0); results != nil {
		t.Errorf("results = %+v, want none", results)
	}
	if h.engine.Mode() != ModePlayerTurn || h.engine.Stats().Turns != 0 {
		t.Errorf("mode = %v turns = %d, want an untouched player turn", h.engine.Mode(), h.engine.Stats().Turns)
	}
}

func TestFrameMessagesDoNotAliasLog(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Post("hello")
	f := h.engine.Frame()
	f.Messages[0] = "edited"
	if got := h.engine.Messages()[0]; got != "hello" {
		t.Errorf("editing a frame changed the log: %q", got)
	}
}

func TestUpdateLegalMove(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Update(context.Background(), MoveAction(0, -1))

	if p := h.pos(h.player); p.X != 5 || p.Y != 4 {
		t.Errorf("player at (%d,%d), want (5,4)", p.X, p.Y)
	}
	if h.fovCalls != 2 {
		t.Errorf("fov calls = %d, want 2", h.fovCalls)
	}
	if h.engine.fov.needsRecompute {
		t.Error("dirty flag should be cleared after the tick")
	}
	if h.engine.Mode() != ModePlayerTurn {
		t.Errorf("mode = %v, want player turn after enemies", h.engine.Mode())
	}
	if h.engine.Stats().Turns != 1 {
		t.Errorf("turns = %d, want 1", h.engine.Stats().Turns)
	}
	if len(h.renderer.frames) != 1 {
		t.Errorf("render calls = %d, want 1", len(h.renderer.frames))
	}
}

func TestUpdateBlockedMoveIsNoOp(t *testing.T) {
	h := newHarness(t, func(h *harness) {
		h.lvl.Set(4, 5, gamemap.MakeWall())
		addEnemy(h.w, h.lvl, "orc", 8, 8, component.Combat{HP: 10, MaxHP: 10, Power: 3})
	})
	before := h.engine.Visible()

	h.engine.Update(context.Background(), MoveAction(-1, 0))

	if p := h.pos(h.player); p.X != 5 || p.Y != 5 {
		t.Errorf("player moved to (%d,%d)", p.X, p.Y)
	}
	if h.engine.Mode() != ModePlayerTurn {
		t.Errorf("mode = %v, want player turn", h.engine.Mode())
	}
	if h.fovCalls != 1 {
		t.Errorf("fov recomputed on a blocked move: %d calls", h.fovCalls)
	}
	if h.engine.Visible().Len() != before.Len() {
		t.Error("visibility set changed on a blocked move")
	}
	if len(h.acted) != 0 {
		t.Errorf("enemies acted on a blocked move: %v", h.acted)
	}
	if h.engine.Stats().Turns != 0 {
		t.Errorf("turns = %d, want 0", h.engine.Stats().Turns)
	}
	if len(h.sink.msgs) != 0 {
		t.Errorf("messages on a blocked move: %v", h.sink.msgs)
	}
	if len(h.renderer.frames) != 1 {
		t.Errorf("render calls = %d, want 1", len(h.renderer.frames))
	}
}

func TestUpdateOutOfBoundsMoveIsNoOp(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Update(context.Background(), MoveAction(-20, 0))
	if p := h.pos(h.player); p.X != 5 || p.Y != 5 {
		t.Errorf("player moved to (%d,%d)", p.X, p.Y)
	}
	if h.engine.Stats().Turns != 0 {
		t.Errorf("turns = %d, want 0", h.engine.Stats().Turns)
	}
}

func TestBumpAttacksInsteadOfMoving(t *testing.T) {
	var orc ecs.EntityID
	h := newHarness(t, func(h *harness) {
		orc = addEnemy(h.w, h.lvl, "orc", 6, 5, component.Combat{HP: 10, MaxHP: 10, Power: 3, Defense: 0})
	})
	results := h.engine.playerMove(1, 0)

	if p := h.pos(h.player); p.X != 5 || p.Y != 5 {
		t.Errorf("player moved to (%d,%d)", p.X, p.Y)
	}
	if h.hp(orc) != 8 {
		t.Errorf("orc hp = %d, want 8", h.hp(orc))
	}
	if len(results) != 1 || results[0].Message != "Player attacks orc for 2 hit points." {
		t.Errorf("results = %+v", results)
	}
	if h.engine.Mode() != ModeEnemyTurn {
		t.Errorf("mode = %v, want enemy turn", h.engine.Mode())
	}
	if h.engine.fov.needsRecompute {
		t.Error("an attack should not dirty visibility")
	}
}

func TestPlayerKillsEnemy(t *testing.T) {
	var goblin ecs.EntityID
	h := newHarness(t, func(h *harness) {
		goblin = addEnemy(h.w, h.lvl, "goblin", 5, 6, component.Combat{HP: 2, MaxHP: 2, Power: 1, Defense: 0})
	})
	results := h.engine.playerMove(0, 1)

	if len(results) != 2 {
		t.Fatalf("results = %+v, want message then death", results)
	}
	if results[0].Message != "Player attacks goblin for 2 hit points." {
		t.Errorf("message = %q", results[0].Message)
	}
	if results[1].Dead != goblin {
		t.Errorf("death = %v, want %v", results[1].Dead, goblin)
	}

	h.engine.process(results)
	if h.engine.Mode() != ModeEnemyTurn {
		t.Errorf("mode = %v, want enemy turn", h.engine.Mode())
	}
	want := []string{"Player attacks goblin for 2 hit points.", "Goblin is dead!"}
	if len(h.sink.msgs) != len(want) {
		t.Fatalf("messages = %v, want %v", h.sink.msgs, want)
	}
	for i := range want {
		if h.sink.msgs[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, h.sink.msgs[i], want[i])
		}
	}
	if h.engine.Stats().Kills["goblin"] != 1 {
		t.Errorf("kills = %v", h.engine.Stats().Kills)
	}
}

func TestCorpsePolicy(t *testing.T) {
	var goblin ecs.EntityID
	h := newHarness(t, func(h *harness) {
		goblin = addEnemy(h.w, h.lvl, "goblin", 6, 5, component.Combat{HP: 1, MaxHP: 1})
	})
	h.engine.Update(context.Background(), MoveAction(1, 0))

	if !h.w.Alive(goblin) {
		t.Fatal("corpse should stay in the world")
	}
	rend := h.w.Get(goblin, component.CRenderable).(component.Renderable)
	if rend.Glyph != corpseGlyph || rend.FGColor != tcell.ColorDarkRed || rend.RenderOrder != component.OrderCorpse {
		t.Errorf("corpse renderable = %+v", rend)
	}
	if name := system.EntityName(h.w, goblin); name != "remains of goblin" {
		t.Errorf("name = %q", name)
	}
	for _, ct := range []ecs.ComponentType{component.CTagBlocking, component.CAI, component.CCombat} {
		if h.w.Has(goblin, ct) {
			t.Errorf("corpse still has component %d", ct)
		}
	}
	if !h.w.Has(goblin, component.CTagCorpse) {
		t.Error("corpse tag missing")
	}
	if len(h.acted) != 0 {
		t.Errorf("dead enemy acted: %v", h.acted)
	}

	// The corpse no longer blocks, so the next step walks onto it.
	h.engine.Update(context.Background(), MoveAction(1, 0))
	if p := h.pos(h.player); p.X != 6 || p.Y != 5 {
		t.Errorf("player at (%d,%d), want (6,5)", p.X, p.Y)
	}
}

func TestEnemiesActInCollectionOrder(t *testing.T) {
	var a, b ecs.EntityID
	h := newHarness(t, func(h *harness) {
		a = addEnemy(h.w, h.lvl, "ant", 9, 9, component.Combat{HP: 5, MaxHP: 5, Power: 1})
		b = addEnemy(h.w, h.lvl, "bat", 2, 2, component.Combat{HP: 5, MaxHP: 5, Power: 1})
	})
	h.engine.Update(context.Background(), MoveAction(0, 1))

	if len(h.acted) != 2 || h.acted[0] != a || h.acted[1] != b {
		t.Errorf("acted = %v, want [%v %v]", h.acted, a, b)
	}
}

func TestEnemyKillingPlayerStopsTheTick(t *testing.T) {
	var a, b ecs.EntityID
	h := newHarness(t, func(h *harness) {
		a = addEnemy(h.w, h.lvl, "ant", 9, 9, component.Combat{HP: 5, MaxHP: 5, Power: 1})
		b = addEnemy(h.w, h.lvl, "bat", 2, 2, component.Combat{HP: 5, MaxHP: 5, Power: 1})
	})
	h.turn = func(tc system.TurnContext) []system.TurnResult {
		return []system.TurnResult{
			system.Message("The ant bites."),
			system.Death(tc.Player),
			system.Message("never shown"),
		}
	}
	h.engine.Update(context.Background(), MoveAction(0, 1))

	if len(h.acted) != 1 || h.acted[0] != a {
		t.Errorf("acted = %v, want only %v", h.acted, a)
	}
	for _, id := range h.acted {
		if id == b {
			t.Error("second enemy acted after the player died")
		}
	}
	if h.engine.Mode() != ModePlayerDead {
		t.Errorf("mode = %v, want dead", h.engine.Mode())
	}
	want := []string{"The ant bites.", "You died!"}
	if len(h.sink.msgs) != len(want) {
		t.Fatalf("messages = %v, want %v", h.sink.msgs, want)
	}
	for i := range want {
		if h.sink.msgs[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, h.sink.msgs[i], want[i])
		}
	}
	if h.engine.Stats().KilledBy != "ant" {
		t.Errorf("killed by = %q, want ant", h.engine.Stats().KilledBy)
	}
	rend := h.w.Get(h.player, component.CRenderable).(component.Renderable)
	if rend.Glyph != corpseGlyph {
		t.Errorf("player glyph = %q, want %q", rend.Glyph, corpseGlyph)
	}
	if len(h.renderer.frames) != 1 || h.renderer.frames[0].Status != "dead" {
		t.Errorf("frames = %d, want one frame with status dead", len(h.renderer.frames))
	}
}

func TestRealChaseEnemyKillsPlayer(t *testing.T) {
	w := ecs.NewWorld()
	lvl := openLevel(12, 12)
	player := addPlayer(w, lvl, 5, 5)
	w.Add(player, component.Combat{HP: 1, MaxHP: 30, Power: 2, Defense: 0})
	a := addEnemy(w, lvl, "troll", 7, 5, component.Combat{HP: 16, MaxHP: 16, Power: 4, Defense: 1})
	addEnemy(w, lvl, "orc", 5, 3, component.Combat{HP: 10, MaxHP: 10, Power: 3})
	e := NewEngine(w, lvl, player, Options{})

	// Step toward the troll; it attacks from (7,5) and the orc never gets a turn.
	e.Update(context.Background(), MoveAction(1, 0))

	if e.Mode() != ModePlayerDead {
		t.Fatalf("mode = %v, want dead", e.Mode())
	}
	if e.Stats().KilledBy != "troll" {
		t.Errorf("killed by = %q, want troll", e.Stats().KilledBy)
	}
	if p := w.Get(a, component.CPosition).(component.Position); p.X != 7 || p.Y != 5 {
		t.Errorf("troll moved to (%d,%d)", p.X, p.Y)
	}
	msgs := e.Messages()
	if len(msgs) != 2 || msgs[1] != "You died!" {
		t.Errorf("messages = %v", msgs)
	}
}

func TestActionsIgnoredWhenNotPlayerTurn(t *testing.T) {
	for _, mode := range []Mode{ModeEnemyTurn, ModePlayerDead} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newHarness(t, func(h *harness) {
				addEnemy(h.w, h.lvl, "orc", 9, 9, component.Combat{HP: 10, MaxHP: 10, Power: 3})
			})
			h.engine.mode = mode
			h.engine.Update(context.Background(), MoveAction(1, 0))
			if mode == ModePlayerDead {
				h.engine.Update(context.Background(), Action{})
				if len(h.acted) != 0 {
					t.Errorf("enemies acted while dead: %v", h.acted)
				}
				if h.engine.Mode() != ModePlayerDead {
					t.Errorf("mode left dead: %v", h.engine.Mode())
				}
			}
			if p := h.pos(h.player); p.X != 5 || p.Y != 5 {
				t.Errorf("player moved to (%d,%d)", p.X, p.Y)
			}
			if h.engine.Stats().Turns != 0 {
				t.Errorf("turns = %d, want 0", h.engine.Stats().Turns)
			}
		})
	}
}

func TestEmptyActionDoesNothing(t *testing.T) {
	h := newHarness(t, func(h *harness) {
		addEnemy(h.w, h.lvl, "orc", 9, 9, component.Combat{HP: 10, MaxHP: 10, Power: 3})
	})
	h.engine.Update(context.Background(), Action{})
	if len(h.acted) != 0 {
		t.Errorf("enemies acted without a player action: %v", h.acted)
	}
	if h.engine.Mode() != ModePlayerTurn {
		t.Errorf("mode = %v", h.engine.Mode())
	}
}

func TestResetStartsFreshRun(t *testing.T) {
	h := newHarness(t, func(h *harness) {
		addEnemy(h.w, h.lvl, "goblin", 6, 5, component.Combat{HP: 1, MaxHP: 1})
	})
	h.engine.Update(context.Background(), MoveAction(1, 0))
	h.engine.mode = ModePlayerDead

	w := ecs.NewWorld()
	lvl := openLevel(8, 8)
	player := addPlayer(w, lvl, 3, 3)
	h.engine.Reset(w, lvl, player)

	if h.engine.Mode() != ModePlayerTurn {
		t.Errorf("mode = %v", h.engine.Mode())
	}
	if st := h.engine.Stats(); st.Turns != 0 || len(st.Kills) != 0 || st.KilledBy != "" {
		t.Errorf("stats not reset: %+v", st)
	}
	if len(h.engine.Messages()) != 0 {
		t.Errorf("messages not cleared: %v", h.engine.Messages())
	}
	if h.engine.World() != w || h.engine.Level() != lvl || h.engine.Player() != player {
		t.Error("engine not pointed at the new level")
	}
	if !h.engine.Visible().Contains(3, 3) {
		t.Error("visibility not recomputed for the new level")
	}
}

func TestFrameCarriesState(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Post("hello")
	f := h.engine.Frame()
	if f.Level != h.lvl || f.World != h.w || f.Player != h.player {
		t.Error("frame does not reference the engine state")
	}
	if f.Status != "player turn" || f.Turn != 0 {
		t.Errorf("status = %q turn = %d", f.Status, f.Turn)
	}
	if len(f.Messages) != 1 || f.Messages[0] != "hello" {
		t.Errorf("messages = %v", f.Messages)
	}
	if len(h.sink.msgs) != 1 {
		t.Errorf("external sink got %v", h.sink.msgs)
	}
}

func TestModeNext(t *testing.T) {
	tests := []struct {
		from Mode
		ev   event
		want Mode
	}{
		{ModePlayerTurn, evPlayerActed, ModeEnemyTurn},
		{ModePlayerTurn, evEnemiesDone, ModePlayerTurn},
		{ModePlayerTurn, evPlayerDied, ModePlayerDead},
		{ModeEnemyTurn, evEnemiesDone, ModePlayerTurn},
		{ModeEnemyTurn, evPlayerActed, ModeEnemyTurn},
		{ModeEnemyTurn, evPlayerDied, ModePlayerDead},
		{ModePlayerDead, evPlayerActed, ModePlayerDead},
		{ModePlayerDead, evEnemiesDone, ModePlayerDead},
		{ModePlayerDead, evPlayerDied, ModePlayerDead},
	}
	for _, tt := range tests {
		if got := tt.from.next(tt.ev); got != tt.want {
			t.Errorf("%v.next(%d) = %v, want %v", tt.from, tt.ev, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		ModePlayerTurn: "player turn",
		ModeEnemyTurn:  "enemy turn",
		ModePlayerDead: "dead",
		Mode(9):        "unknown",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, got, want)
		}
	}
}
