package game

import (
	"context"
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/generate"
	"math/rand"
	"testing"
)

func TestBuildLevelPlayerFirst(t *testing.T) {
	cfg := config.Default()
	w, lvl, player, err := BuildLevel(context.Background(), cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("BuildLevel: %v", err)
	}
	ents := w.Entities()
	if len(ents) == 0 || ents[0] != player {
		t.Fatalf("player should lead the collection order, got %v", ents)
	}
	if !w.Has(player, component.CTagPlayer) {
		t.Error("player tag missing")
	}
	pos := w.Get(player, component.CPosition).(component.Position)
	if lvl.BlocksMoveAt(pos.X, pos.Y) {
		t.Error("player placed on a blocking tile")
	}
	if got := lvl.BlockingActorAt(w, pos.X, pos.Y); got != player {
		t.Errorf("occupancy index at player tile = %v, want %v", got, player)
	}
	for _, id := range w.Query(component.CAI) {
		p := w.Get(id, component.CPosition).(component.Position)
		if lvl.BlocksMoveAt(p.X, p.Y) {
			t.Errorf("monster %v on a wall at (%d,%d)", id, p.X, p.Y)
		}
		if p == pos {
			t.Errorf("monster %v shares the player's tile", id)
		}
	}
}

func TestBuildLevelDeterministic(t *testing.T) {
	cfg := config.Default()
	w1, _, _, err := BuildLevel(context.Background(), cfg, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	w2, _, _, err := BuildLevel(context.Background(), cfg, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	if w1.Len() != w2.Len() {
		t.Fatalf("entity counts differ: %d vs %d", w1.Len(), w2.Len())
	}
	for _, id := range w1.Entities() {
		a := w1.Get(id, component.CPosition).(component.Position)
		b := w2.Get(id, component.CPosition).(component.Position)
		if a != b {
			t.Errorf("entity %v at %v vs %v", id, a, b)
		}
	}
}

func TestLevelConfigCorridor(t *testing.T) {
	cfg := config.Default()
	cfg.Map.Corridor = "z"
	cfg.Map.Layout = "bsp"
	gc := levelConfig(cfg, rand.New(rand.NewSource(1)))
	if gc.CorridorStyle != generate.CorridorZShaped || gc.Layout != generate.LayoutBSP {
		t.Errorf("config = %+v", gc)
	}
	if len(gc.Monsters) != len(cfg.Monsters) {
		t.Errorf("monsters = %d, want %d", len(gc.Monsters), len(cfg.Monsters))
	}
}

func TestBuildLevelBadLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Map.Layout = "caves"
	if _, _, _, err := BuildLevel(context.Background(), cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected an error for an unknown layout")
	}
}
