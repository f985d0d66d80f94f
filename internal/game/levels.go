package game

import (
	"context"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/factory"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/generate"
	"fmt"
	"math/rand"
)

// levelConfig builds a generate.Config from the game settings.
func levelConfig(cfg config.Config, rng *rand.Rand) *generate.Config {
	corridor := generate.CorridorLShaped
	if cfg.Map.Corridor == "z" {
		corridor = generate.CorridorZShaped
	}
	return &generate.Config{
		Width:              cfg.Map.Width,
		Height:             cfg.Map.Height,
		Layout:             generate.Layout(cfg.Map.Layout),
		CorridorStyle:      corridor,
		MaxRooms:           cfg.Map.MaxRooms,
		RoomMinSize:        cfg.Map.RoomMinSize,
		RoomMaxSize:        cfg.Map.RoomMaxSize,
		MinLeafSize:        cfg.Map.MinLeafSize,
		MaxLeafSize:        cfg.Map.MaxLeafSize,
		MaxMonstersPerRoom: cfg.Map.MaxMonstersPerRoom,
		Monsters:           factory.Roster(cfg.Monsters),
		Rand:               rng,
	}
}

// BuildLevel generates a level and fills a fresh world with the player and
// the spawned monsters. The player is created first, so it leads the
// collection order.
func BuildLevel(ctx context.Context, cfg config.Config, rng *rand.Rand) (*ecs.World, *gamemap.Level, ecs.EntityID, error) {
	res, err := generate.Generate(ctx, levelConfig(cfg, rng))
	if err != nil {
		return nil, nil, ecs.NilEntity, fmt.Errorf("build level: %w", err)
	}
	w := ecs.NewWorld()
	player := factory.NewPlayer(w, res.Level, res.PlayerX, res.PlayerY, cfg.Player)
	for _, s := range res.Spawns {
		factory.NewMonster(w, res.Level, s.Entry, s.X, s.Y)
	}
	return w, res.Level, player, nil
}
