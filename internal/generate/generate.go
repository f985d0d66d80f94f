// Package generate builds dungeon levels: room layout, corridors and the
// monster spawn list.
package generate

import (
	"context"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/logger"
	"dungeoncrawl/internal/telemetry"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNoRooms is returned when the layout could not fit a single room.
var ErrNoRooms = errors.New("no rooms placed")

// Result is a generated level with its player start and monster spawns.
type Result struct {
	Level            *gamemap.Level
	PlayerX, PlayerY int
	Spawns           []Spawn
}

// Generate lays out a level according to cfg. The player starts at the
// centre of the first room.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	_, span := telemetry.Tracer("generate").Start(ctx, "level.generate")
	defer span.End()
	start := time.Now()

	if cfg.Rand == nil {
		return nil, errors.New("generate: nil Rand")
	}
	lvl := gamemap.New(cfg.Width, cfg.Height)
	switch cfg.Layout {
	case LayoutBSP:
		partition(lvl, cfg)
	case LayoutRooms, "":
		placeRooms(lvl, cfg)
	default:
		err := fmt.Errorf("generate: unknown layout %q", cfg.Layout)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(lvl.Rooms) == 0 {
		err := fmt.Errorf("generate %dx%d %s level: %w", cfg.Width, cfg.Height, cfg.Layout, ErrNoRooms)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	px, py := lvl.Rooms[0].Center()
	spawns := Populate(lvl, cfg, px, py)

	span.SetAttributes(
		attribute.String("level.layout", string(cfg.Layout)),
		attribute.Int("level.width", cfg.Width),
		attribute.Int("level.height", cfg.Height),
		attribute.Int("level.room_count", len(lvl.Rooms)),
		attribute.Int("level.spawn_count", len(spawns)),
		attribute.Int64("level.generation_ms", time.Since(start).Milliseconds()),
	)
	logger.Component("generate").WithFields(logrus.Fields{
		"layout": cfg.Layout,
		"rooms":  len(lvl.Rooms),
		"spawns": len(spawns),
	}).Debug("Level generated.")

	return &Result{Level: lvl, PlayerX: px, PlayerY: py, Spawns: spawns}, nil
}
