package generate

import "dungeoncrawl/internal/gamemap"

// Populate picks monster spawns for every room but the first (the player's).
// Each room gets 0..MaxMonstersPerRoom monsters chosen by weight. A spawn is
// never placed on the player start or on a tile already claimed this pass.
func Populate(lvl *gamemap.Level, cfg *Config, playerX, playerY int) []Spawn {
	if len(lvl.Rooms) < 2 || cfg.MaxMonstersPerRoom <= 0 || totalWeight(cfg.Monsters) == 0 {
		return nil
	}

	occupied := map[gamemap.Point]bool{{X: playerX, Y: playerY}: true}
	var spawns []Spawn
	for _, room := range lvl.Rooms[1:] {
		n := cfg.Rand.Intn(cfg.MaxMonstersPerRoom + 1)
		for range n {
			x, y, ok := pickFreeInRoom(room, cfg, occupied)
			if !ok {
				continue
			}
			occupied[gamemap.Point{X: x, Y: y}] = true
			spawns = append(spawns, Spawn{Entry: pickWeighted(cfg), X: x, Y: y})
		}
	}
	return spawns
}

func totalWeight(entries []MonsterEntry) int {
	total := 0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	return total
}

// pickWeighted draws one roster entry. The roster must have positive total
// weight.
func pickWeighted(cfg *Config) MonsterEntry {
	r := cfg.Rand.Intn(totalWeight(cfg.Monsters))
	for _, e := range cfg.Monsters {
		if e.Weight <= 0 {
			continue
		}
		if r < e.Weight {
			return e
		}
		r -= e.Weight
	}
	return cfg.Monsters[len(cfg.Monsters)-1]
}

// pickFreeInRoom tries a few random interior tiles and gives up when all are
// taken.
func pickFreeInRoom(room gamemap.Rect, cfg *Config, occupied map[gamemap.Point]bool) (int, int, bool) {
	const maxAttempts = 20
	for range maxAttempts {
		x := randRange(cfg, room.X1+1, room.X2-1)
		y := randRange(cfg, room.Y1+1, room.Y2-1)
		if !occupied[gamemap.Point{X: x, Y: y}] {
			return x, y, true
		}
	}
	return 0, 0, false
}
