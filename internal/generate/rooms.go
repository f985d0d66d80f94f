package generate

import "dungeoncrawl/internal/gamemap"

// placeRooms tries cfg.MaxRooms random rectangles, keeps those that do not
// touch an earlier room and joins each new room to the previous one.
func placeRooms(lvl *gamemap.Level, cfg *Config) {
	for range cfg.MaxRooms {
		w := randRange(cfg, cfg.RoomMinSize, cfg.RoomMaxSize)
		h := randRange(cfg, cfg.RoomMinSize, cfg.RoomMaxSize)
		if w >= lvl.Width-1 || h >= lvl.Height-1 {
			continue
		}
		x := randRange(cfg, 0, lvl.Width-w-1)
		y := randRange(cfg, 0, lvl.Height-h-1)
		room := gamemap.NewRect(x, y, w, h)

		overlaps := false
		for _, other := range lvl.Rooms {
			if room.Intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(lvl, room)
		if n := len(lvl.Rooms); n > 0 {
			px, py := lvl.Rooms[n-1].Center()
			cx, cy := room.Center()
			carveCorridor(lvl, px, py, cx, cy, cfg)
		}
		lvl.Rooms = append(lvl.Rooms, room)
	}
}

// randRange returns an int in [lo, hi].
func randRange(cfg *Config, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + cfg.Rand.Intn(hi-lo+1)
}
