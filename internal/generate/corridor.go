package generate

import "dungeoncrawl/internal/gamemap"

// carveRoom turns the interior of r into floor. The outer ring stays wall.
func carveRoom(lvl *gamemap.Level, r gamemap.Rect) {
	for y := r.Y1 + 1; y < r.Y2; y++ {
		for x := r.X1 + 1; x < r.X2; x++ {
			if lvl.InBounds(x, y) {
				lvl.Set(x, y, gamemap.MakeFloor())
			}
		}
	}
}

// carveCorridor digs a tunnel between (x1,y1) and (x2,y2).
func carveCorridor(lvl *gamemap.Level, x1, y1, x2, y2 int, cfg *Config) {
	switch cfg.CorridorStyle {
	case CorridorZShaped:
		carveZShaped(lvl, x1, y1, x2, y2)
	default: // LShaped
		if cfg.Rand.Intn(2) == 0 {
			carveH(lvl, x1, x2, y1)
			carveV(lvl, y1, y2, x2)
		} else {
			carveV(lvl, y1, y2, x1)
			carveH(lvl, x1, x2, y2)
		}
	}
}

func carveH(lvl *gamemap.Level, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if lvl.InBounds(x, y) {
			lvl.Set(x, y, gamemap.MakeFloor())
		}
	}
}

func carveV(lvl *gamemap.Level, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if lvl.InBounds(x, y) {
			lvl.Set(x, y, gamemap.MakeFloor())
		}
	}
}

func carveZShaped(lvl *gamemap.Level, x1, y1, x2, y2 int) {
	midY := (y1 + y2) / 2
	carveV(lvl, y1, midY, x1)
	carveH(lvl, x1, x2, midY)
	carveV(lvl, midY, y2, x2)
}
