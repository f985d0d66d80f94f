package system

import (
	"dungeoncrawl/internal/gamemap"

	"github.com/zyedidia/generic/mapset"
)

// Visibility is the set of tiles visible from one origin. The zero value is
// an empty set.
type Visibility struct {
	tiles mapset.Set[gamemap.Point]
}

func newVisibility() Visibility {
	return Visibility{tiles: mapset.New[gamemap.Point]()}
}

// Contains reports whether (x, y) is visible.
func (v Visibility) Contains(x, y int) bool {
	return v.tiles.Has(gamemap.Point{X: x, Y: y})
}

// Len returns the number of visible tiles.
func (v Visibility) Len() int {
	return v.tiles.Size()
}

// Each calls fn once per visible tile, in no particular order.
func (v Visibility) Each(fn func(p gamemap.Point)) {
	v.tiles.Each(fn)
}

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a world offset via:
//   worldX = cx + dx*xx + dy*xy
//   worldY = cy + dx*yx + dy*yy
// where dx sweeps horizontally within the row and dy is the fixed row index.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// ComputeFOV runs recursive shadowcasting from (ox, oy) and returns every tile
// within radius that has line of sight. The origin is always visible when in
// bounds. The level is only read.
func ComputeFOV(lvl *gamemap.Level, ox, oy, radius int) Visibility {
	vis := newVisibility()
	if !lvl.InBounds(ox, oy) {
		return vis
	}
	vis.tiles.Put(gamemap.Point{X: ox, Y: oy})
	if radius <= 0 {
		return vis
	}
	for _, m := range octants {
		castLight(lvl, vis, ox, oy, 1, 1.0, 0.0, radius, m[0], m[1], m[2], m[3])
	}
	return vis
}

// castLight lights one octant.
//
//   - j is the current row (distance from origin along the main axis)
//   - dy = -j is fixed for the entire inner sweep
//   - dx sweeps from -j to 0
//   - lSlope = (dx - 0.5) / (dy + 0.5)   rSlope = (dx + 0.5) / (dy - 0.5)
func castLight(lvl *gamemap.Level, vis Visibility, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			wx := cx + dx*xx + dy*xy
			wy := cy + dx*yx + dy*yy

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && lvl.InBounds(wx, wy) {
				vis.tiles.Put(gamemap.Point{X: wx, Y: wy})
			}

			opaque := lvl.BlocksSightAt(wx, wy)

			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(lvl, vis, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
