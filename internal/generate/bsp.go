package generate

import "dungeoncrawl/internal/gamemap"

// bspLeaf is a node in the BSP tree.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

// split divides the leaf into two children, returning false when leaf is too small.
func (l *bspLeaf) split(cfg *Config) bool {
	if l.left != nil || l.right != nil {
		return false
	}
	// Horizontal when taller, vertical when wider.
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	maxSize := l.H
	if !splitH {
		maxSize = l.W
	}
	// Both children keep at least one cell, so splitting always shrinks.
	minLeaf := max(cfg.MinLeafSize, 1)
	if maxSize <= minLeaf*2 {
		return false
	}

	lo := minLeaf
	hi := maxSize - minLeaf
	if lo >= hi {
		return false
	}
	split := lo + cfg.Rand.Intn(hi-lo+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: split}
		l.right = &bspLeaf{X: l.X, Y: l.Y + split, W: l.W, H: l.H - split}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: split, H: l.H}
		l.right = &bspLeaf{X: l.X + split, Y: l.Y, W: l.W - split, H: l.H}
	}
	return true
}

// createRooms recursively carves one room inside every terminal leaf. The
// room's wall ring stays inside the leaf, so rooms of sibling leaves never
// share floor.
func (l *bspLeaf) createRooms(lvl *gamemap.Level, cfg *Config) {
	if l.left != nil || l.right != nil {
		if l.left != nil {
			l.left.createRooms(lvl, cfg)
		}
		if l.right != nil {
			l.right.createRooms(lvl, cfg)
		}
		return
	}

	// Size counts the wall ring; interior is two smaller.
	maxW := min(cfg.RoomMaxSize, l.W)
	maxH := min(cfg.RoomMaxSize, l.H)
	if maxW < cfg.RoomMinSize || maxH < cfg.RoomMinSize {
		return
	}
	rw := randRange(cfg, cfg.RoomMinSize, maxW)
	rh := randRange(cfg, cfg.RoomMinSize, maxH)
	rx := l.X + cfg.Rand.Intn(l.W-rw+1)
	ry := l.Y + cfg.Rand.Intn(l.H-rh+1)

	// Keep the outer map ring solid.
	if rx+rw >= lvl.Width {
		rw = lvl.Width - rx - 1
	}
	if ry+rh >= lvl.Height {
		rh = lvl.Height - ry - 1
	}
	if rw < 2 || rh < 2 {
		return
	}

	room := gamemap.NewRect(rx, ry, rw, rh)
	l.room = &room
	carveRoom(lvl, room)
	lvl.Rooms = append(lvl.Rooms, room)
}

// getRoom returns a room from this subtree, preferring the left side.
func (l *bspLeaf) getRoom() *gamemap.Rect {
	if l.room != nil {
		return l.room
	}
	var lRoom, rRoom *gamemap.Rect
	if l.left != nil {
		lRoom = l.left.getRoom()
	}
	if l.right != nil {
		rRoom = l.right.getRoom()
	}
	if lRoom == nil {
		return rRoom
	}
	return lRoom
}

// connectChildren carves corridors between the two children of a split leaf.
func (l *bspLeaf) connectChildren(lvl *gamemap.Level, cfg *Config) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(lvl, cfg)
	l.right.connectChildren(lvl, cfg)

	lRoom := l.left.getRoom()
	rRoom := l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	lCX, lCY := lRoom.Center()
	rCX, rCY := rRoom.Center()
	carveCorridor(lvl, lCX, lCY, rCX, rCY, cfg)
}

// partition builds the BSP tree over the whole level and carves it.
func partition(lvl *gamemap.Level, cfg *Config) {
	root := &bspLeaf{X: 0, Y: 0, W: lvl.Width, H: lvl.Height}

	leaves := []*bspLeaf{root}
	splitAny := true
	for splitAny {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil || leaf.right != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > cfg.MaxLeafSize || leaf.H > cfg.MaxLeafSize ||
				cfg.Rand.Float64() > 0.25 {
				if leaf.split(cfg) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	root.createRooms(lvl, cfg)
	root.connectChildren(lvl, cfg)
}
