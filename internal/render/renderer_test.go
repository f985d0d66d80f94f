package render

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/system"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	t.Cleanup(ss.Fini)
	return ss
}

// rowText reads screen row y as a string.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func testFrame() (Frame, ecs.EntityID) {
	lvl := gamemap.New(20, 12)
	for y := 1; y < 11; y++ {
		for x := 1; x < 19; x++ {
			lvl.Set(x, y, gamemap.MakeFloor())
		}
	}
	for y := 1; y < 11; y++ {
		lvl.Set(10, y, gamemap.MakeWall())
	}
	w := ecs.NewWorld()
	player := w.CreateEntity()
	w.Add(player, component.Position{X: 5, Y: 5})
	w.Add(player, component.Renderable{Glyph: "@", FGColor: tcell.ColorWhite, RenderOrder: component.OrderPlayer})
	w.Add(player, component.Combat{HP: 30, MaxHP: 30, Power: 2, Defense: 5})

	hidden := w.CreateEntity()
	w.Add(hidden, component.Position{X: 15, Y: 5})
	w.Add(hidden, component.Renderable{Glyph: "o", RenderOrder: component.OrderActor})

	return Frame{
		Level:    lvl,
		World:    w,
		Player:   player,
		Visible:  system.ComputeFOV(lvl, 5, 5, 10),
		Status:   "player turn",
		Turn:     3,
		Messages: []string{"one", "two", "three", "four"},
	}, hidden
}

func TestRenderCentresOnPlayer(t *testing.T) {
	ss := newSimScreen(t)
	f, _ := testFrame()
	NewRenderer(ss, DefaultPalette).Render(f)

	// 80x19 viewport: player at column 40, row 9.
	if r, _, _, _ := ss.GetContent(40, 9); r != '@' {
		t.Errorf("expected player glyph at (40,9), got %q", r)
	}
}

func TestRenderHidesActorsOutOfView(t *testing.T) {
	ss := newSimScreen(t)
	f, _ := testFrame()
	NewRenderer(ss, DefaultPalette).Render(f)

	// The orc stands 10 tiles east, behind the wall.
	if r, _, _, _ := ss.GetContent(50, 9); r == 'o' {
		t.Error("actor behind a wall should not be drawn")
	}
	if r, _, _, _ := ss.GetContent(45, 9); r != '#' {
		t.Errorf("expected lit wall at (45,9), got %q", r)
	}
}

func TestRenderExploredTilesAreDimmed(t *testing.T) {
	ss := newSimScreen(t)
	f, _ := testFrame()
	f.Level.Explore(15, 5)
	NewRenderer(ss, DefaultPalette).Render(f)

	r, _, style, _ := ss.GetContent(50, 9)
	if r != '.' {
		t.Fatalf("explored floor should be drawn, got %q", r)
	}
	if fg, _, _ := style.Decompose(); fg != DefaultPalette.DarkFloor {
		t.Errorf("explored tile color = %v, want dark floor", fg)
	}
}

func TestRenderHUD(t *testing.T) {
	ss := newSimScreen(t)
	f, _ := testFrame()
	NewRenderer(ss, DefaultPalette).Render(f)

	status := rowText(ss, 24-hudRows+1)
	for _, want := range []string{"HP: 30/30", "ATK:2 DEF:5", "Turn: 3", "[player turn]"} {
		if !strings.Contains(status, want) {
			t.Errorf("status line %q missing %q", status, want)
		}
	}
	if got := rowText(ss, 24-hudRows+2); !strings.HasPrefix(got, "two") {
		t.Errorf("first message row = %q, want the third-newest message", got)
	}
	if got := rowText(ss, 24-hudRows+4); !strings.HasPrefix(got, "four") {
		t.Errorf("last message row = %q", got)
	}
}

func TestCamera(t *testing.T) {
	tests := []struct {
		cell   int
		wx, wy int
		sx, sy int
		vis    bool
	}{
		{1, 10, 10, 40, 10, true},
		{2, 10, 10, 40, 10, true},
		{1, -40, 10, -10, 10, false},
		{2, 30, 10, 80, 10, false},
	}
	for _, tt := range tests {
		c := NewCamera(10, 10, 80, 20, tt.cell)
		sx, sy, vis := c.WorldToScreen(tt.wx, tt.wy)
		if sx != tt.sx || sy != tt.sy || vis != tt.vis {
			t.Errorf("cell=%d WorldToScreen(%d,%d) = (%d,%d,%v); want (%d,%d,%v)",
				tt.cell, tt.wx, tt.wy, sx, sy, vis, tt.sx, tt.sy, tt.vis)
		}
		if vis {
			if wx, wy := c.ScreenToWorld(sx, sy); wx != tt.wx || wy != tt.wy {
				t.Errorf("ScreenToWorld round trip = (%d,%d)", wx, wy)
			}
		}
	}
}
