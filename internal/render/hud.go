package render

import (
	"dungeoncrawl/internal/component"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawHUD renders the status bar and the last three messages below the map.
func (r *Renderer) drawHUD(f Frame) {
	screenW, screenH := r.screen.Size()
	hudY := screenH - hudRows
	if hudY < 0 {
		return
	}

	r.drawHLine(hudY, tcell.ColorGray)

	hpText := "HP: ?"
	statText := ""
	hpColor := tcell.ColorWhite
	if c := f.World.Get(f.Player, component.CCombat); c != nil {
		cb := c.(component.Combat)
		hpText = fmt.Sprintf("HP: %d/%d", cb.HP, cb.MaxHP)
		statText = fmt.Sprintf("  ATK:%d DEF:%d", cb.Power, cb.Defense)
		if cb.HP*3 <= cb.MaxHP {
			hpColor = tcell.ColorRed
		}
	}
	status := fmt.Sprintf("%s%s  Turn: %d  [%s]", hpText, statText, f.Turn, f.Status)
	r.drawText(0, hudY+1, runewidth.Truncate(status, screenW, "…"), tcell.StyleDefault.Foreground(hpColor))

	start := max(len(f.Messages)-3, 0)
	for i, msg := range f.Messages[start:] {
		r.drawText(0, hudY+2+i, runewidth.Truncate(msg, screenW, "…"),
			tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text starting at column x, advancing by each rune's width.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
