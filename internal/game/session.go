package game

import (
	"context"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/logger"
	"dungeoncrawl/internal/render"
	"dungeoncrawl/internal/system"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// SessionOptions tunes a Session.
type SessionOptions struct {
	// PlayerName is recorded in the run log; set for remote sessions.
	PlayerName string
	// Sink receives every game message in addition to the HUD.
	Sink MessageSink
	// SaveRuns appends a line to runs.jsonl when a run ends.
	SaveRuns bool
}

// Session drives the interactive loop on one screen: it builds levels, feeds
// key presses to the engine and offers another run after death.
type Session struct {
	screen   tcell.Screen
	cfg      config.Config
	opts     SessionOptions
	seed     int64
	rng      *rand.Rand
	formula  system.DamageFormula
	renderer *render.Renderer
	engine   *Engine
	log      *logrus.Entry
}

// NewSession validates the damage formula and prepares a session. A zero
// cfg.Seed picks a time-based seed.
func NewSession(screen tcell.Screen, cfg config.Config, opts SessionOptions) (*Session, error) {
	formula, err := system.ParseFormula(cfg.DamageFormula)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		screen:   screen,
		cfg:      cfg,
		opts:     opts,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		formula:  formula,
		renderer: render.NewRenderer(screen, render.DefaultPalette),
		log:      logger.Component("session").WithField("player", opts.PlayerName),
	}
	return s, nil
}

// Engine exposes the running engine; nil before the first run starts.
func (s *Session) Engine() *Engine { return s.engine }

// Seed returns the seed the session's levels are generated from.
func (s *Session) Seed() int64 { return s.seed }

// newRun generates a level and resets the engine onto it.
func (s *Session) newRun(ctx context.Context) error {
	w, lvl, player, err := BuildLevel(ctx, s.cfg, s.rng)
	if err != nil {
		return err
	}
	if s.engine == nil {
		s.engine = NewEngine(w, lvl, player, Options{
			Formula:   s.formula,
			FOVRadius: s.cfg.FOVRadius,
			Sink:      s.opts.Sink,
			Renderer:  s.renderer,
			Rand:      s.rng,
		})
	} else {
		s.engine.Reset(w, lvl, player)
	}
	s.log.WithFields(logrus.Fields{
		"seed":     s.seed,
		"layout":   s.cfg.Map.Layout,
		"monsters": w.Len() - 1,
	}).Info("Run started.")
	s.engine.Post("You descend into the dungeon.")
	s.engine.Post("Use hjklyubn or arrow keys to move. q quits.")
	return nil
}

// Run plays until the player quits, the screen is finalised or ctx is
// cancelled. Supports multiple consecutive runs via Try Again.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.newRun(ctx); err != nil {
			return err
		}
		s.engine.Render()

		quit := false
		for !quit && s.engine.Mode() != ModePlayerDead {
			if ctx.Err() != nil {
				s.endRun()
				return nil
			}
			switch ev := s.screen.PollEvent().(type) {
			case nil:
				// Screen finalised.
				s.endRun()
				return nil
			case *tcell.EventResize:
				s.screen.Sync()
				s.engine.Render()
			case *tcell.EventKey:
				action, q := KeyToAction(ev)
				if q {
					quit = true
					continue
				}
				s.engine.Update(ctx, action)
			}
		}

		s.endRun()
		if quit || !s.showEndScreen() {
			return nil
		}
	}
}

// endRun logs the finished run and appends it to the run log.
func (s *Session) endRun() {
	st := s.engine.Stats()
	died := s.engine.Mode() == ModePlayerDead
	s.log.WithFields(logrus.Fields{
		"turns":     st.Turns,
		"kills":     totalKills(st.Kills),
		"killed_by": st.KilledBy,
		"died":      died,
	}).Info("Run ended.")
	if !s.opts.SaveRuns {
		return
	}
	saveRunLog(RunLog{
		Time:          time.Now().UTC(),
		Player:        s.opts.PlayerName,
		Seed:          s.seed,
		Layout:        s.cfg.Map.Layout,
		TurnsPlayed:   st.Turns,
		EnemiesKilled: st.Kills,
		CauseOfDeath:  st.KilledBy,
		Died:          died,
	})
}

func totalKills(kills map[string]int) int {
	n := 0
	for _, c := range kills {
		n += c
	}
	return n
}

// putText writes a string to the screen at (x, y), one column per rune.
func (s *Session) putText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// showEndScreen renders the run summary and returns true if the player
// wants to try again, false to quit.
func (s *Session) showEndScreen() bool {
	st := s.engine.Stats()

	type killEntry struct {
		name  string
		count int
	}
	var kills []killEntry
	for name, cnt := range st.Kills {
		kills = append(kills, killEntry{name, cnt})
	}
	sort.Slice(kills, func(i, j int) bool {
		if kills[i].count != kills[j].count {
			return kills[i].count > kills[j].count
		}
		return kills[i].name < kills[j].name
	})

	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	gold := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray)
	dim := tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	green := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	red := tcell.StyleDefault.Foreground(tcell.ColorRed)

	for {
		s.screen.Clear()
		sw, _ := s.screen.Size()

		sep := func(y int) {
			for x := 0; x < sw; x++ {
				s.screen.SetContent(x, y, '─', nil, gray)
			}
		}
		// label prints a left-aligned key at column 2 and value at column 22.
		label := func(y int, l, v string) {
			s.putText(2, y, l, dim)
			s.putText(22, y, v, white)
		}

		y := 1
		sep(y)
		y += 2

		s.putText(2, y, "THE DUNGEON CLAIMS YOU", gold)
		badge := "[DEFEAT]"
		s.putText(sw-len(badge)-1, y, badge, red)
		y += 2

		label(y, "Turns Survived:", fmt.Sprintf("%d", st.Turns))
		y++
		label(y, "Enemies Slain:", fmt.Sprintf("%d", totalKills(st.Kills)))
		y++
		for _, k := range kills {
			s.putText(4, y, fmt.Sprintf("%s ×%d", k.name, k.count), dim)
			y++
		}
		y++
		if st.KilledBy != "" {
			label(y, "Killed By:", st.KilledBy)
			y += 2
		}

		sep(y)
		y += 2

		s.putText(2, y, "[R] Try Again", green)
		s.putText(18, y, "[Q] Quit", red)

		s.screen.Show()

		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return false
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'r', 'R':
					return true
				case 'q', 'Q':
					return false
				}
			case tcell.KeyEscape:
				return false
			}
		}
	}
}
