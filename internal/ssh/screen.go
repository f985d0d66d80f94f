package ssh

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is used when the client sends no TERM or one that is not
// allowed.
const DefaultTerm = "xterm-256color"

// TermSet builds an allow-list of terminal names.
func TermSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = true
		}
	}
	return set
}

// SessionTerm returns the client's TERM from environ when it is in allowed,
// otherwise DefaultTerm. The value ends up in the process environment, so
// anything unknown is refused.
func SessionTerm(environ []string, allowed map[string]bool) string {
	for _, env := range environ {
		if term, ok := strings.CutPrefix(env, "TERM="); ok {
			if allowed[term] {
				return term
			}
			break
		}
	}
	return DefaultTerm
}

// termMu serialises os.Setenv("TERM") around terminfo lookups.
var termMu sync.Mutex

// NewScreen builds and initialises a tcell screen that draws to s.
func NewScreen(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window, term string) (tcell.Screen, error) {
	tty := NewSessionTty(s, pty, winCh)

	// tcell resolves terminfo from $TERM.
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}
