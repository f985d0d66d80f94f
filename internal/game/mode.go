package game

// Mode is the engine's turn state.
type Mode uint8

const (
	ModePlayerTurn Mode = iota
	ModeEnemyTurn
	ModePlayerDead
)

func (m Mode) String() string {
	switch m {
	case ModePlayerTurn:
		return "player turn"
	case ModeEnemyTurn:
		return "enemy turn"
	case ModePlayerDead:
		return "dead"
	}
	return "unknown"
}

// event drives mode transitions.
type event uint8

const (
	evPlayerActed event = iota
	evEnemiesDone
	evPlayerDied
)

// next returns the mode after ev. ModePlayerDead is absorbing; events that do
// not apply to the current mode leave it unchanged.
func (m Mode) next(ev event) Mode {
	if m == ModePlayerDead {
		return m
	}
	switch ev {
	case evPlayerDied:
		return ModePlayerDead
	case evPlayerActed:
		if m == ModePlayerTurn {
			return ModeEnemyTurn
		}
	case evEnemiesDone:
		if m == ModeEnemyTurn {
			return ModePlayerTurn
		}
	}
	return m
}
