package game

import (
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/logger"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RunLog records statistics gathered during one run.
type RunLog struct {
	Time          time.Time      `json:"time"`
	Player        string         `json:"player,omitempty"` // ssh user for remote sessions
	Seed          int64          `json:"seed"`
	Layout        string         `json:"layout"`
	TurnsPlayed   int            `json:"turns_played"`
	EnemiesKilled map[string]int `json:"enemies_killed"` // name → kill count
	CauseOfDeath  string         `json:"cause_of_death,omitempty"`
	Died          bool           `json:"died"`
}

// saveRunLog appends the completed run as a single JSON line to runs.jsonl.
// Errors are logged and otherwise dropped so a disk problem never ends a game.
func saveRunLog(log RunLog) {
	dir, err := config.DataDir()
	if err != nil {
		logger.Component("runlog").WithError(err).Warn("No data directory; run not saved.")
		return
	}
	if err := appendRunLog(filepath.Join(dir, "runs.jsonl"), log); err != nil {
		logger.Component("runlog").WithError(err).Warn("Run not saved.")
	}
}

func appendRunLog(path string, log RunLog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
