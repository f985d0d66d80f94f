package game

import "github.com/sirupsen/logrus"

// MessageSink receives every message the engine surfaces.
type MessageSink interface {
	Post(msg string)
}

// maxMessages bounds MessageLog.
const maxMessages = 50

// MessageLog keeps the most recent messages for the HUD.
type MessageLog struct {
	lines []string
}

func (l *MessageLog) Post(msg string) {
	l.lines = append(l.lines, msg)
	if len(l.lines) > maxMessages {
		l.lines = l.lines[len(l.lines)-maxMessages:]
	}
}

// Lines returns the retained messages, oldest first. The slice is a copy.
func (l *MessageLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Clear drops every message.
func (l *MessageLog) Clear() { l.lines = nil }

// LogSink writes messages to a logrus entry at info level.
type LogSink struct {
	Entry *logrus.Entry
}

func (s LogSink) Post(msg string) {
	s.Entry.WithField("event", "message").Info(msg)
}

// MultiSink fans each message out to every sink in order.
type MultiSink []MessageSink

func (m MultiSink) Post(msg string) {
	for _, s := range m {
		s.Post(msg)
	}
}
