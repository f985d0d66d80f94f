package system

import "dungeoncrawl/internal/ecs"

// TurnResult is one event produced by an action. Either field may be empty:
// Message == "" means nothing to show, Dead == ecs.NilEntity means nobody died.
type TurnResult struct {
	Message string
	Dead    ecs.EntityID
}

// Message returns a result that only carries text.
func Message(text string) TurnResult {
	return TurnResult{Message: text}
}

// Death returns a result reporting that id died.
func Death(id ecs.EntityID) TurnResult {
	return TurnResult{Dead: id}
}
