package bridge

import "github.com/google/uuid"

const (
	// EventPathReceived carries the resolved path of a file the user opened with the app.
	EventPathReceived = "onPathReceived"
	// EventUnsupportedFile reports an intent that matched but could not be resolved.
	EventUnsupportedFile = "onUnsupportedFile"
)

// Event is a named message delivered to the application.
type Event struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Payload map[string]string `json:"payload"`
}

// NewEvent creates an event with a fresh id.
func NewEvent(name string, payload map[string]string) Event {
	return Event{ID: uuid.New().String(), Name: name, Payload: payload}
}

// PathReceived builds the onPathReceived event for path.
func PathReceived(path string) Event {
	return NewEvent(EventPathReceived, map[string]string{"path": path})
}
