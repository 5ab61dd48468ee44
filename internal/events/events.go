package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Names of the events the frontend listens for.
const (
	InitialStart         = "initial-start"
	NoScreenshots        = "no-screenshots"
	SolutionSuccess      = "solution-success"
	InitialSolutionError = "initial-solution-error"
	DebugStart           = "debug-start"
	DebugSuccess         = "debug-success"
	DebugError           = "debug-error"
	APIKeyInvalid        = "api-key-invalid"
	ProcessingStatus     = "processing-status"

	ConfigChanged      = "config-changed"
	ViewChanged        = "view-changed"
	PagesChanged       = "pages-changed"
	ScreenshotsChanged = "screenshots-changed"
)

// StatusEvent is the processing-status payload.
type StatusEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Progress  int       `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

func NewStatus(eventType EventType, message string, progress int) StatusEvent {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return StatusEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Progress:  progress,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info StatusEvent.
func NewInfo(message string, progress int) StatusEvent {
	return NewStatus(EventInfo, message, progress)
}

// NewWarn creates a warn StatusEvent.
func NewWarn(message string, progress int) StatusEvent {
	return NewStatus(EventWarn, message, progress)
}

// ErrorPayload is sent with the *-error events.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
