package events

import (
	"fmt"

	"snapsolve/internal/logging"
	"snapsolve/internal/models"
)

// LogEmitter writes events to the log only. Used where no frontend exists.
type LogEmitter struct{}

func (LogEmitter) Emit(name string, payload ...interface{}) {
	logEvent(name, payload...)
}

func logEvent(name string, payload ...interface{}) {
	log := logging.L().Named("events")

	level := EventInfo
	fields := make([]interface{}, 0, 8)
	for _, p := range payload {
		if status, ok := p.(StatusEvent); ok {
			level = status.Type
		}
		fields = append(fields, summarize(p)...)
	}
	switch name {
	case InitialSolutionError, DebugError, APIKeyInvalid:
		level = EventError
	}

	switch level {
	case EventError:
		log.Errorw(name, fields...)
	case EventWarn:
		log.Warnw(name, fields...)
	default:
		log.Infow(name, fields...)
	}
}

// summarize returns log fields for one payload. Screenshot previews, page
// images and generated code never reach the log, only their counts.
func summarize(p interface{}) []interface{} {
	switch v := p.(type) {
	case StatusEvent:
		return []interface{}{"message", v.Message, "progress", v.Progress}
	case ErrorPayload:
		return []interface{}{"kind", v.Kind, "message", v.Message}
	case string:
		return []interface{}{"text", v}
	case models.View:
		return []interface{}{"view", string(v)}
	case models.QueueSnapshot:
		return []interface{}{"queue", string(v.Queue), "screenshots", len(v.Screenshots)}
	case models.PagesResult:
		return []interface{}{"success", v.Success, "pages", len(v.Pages), "error", v.Error}
	case *models.SolutionRecord:
		if v == nil {
			return nil
		}
		return []interface{}{"language", v.Language, "codeBytes", len(v.Code), "degraded", v.Degraded}
	case *models.DebugRecord:
		if v == nil {
			return nil
		}
		return []interface{}{"attempt", v.Attempt, "language", v.Language, "issues", len(v.Issues), "degraded", v.Degraded}
	default:
		return []interface{}{"payloadType", fmt.Sprintf("%T", p)}
	}
}
