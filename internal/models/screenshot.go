package models

type QueueKind string

const (
	QueuePrimary   QueueKind = "primary"
	QueueAuxiliary QueueKind = "auxiliary"
)

// Screenshot is a queued capture. Preview is a data URI, filled lazily.
type Screenshot struct {
	Path    string `json:"path"`
	Preview string `json:"preview"`
}

// QueueSnapshot is the screenshots-changed payload.
type QueueSnapshot struct {
	Queue       QueueKind    `json:"queue"`
	Screenshots []Screenshot `json:"screenshots"`
}
