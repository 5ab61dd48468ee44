package models

// View is the panel the window currently shows.
type View string

const (
	ViewQueue     View = "queue"
	ViewSolutions View = "solutions"
	ViewDebug     View = "debug"
)

func (v View) Valid() bool {
	switch v {
	case ViewQueue, ViewSolutions, ViewDebug:
		return true
	}
	return false
}
