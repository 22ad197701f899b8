package model

// Update events broadcast by the data models.

// UpdateType classifies how broadly a model change should be re-rendered.
type UpdateType int

const (
	UpdatePatch UpdateType = iota
	UpdateMinor
	UpdateMajor
	UpdateInit
	UpdateError
)

func (t UpdateType) String() string {
	switch t {
	case UpdatePatch:
		return "PATCH"
	case UpdateMinor:
		return "MINOR"
	case UpdateMajor:
		return "MAJOR"
	case UpdateInit:
		return "INIT"
	case UpdateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is a model notification. The concrete type carries exactly the
// payload its update type needs.
type Event interface {
	Kind() UpdateType
}

// PatchEvent asks for a single point to be re-rendered in place.
type PatchEvent struct {
	Point Point
}

// MinorEvent asks for the list to be rebuilt with the current sort.
type MinorEvent struct{}

// MajorEvent asks for the list to be rebuilt with the default sort.
type MajorEvent struct{}

// InitEvent is sent once the first load has completed.
type InitEvent struct{}

// ErrorEvent is sent when the first load failed.
type ErrorEvent struct {
	Err error
}

func (PatchEvent) Kind() UpdateType { return UpdatePatch }
func (MinorEvent) Kind() UpdateType { return UpdateMinor }
func (MajorEvent) Kind() UpdateType { return UpdateMajor }
func (InitEvent) Kind() UpdateType  { return UpdateInit }
func (ErrorEvent) Kind() UpdateType { return UpdateError }

// NewEvent builds the event for a caller-selected update type. The point is
// only kept for PATCH.
func NewEvent(t UpdateType, p Point) Event {
	switch t {
	case UpdatePatch:
		return PatchEvent{Point: p}
	case UpdateMajor:
		return MajorEvent{}
	case UpdateInit:
		return InitEvent{}
	default:
		return MinorEvent{}
	}
}
