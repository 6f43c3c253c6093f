package editor

import "github.com/askiada/pipeline-editor/pkg/pipeline/model"

// Viewport converts pointer positions and reports where steps are drawn.
type Viewport interface {
	// StepBounds returns the bounding box of a step in canvas coordinates.
	StepBounds(uuid string) (model.Rect, bool)
	// ToCanvas converts the pointer position of an event to canvas coordinates.
	ToCanvas(event PointerEvent) model.Point
	// Pan moves the canvas by a delta expressed in client coordinates.
	Pan(delta model.Point)
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(notice Notice)
}

// ChangeTracker is told when the pipeline has unsaved changes. It must not
// save on its own initiative.
type ChangeTracker interface {
	MarkUnsaved()
}

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a message for the user.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopTracker struct{}

func (nopTracker) MarkUnsaved() {}
