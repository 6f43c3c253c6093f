package editor

import "github.com/askiada/pipeline-editor/pkg/pipeline/model"

// TargetKind is what a pointer is over.
type TargetKind int

const (
	TargetCanvas TargetKind = iota
	TargetStep
	TargetOutgoingAnchor
	TargetIncomingAnchor
	TargetConnection
)

// Target is the element under the pointer. Step is set for steps and anchors,
// Connection for connections.
type Target struct {
	Kind       TargetKind
	Step       string
	Connection model.Connection
}

// PointerEvent is a pointer press, move or release.
type PointerEvent struct {
	// Client is the pointer position in client (screen) coordinates.
	Client model.Point
	// Modifier is true while the pan modifier key is held.
	Modifier bool
	Target   Target
}

// Key is a keyboard key the controller reacts to.
type Key int

const (
	KeyEscape Key = iota
	KeyDelete
	KeyBackspace
)

// Mode is the gesture in progress.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeDragPending is a press on a step that has not moved far enough to
	// be a drag yet. Released as is, it is a click.
	ModeDragPending
	ModeStepDragging
	ModeConnectionDrawing
	ModeRectSelecting
	ModeCanvasPanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragPending:
		return "drag-pending"
	case ModeStepDragging:
		return "step-dragging"
	case ModeConnectionDrawing:
		return "connection-drawing"
	case ModeRectSelecting:
		return "rect-selecting"
	case ModeCanvasPanning:
		return "canvas-panning"
	default:
		return "unknown"
	}
}
