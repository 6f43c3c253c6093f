package editor

import (
	"log/slog"

	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

// PointerDown starts a gesture according to what is under the pointer.
func (c *Controller) PointerDown(event PointerEvent) {
	if c.mode != ModeIdle {
		c.cancelGesture()
	}

	canvas := c.viewport.ToCanvas(event)
	c.gesture = gesture{
		pressClient:   event.Client,
		lastClient:    event.Client,
		pressCanvas:   canvas,
		pointerCanvas: canvas,
	}

	switch event.Target.Kind {
	case TargetStep, TargetIncomingAnchor:
		if _, ok := c.pipe.Step(event.Target.Step); !ok {
			return
		}

		c.selectedConn = nil
		c.gesture.step = event.Target.Step
		c.setMode(ModeDragPending)
	case TargetOutgoingAnchor:
		if _, ok := c.pipe.Step(event.Target.Step); !ok {
			return
		}

		c.gesture.source = event.Target.Step
		c.setMode(ModeConnectionDrawing)
	case TargetConnection:
		conn := event.Target.Connection
		if !c.pipe.HasConnection(conn.Source, conn.Target) {
			return
		}

		c.selection = nil
		c.openStep = ""
		c.selectedConn = &conn
	case TargetCanvas:
		if event.Modifier {
			c.setMode(ModeCanvasPanning)

			return
		}

		c.Deselect()
		c.setMode(ModeRectSelecting)
	}
}

// PointerMove updates the gesture in progress.
func (c *Controller) PointerMove(event PointerEvent) {
	switch c.mode {
	case ModeIdle:
		return
	case ModeDragPending:
		if event.Client.Distance(c.gesture.pressClient) <= c.dragThreshold {
			return
		}

		c.startDrag()

		fallthrough
	case ModeStepDragging:
		c.gesture.dragDelta = c.viewport.ToCanvas(event).Sub(c.gesture.pressCanvas)
	case ModeConnectionDrawing:
		c.gesture.pointerCanvas = c.viewport.ToCanvas(event)
	case ModeRectSelecting:
		c.gesture.pointerCanvas = c.viewport.ToCanvas(event)
		c.selectInRect(model.RectFromPoints(c.gesture.pressCanvas, c.gesture.pointerCanvas))
	case ModeCanvasPanning:
		c.viewport.Pan(event.Client.Sub(c.gesture.lastClient))
	}

	c.gesture.lastClient = event.Client
}

// PointerUp ends the gesture in progress and commits its result.
func (c *Controller) PointerUp(event PointerEvent) {
	switch c.mode {
	case ModeIdle:
		return
	case ModeDragPending:
		c.Select(c.gesture.step)
		c.openStep = c.gesture.step
	case ModeStepDragging:
		c.commitDrag()
	case ModeConnectionDrawing:
		c.finishConnection(event.Target)
	case ModeRectSelecting, ModeCanvasPanning:
	}

	c.cancelGesture()
}

// startDrag promotes a pending press to a drag. A press on a selected step
// drags the whole selection; otherwise the step alone becomes the selection.
func (c *Controller) startDrag() {
	if !c.IsSelected(c.gesture.step) {
		c.Select(c.gesture.step)
	}

	c.gesture.dragOrder = c.Selection()
	c.gesture.dragOrigins = make(map[string]model.Point, len(c.gesture.dragOrder))

	for _, uuid := range c.gesture.dragOrder {
		step, _ := c.pipe.Step(uuid)
		c.gesture.dragOrigins[uuid] = step.Position()
	}

	c.setMode(ModeStepDragging)
}

func (c *Controller) commitDrag() {
	if c.gesture.dragDelta == (model.Point{}) {
		return
	}

	for _, uuid := range c.gesture.dragOrder {
		_, err := c.pipe.MoveStep(uuid, c.gesture.dragOrigins[uuid].Add(c.gesture.dragDelta))
		if err != nil {
			c.logger.Warn("unable to move step", slog.String("step", uuid), slog.Any("error", err))
		}
	}

	c.markDirty()
}

func (c *Controller) finishConnection(target Target) {
	switch target.Kind {
	case TargetStep, TargetIncomingAnchor, TargetOutgoingAnchor:
	case TargetCanvas, TargetConnection:
		c.logger.Debug("connection dropped outside a step", slog.String("source", c.gesture.source))

		return
	}

	// Refusals are reported by Connect.
	_ = c.Connect(c.gesture.source, target.Step)
}

func (c *Controller) selectInRect(rect model.Rect) {
	c.selection = c.selection[:0]

	for _, uuid := range c.pipe.StepUUIDs() {
		bounds, ok := c.viewport.StepBounds(uuid)
		if ok && bounds.Intersects(rect) {
			c.selection = append(c.selection, uuid)
		}
	}
}
