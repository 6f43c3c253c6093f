package editor

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

// Controller is the only writer of the pipeline it edits. It is driven by a
// single event loop and is not safe for concurrent use.
type Controller struct {
	pipe     *pipeline.Pipeline
	viewport Viewport
	notifier Notifier
	tracker  ChangeTracker
	logger   *slog.Logger

	dragThreshold float64
	newID         func() string

	mode         Mode
	selection    []string
	selectedConn *model.Connection
	openStep     string
	dirty        bool

	gesture gesture
}

// gesture holds the state of the pointer gesture in progress.
type gesture struct {
	pressClient   model.Point
	lastClient    model.Point
	pressCanvas   model.Point
	pointerCanvas model.Point
	step          string
	// dragOrder and dragOrigins are the dragged steps and their committed
	// positions when the drag started.
	dragOrder   []string
	dragOrigins map[string]model.Point
	dragDelta   model.Point
	source      string
}

// New creates a controller editing pipe.
func New(pipe *pipeline.Pipeline, viewport Viewport, opts ...Option) (*Controller, error) {
	if pipe == nil {
		return nil, pipeline.ErrPipelineMustBeSet
	}

	if viewport == nil {
		return nil, ErrViewportMustBeSet
	}

	ctrl := &Controller{
		pipe:          pipe,
		viewport:      viewport,
		notifier:      nopNotifier{},
		tracker:       nopTracker{},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		dragThreshold: DefaultDragThreshold,
		newID:         defaultID,
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	return ctrl, nil
}

// Pipeline returns the edited pipeline. Callers must only read from it.
func (c *Controller) Pipeline() *pipeline.Pipeline { return c.pipe }

// Mode returns the gesture in progress.
func (c *Controller) Mode() Mode { return c.mode }

// Dirty reports whether the pipeline changed since the last MarkSaved.
func (c *Controller) Dirty() bool { return c.dirty }

// MarkSaved clears the unsaved changes flag once the pipeline is persisted.
func (c *Controller) MarkSaved() { c.dirty = false }

// Selection returns the selected steps.
func (c *Controller) Selection() []string {
	return append([]string(nil), c.selection...)
}

// IsSelected reports whether a step is selected.
func (c *Controller) IsSelected(uuid string) bool {
	for _, id := range c.selection {
		if id == uuid {
			return true
		}
	}

	return false
}

// SelectedConnection returns the selected connection.
func (c *Controller) SelectedConnection() (model.Connection, bool) {
	if c.selectedConn == nil {
		return model.Connection{}, false
	}

	return *c.selectedConn, true
}

// OpenStep returns the step whose detail panel is open.
func (c *Controller) OpenStep() (string, bool) {
	return c.openStep, c.openStep != ""
}

// TentativeConnection returns the source step and the pointer position of the
// connection being drawn.
func (c *Controller) TentativeConnection() (string, model.Point, bool) {
	if c.mode != ModeConnectionDrawing {
		return "", model.Point{}, false
	}

	return c.gesture.source, c.gesture.pointerCanvas, true
}

// SelectionRect returns the rubber band rectangle.
func (c *Controller) SelectionRect() (model.Rect, bool) {
	if c.mode != ModeRectSelecting {
		return model.Rect{}, false
	}

	return model.RectFromPoints(c.gesture.pressCanvas, c.gesture.pointerCanvas), true
}

// DisplayPosition returns where a step must be drawn, including the offset of
// a drag in progress that is not committed yet.
func (c *Controller) DisplayPosition(uuid string) (model.Point, bool) {
	if c.mode == ModeStepDragging {
		if origin, ok := c.gesture.dragOrigins[uuid]; ok {
			return origin.Add(c.gesture.dragDelta), true
		}
	}

	step, ok := c.pipe.Step(uuid)
	if !ok {
		return model.Point{}, false
	}

	return step.Position(), true
}

// Select replaces the selection. Unknown steps are ignored.
func (c *Controller) Select(uuids ...string) {
	c.selection = c.selection[:0]
	c.selectedConn = nil

	for _, uuid := range uuids {
		if _, ok := c.pipe.Step(uuid); ok && !c.IsSelected(uuid) {
			c.selection = append(c.selection, uuid)
		}
	}
}

// Deselect clears the selection and closes the detail panel.
func (c *Controller) Deselect() {
	c.selection = nil
	c.selectedConn = nil
	c.openStep = ""
}

// Reload replaces the edited pipeline, typically with a freshly fetched
// definition. Any gesture in progress is dropped and the selection is reset.
func (c *Controller) Reload(pipe *pipeline.Pipeline, viewport Viewport) error {
	if pipe == nil {
		return pipeline.ErrPipelineMustBeSet
	}

	if viewport == nil {
		return ErrViewportMustBeSet
	}

	c.cancelGesture()
	c.Deselect()
	c.pipe = pipe
	c.viewport = viewport
	c.dirty = false

	return nil
}

// CreateStep adds a new step with a generated uuid at the given position.
func (c *Controller) CreateStep(title, filePath string, at model.Point) (model.Step, error) {
	step, err := c.pipe.AddStep(model.Step{
		UUID:     c.newID(),
		Title:    title,
		FilePath: filePath,
		MetaData: model.MetaData{Position: at},
	})
	if err != nil {
		return model.Step{}, errors.Wrap(err, "unable to create step")
	}

	c.markDirty()

	return step, nil
}

// DeleteSteps removes steps and their connections.
func (c *Controller) DeleteSteps(uuids ...string) {
	removed := false

	for _, uuid := range uuids {
		if _, ok := c.pipe.RemoveStep(uuid); !ok {
			continue
		}

		removed = true

		if c.openStep == uuid {
			c.openStep = ""
		}

		if c.selectedConn != nil && (c.selectedConn.Source == uuid || c.selectedConn.Target == uuid) {
			c.selectedConn = nil
		}
	}

	if !removed {
		return
	}

	kept := c.selection[:0]

	for _, uuid := range c.selection {
		if _, ok := c.pipe.Step(uuid); ok {
			kept = append(kept, uuid)
		}
	}

	c.selection = kept
	c.markDirty()
}

// Connect validates and adds the connection source -> target. It returns
// pipeline.ErrSelfLoop, pipeline.ErrDuplicateEdge or pipeline.ErrCycleInducing
// when the connection is refused; the graph is then unchanged.
func (c *Controller) Connect(source, target string) error {
	conn := model.Connection{Source: source, Target: target}

	err := c.pipe.CycleCheck(conn)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrDuplicateEdge):
		c.notifier.Notify(Notice{Level: LevelInfo, Message: "These steps are already connected.", Err: err})

		return err
	case errors.Is(err, pipeline.ErrCycleInducing):
		c.logger.Warn("connection refused", slog.String("source", source), slog.String("target", target), slog.Any("error", err))
		c.notifier.Notify(Notice{Level: LevelError, Message: "Connecting these steps would create a cycle.", Err: err})

		return err
	default:
		c.logger.Debug("connection discarded", slog.String("source", source), slog.String("target", target), slog.Any("error", err))

		return err
	}

	_, err = c.pipe.AddConnection(source, target)
	if err != nil {
		return errors.Wrap(err, "unable to add connection")
	}

	c.markDirty()

	return nil
}

// RemoveConnection removes a connection.
func (c *Controller) RemoveConnection(conn model.Connection) error {
	if !c.pipe.HasConnection(conn.Source, conn.Target) {
		return nil
	}

	_, err := c.pipe.RemoveConnection(conn.Source, conn.Target)
	if err != nil {
		return errors.Wrap(err, "unable to remove connection")
	}

	if c.selectedConn != nil && *c.selectedConn == conn {
		c.selectedConn = nil
	}

	c.markDirty()

	return nil
}

// KeyDown handles keyboard shortcuts. Escape cancels the gesture in progress,
// deselects and closes the detail panel. Delete and Backspace remove the
// selected connection, or the selected steps when no connection is selected.
func (c *Controller) KeyDown(key Key) {
	switch key {
	case KeyEscape:
		c.cancelGesture()
		c.Deselect()
	case KeyDelete, KeyBackspace:
		if c.mode != ModeIdle {
			return
		}

		if c.selectedConn != nil {
			err := c.RemoveConnection(*c.selectedConn)
			if err != nil {
				c.logger.Warn("unable to remove connection", slog.Any("error", err))
			}

			return
		}

		c.DeleteSteps(c.Selection()...)
	}
}

func (c *Controller) markDirty() {
	c.dirty = true
	c.tracker.MarkUnsaved()
}

func (c *Controller) setMode(mode Mode) {
	if c.mode == mode {
		return
	}

	c.logger.Debug("mode changed", slog.String("from", c.mode.String()), slog.String("to", mode.String()))
	c.mode = mode
}

// cancelGesture drops the gesture in progress without committing anything.
func (c *Controller) cancelGesture() {
	c.gesture = gesture{}
	c.setMode(ModeIdle)
}
