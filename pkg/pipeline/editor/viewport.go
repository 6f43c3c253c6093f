package editor

import (
	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

// GridViewport is a Viewport where every step is drawn as a box of the same
// size at its position. It is used when there is no rendering surface to
// query, such as in tests and command line tools.
type GridViewport struct {
	pipe     *pipeline.Pipeline
	stepSize model.Point
	offset   model.Point
	scale    float64
}

// NewGridViewport creates a viewport for pipe with steps of the given size.
func NewGridViewport(pipe *pipeline.Pipeline, width, height float64) *GridViewport {
	return &GridViewport{
		pipe:     pipe,
		stepSize: model.Point{X: width, Y: height},
		scale:    1,
	}
}

// SetScale sets the zoom factor. Non positive values are ignored.
func (v *GridViewport) SetScale(scale float64) {
	if scale > 0 {
		v.scale = scale
	}
}

// Offset returns the canvas offset in client coordinates.
func (v *GridViewport) Offset() model.Point { return v.offset }

func (v *GridViewport) StepBounds(uuid string) (model.Rect, bool) {
	step, ok := v.pipe.Step(uuid)
	if !ok {
		return model.Rect{}, false
	}

	pos := step.Position()

	return model.Rect{X: pos.X, Y: pos.Y, Width: v.stepSize.X, Height: v.stepSize.Y}, true
}

func (v *GridViewport) ToCanvas(event PointerEvent) model.Point {
	p := event.Client.Sub(v.offset)

	return model.Point{X: p.X / v.scale, Y: p.Y / v.scale}
}

func (v *GridViewport) Pan(delta model.Point) {
	v.offset = v.offset.Add(delta)
}

var _ Viewport = (*GridViewport)(nil)
