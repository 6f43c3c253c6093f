package pipeline

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

// Pipeline is the graph store of a pipeline definition.
//
// It is not safe for concurrent use: a single writer owns it.
type Pipeline struct {
	uuid       string
	name       string
	parameters map[string]any
	attributes map[string][]byte
	steps      map[string]*model.Step
	// order keeps step insertion order so that every traversal is deterministic.
	order  []string
	logger *slog.Logger
}

// New creates an empty pipeline.
func New(uuid, name string, opts ...Option) *Pipeline {
	pipe := &Pipeline{
		uuid:   uuid,
		name:   name,
		steps:  make(map[string]*model.Step),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(pipe)
	}

	if pipe.parameters == nil {
		pipe.parameters = make(map[string]any)
	}

	return pipe
}

// UUID returns the pipeline uuid.
func (p *Pipeline) UUID() string { return p.uuid }

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.order) }

// Parameters returns a copy of the pipeline level parameters.
func (p *Pipeline) Parameters() map[string]any {
	out, _ := model.CloneValue(p.parameters).(map[string]any)

	return out
}

// Attributes returns a copy of the uninterpreted document level fields.
func (p *Pipeline) Attributes() map[string][]byte {
	out := make(map[string][]byte, len(p.attributes))
	for k, v := range p.attributes {
		out[k] = append([]byte(nil), v...)
	}

	return out
}

// Step returns a copy of the step with the given uuid.
func (p *Pipeline) Step(uuid string) (model.Step, bool) {
	step, ok := p.steps[uuid]
	if !ok {
		return model.Step{}, false
	}

	return step.Clone(), true
}

// Steps returns a copy of every step in insertion order.
func (p *Pipeline) Steps() []model.Step {
	out := make([]model.Step, 0, len(p.order))
	for _, uuid := range p.order {
		out = append(out, p.steps[uuid].Clone())
	}

	return out
}

// StepUUIDs returns the step uuids in insertion order.
func (p *Pipeline) StepUUIDs() []string {
	return append([]string(nil), p.order...)
}

// AddStep inserts a new step. Its incoming connections are discarded: edges are
// only created through AddConnection.
func (p *Pipeline) AddStep(step model.Step) (model.Step, error) {
	if step.UUID == "" {
		return model.Step{}, ErrInvalidStep
	}

	if _, ok := p.steps[step.UUID]; ok {
		return model.Step{}, errors.Wrapf(ErrDuplicateUUID, "step %s", step.UUID)
	}

	stored := step.Clone()
	stored.IncomingConnections = []string{}

	if stored.Parameters == nil {
		stored.Parameters = make(map[string]any)
	}

	p.steps[stored.UUID] = &stored
	p.order = append(p.order, stored.UUID)

	p.logger.Debug("step added", slog.String("step", stored.UUID), slog.String("title", stored.Title))

	return stored.Clone(), nil
}

// RemoveStep deletes a step and every connection it takes part in. Removing an
// unknown uuid is a no-op and reports false.
func (p *Pipeline) RemoveStep(uuid string) (model.Step, bool) {
	step, ok := p.steps[uuid]
	if !ok {
		return model.Step{}, false
	}

	delete(p.steps, uuid)

	for i, id := range p.order {
		if id == uuid {
			p.order = append(p.order[:i], p.order[i+1:]...)

			break
		}
	}

	for _, other := range p.steps {
		other.IncomingConnections = without(other.IncomingConnections, uuid)
	}

	p.logger.Debug("step removed", slog.String("step", uuid))

	return step.Clone(), true
}

// AddConnection appends source to the incoming connections of target. It is a
// no-op when the connection already exists.
//
// The store does not check for cycles. Callers must call WouldCreateCycle
// before adding a connection.
func (p *Pipeline) AddConnection(source, target string) (model.Step, error) {
	if _, ok := p.steps[source]; !ok {
		return model.Step{}, errors.Wrapf(ErrStepNotFound, "source step %s", source)
	}

	step, ok := p.steps[target]
	if !ok {
		return model.Step{}, errors.Wrapf(ErrStepNotFound, "target step %s", target)
	}

	if !step.HasIncoming(source) {
		step.IncomingConnections = append(step.IncomingConnections, source)
		p.logger.Debug("connection added", slog.String("source", source), slog.String("target", target))
	}

	return step.Clone(), nil
}

// RemoveConnection removes source from the incoming connections of target. It is
// a no-op when the connection does not exist.
func (p *Pipeline) RemoveConnection(source, target string) (model.Step, error) {
	step, ok := p.steps[target]
	if !ok {
		return model.Step{}, errors.Wrapf(ErrStepNotFound, "target step %s", target)
	}

	if step.HasIncoming(source) {
		step.IncomingConnections = without(step.IncomingConnections, source)
		p.logger.Debug("connection removed", slog.String("source", source), slog.String("target", target))
	}

	return step.Clone(), nil
}

// HasConnection reports whether the edge source -> target exists.
func (p *Pipeline) HasConnection(source, target string) bool {
	step, ok := p.steps[target]

	return ok && step.HasIncoming(source)
}

// Connections lists every edge, ordered by target insertion order then by the
// target incoming connections order.
func (p *Pipeline) Connections() []model.Connection {
	var out []model.Connection

	for _, target := range p.order {
		for _, source := range p.steps[target].IncomingConnections {
			out = append(out, model.Connection{Source: source, Target: target})
		}
	}

	return out
}

// MoveStep sets the position of a step and increments its drag counter.
func (p *Pipeline) MoveStep(uuid string, position model.Point) (model.Step, error) {
	step, ok := p.steps[uuid]
	if !ok {
		return model.Step{}, errors.Wrapf(ErrStepNotFound, "step %s", uuid)
	}

	step.MetaData.Position = position
	step.DragCount++

	return step.Clone(), nil
}

// UpdateStep applies fn to a copy of the step and stores the result. The uuid
// and the incoming connections cannot be changed this way.
func (p *Pipeline) UpdateStep(uuid string, fn func(step *model.Step)) (model.Step, error) {
	step, ok := p.steps[uuid]
	if !ok {
		return model.Step{}, errors.Wrapf(ErrStepNotFound, "step %s", uuid)
	}

	updated := step.Clone()
	fn(&updated)
	updated.UUID = step.UUID
	updated.IncomingConnections = step.IncomingConnections

	if updated.Parameters == nil {
		updated.Parameters = make(map[string]any)
	}

	*step = updated

	return step.Clone(), nil
}

// DeriveOutgoing returns, for every step, the steps that list it as an incoming
// connection. The result is computed from scratch on each call.
func (p *Pipeline) DeriveOutgoing() map[string][]string {
	outgoing := make(map[string][]string, len(p.order))
	for _, uuid := range p.order {
		outgoing[uuid] = []string{}
	}

	for _, target := range p.order {
		for _, source := range p.steps[target].IncomingConnections {
			outgoing[source] = append(outgoing[source], target)
		}
	}

	return outgoing
}

func without(list []string, value string) []string {
	out := list[:0]

	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}

	return out
}
