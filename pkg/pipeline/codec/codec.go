package codec

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/askiada/pipeline-editor/internal/ordered"
	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

type document struct {
	UUID       string                `json:"uuid" validate:"required"`
	Name       string                `json:"name"`
	Parameters map[string]any        `json:"parameters"`
	Steps      map[string]model.Step `json:"steps" validate:"dive"`
}

var knownDocumentFields = map[string]struct{}{
	"uuid":       {},
	"name":       {},
	"parameters": {},
	"steps":      {},
}

var validate = validator.New()

// Decode builds a pipeline from its persisted definition. Steps are inserted
// in document order and connections in incoming connections order. The
// definition is rejected when a connection references an unknown step or when
// the graph is cyclic.
func Decode(data []byte, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	var doc document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode pipeline definition")
	}

	err = validate.Struct(doc)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "%s", err)
	}

	members, err := ordered.Object(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read pipeline definition")
	}

	var stepOrder []string

	attributes := make(map[string][]byte)

	for _, member := range members {
		if member.Key == "steps" {
			stepOrder, err = keys(member.Value)
			if err != nil {
				return nil, errors.Wrap(err, "unable to read steps")
			}

			continue
		}

		if _, ok := knownDocumentFields[member.Key]; ok {
			continue
		}

		var buf bytes.Buffer

		err = json.Compact(&buf, member.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read %s", member.Key)
		}

		attributes[member.Key] = buf.Bytes()
	}

	opts = append([]pipeline.Option{
		pipeline.WithParameters(doc.Parameters),
		pipeline.WithAttributes(attributes),
	}, opts...)
	pipe := pipeline.New(doc.UUID, doc.Name, opts...)

	for _, key := range stepOrder {
		step := doc.Steps[key]
		if step.UUID != key {
			return nil, errors.Wrapf(ErrInvalidDocument, "step key %s does not match uuid %s", key, step.UUID)
		}

		_, err = pipe.AddStep(step)
		if err != nil {
			return nil, errors.Wrap(err, "unable to add step")
		}
	}

	for _, key := range stepOrder {
		for _, source := range doc.Steps[key].IncomingConnections {
			if _, ok := doc.Steps[source]; !ok {
				return nil, errors.Wrapf(ErrUnknownConnection, "step %s lists %s", key, source)
			}

			_, err = pipe.AddConnection(source, key)
			if err != nil {
				return nil, errors.Wrap(err, "unable to add connection")
			}
		}
	}

	if pipe.HasCycle() {
		return nil, errors.Wrap(pipeline.ErrCycleInducing, "pipeline definition is cyclic")
	}

	return pipe, nil
}

// Encode writes the persisted definition of a pipeline. Steps keep their
// insertion order.
func Encode(pipe *pipeline.Pipeline) ([]byte, error) {
	if pipe == nil {
		return nil, pipeline.ErrPipelineMustBeSet
	}

	steps := make([]ordered.Member, 0, pipe.Len())

	for _, step := range pipe.Steps() {
		raw, err := json.Marshal(step)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode step %s", step.UUID)
		}

		steps = append(steps, ordered.Member{Key: step.UUID, Value: raw})
	}

	stepsRaw, err := ordered.Marshal(steps)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode steps")
	}

	fields := map[string]json.RawMessage{}

	for name, value := range pipe.Attributes() {
		fields[name] = value
	}

	for name, value := range map[string]any{
		"uuid":       pipe.UUID(),
		"name":       pipe.Name(),
		"parameters": pipe.Parameters(),
	} {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode %s", name)
		}

		fields[name] = raw
	}

	fields["steps"] = stepsRaw

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode pipeline definition")
	}

	return out, nil
}

// EncodeForSave validates the pipeline and encodes it. A pipeline that fails
// validation is not encoded.
func EncodeForSave(pipe *pipeline.Pipeline) ([]byte, error) {
	err := Validate(pipe)
	if err != nil {
		return nil, err
	}

	return Encode(pipe)
}

func keys(data []byte) ([]string, error) {
	members, err := ordered.Object(data)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(members))
	for _, member := range members {
		out = append(out, member.Key)
	}

	return out, nil
}
