package sweep

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/pipeline-editor/internal/ordered"
	"github.com/askiada/pipeline-editor/pkg/pipeline"
)

// PipelineParametersKey is the strategy key of the pipeline level parameters.
const PipelineParametersKey = "pipeline_parameters"

// Parameter holds the candidate values of one parameter as a JSON array literal.
type Parameter struct {
	Name  string
	Value string
}

// StrategyEntry groups the parameters of a step, or of the pipeline.
type StrategyEntry struct {
	Key        string
	Title      string
	Parameters []Parameter
}

// Strategy is an ordered strategy document.
type Strategy []StrategyEntry

// Entry returns the entry with the given key.
func (s Strategy) Entry(key string) (StrategyEntry, bool) {
	for _, entry := range s {
		if entry.Key == key {
			return entry, true
		}
	}

	return StrategyEntry{}, false
}

// Set stores a parameter literal, appending the entry or the parameter when
// they do not exist yet. The literal is stored even when it is not valid JSON:
// Flatten reports it and leaves it out of the expansion.
func (s *Strategy) Set(key, name, value string) {
	for i := range *s {
		entry := &(*s)[i]
		if entry.Key != key {
			continue
		}

		for j := range entry.Parameters {
			if entry.Parameters[j].Name == name {
				entry.Parameters[j].Value = value

				return
			}
		}

		entry.Parameters = append(entry.Parameters, Parameter{Name: name, Value: value})

		return
	}

	*s = append(*s, StrategyEntry{Key: key, Parameters: []Parameter{{Name: name, Value: value}}})
}

// ValidateLiteral checks that value is a JSON array literal.
func ValidateLiteral(value string) error {
	_, err := parseLiteral(value)

	return err
}

func parseLiteral(value string) ([]any, error) {
	var parsed any

	err := json.Unmarshal([]byte(value), &parsed)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidJSONParameter, err.Error())
	}

	values, ok := parsed.([]any)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidJSONParameter, "got %T", parsed)
	}

	return values, nil
}

type entryJSON struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	Parameters json.RawMessage `json:"parameters"`
}

// UnmarshalJSON decodes a strategy document and keeps its member order.
// Parameter values are expected to be strings holding a JSON array; any other
// JSON value is kept as its literal text.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	members, err := ordered.Object(data)
	if err != nil {
		return errors.Wrap(err, "unable to read strategy")
	}

	out := make(Strategy, 0, len(members))

	for _, member := range members {
		var raw entryJSON

		err = json.Unmarshal(member.Value, &raw)
		if err != nil {
			return errors.Wrapf(err, "unable to decode strategy entry %s", member.Key)
		}

		entry := StrategyEntry{Key: raw.Key, Title: raw.Title}
		if entry.Key == "" {
			entry.Key = member.Key
		}

		if len(raw.Parameters) == 0 {
			out = append(out, entry)

			continue
		}

		params, err := ordered.Object(raw.Parameters)
		if err != nil {
			return errors.Wrapf(err, "unable to read parameters of %s", member.Key)
		}

		for _, param := range params {
			var literal string
			if json.Unmarshal(param.Value, &literal) != nil {
				literal = string(param.Value)
			}

			entry.Parameters = append(entry.Parameters, Parameter{Name: param.Key, Value: literal})
		}

		out = append(out, entry)
	}

	*s = out

	return nil
}

// MarshalJSON encodes the strategy document in order.
func (s Strategy) MarshalJSON() ([]byte, error) {
	entries := make([]ordered.Member, 0, len(s))

	for _, entry := range s {
		params := make([]ordered.Member, 0, len(entry.Parameters))

		for _, param := range entry.Parameters {
			value, err := json.Marshal(param.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to encode parameter %s", param.Name)
			}

			params = append(params, ordered.Member{Key: param.Name, Value: value})
		}

		paramsRaw, err := ordered.Marshal(params)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode parameters of %s", entry.Key)
		}

		key, _ := json.Marshal(entry.Key)
		title, _ := json.Marshal(entry.Title)

		raw, err := ordered.Marshal([]ordered.Member{
			{Key: "key", Value: key},
			{Key: "title", Value: title},
			{Key: "parameters", Value: paramsRaw},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode strategy entry %s", entry.Key)
		}

		entries = append(entries, ordered.Member{Key: entry.Key, Value: raw})
	}

	return ordered.Marshal(entries)
}

// UnmarshalYAML decodes a parameter file. Mapping order is kept. A parameter
// may be written as a string holding a JSON array or directly as a YAML
// sequence.
func (s *Strategy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return ErrNotMapping
	}

	out := make(Strategy, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		entry, err := yamlEntry(node.Content[i].Value, node.Content[i+1])
		if err != nil {
			return err
		}

		out = append(out, entry)
	}

	*s = out

	return nil
}

func yamlEntry(key string, node *yaml.Node) (StrategyEntry, error) {
	entry := StrategyEntry{Key: key}

	if node.Kind != yaml.MappingNode {
		return entry, errors.Wrapf(ErrNotMapping, "strategy entry %s", key)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		field, value := node.Content[i].Value, node.Content[i+1]

		switch field {
		case "key":
			if value.Value != "" {
				entry.Key = value.Value
			}
		case "title":
			entry.Title = value.Value
		case "parameters":
			params, err := yamlParameters(key, value)
			if err != nil {
				return entry, err
			}

			entry.Parameters = params
		}
	}

	return entry, nil
}

func yamlParameters(key string, node *yaml.Node) ([]Parameter, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrNotMapping, "parameters of %s", key)
	}

	params := make([]Parameter, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]

		if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!str" {
			params = append(params, Parameter{Name: name, Value: value.Value})

			continue
		}

		var decoded any

		err := value.Decode(&decoded)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode parameter %s of %s", name, key)
		}

		literal, err := json.Marshal(decoded)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode parameter %s of %s", name, key)
		}

		params = append(params, Parameter{Name: name, Value: string(literal)})
	}

	return params, nil
}

// DefaultStrategy builds the strategy of a pipeline where every parameter has
// a single candidate: its current value. Pipeline parameters come first, then
// each step that has parameters, in step order. Parameter names are sorted.
func DefaultStrategy(pipe *pipeline.Pipeline) (Strategy, error) {
	var out Strategy

	if params := pipe.Parameters(); len(params) > 0 {
		entry, err := defaultEntry(PipelineParametersKey, pipe.Name(), params)
		if err != nil {
			return nil, err
		}

		out = append(out, entry)
	}

	for _, step := range pipe.Steps() {
		if len(step.Parameters) == 0 {
			continue
		}

		entry, err := defaultEntry(step.UUID, step.Title, step.Parameters)
		if err != nil {
			return nil, err
		}

		out = append(out, entry)
	}

	return out, nil
}

func defaultEntry(key, title string, params map[string]any) (StrategyEntry, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	entry := StrategyEntry{Key: key, Title: title, Parameters: make([]Parameter, 0, len(names))}

	for _, name := range names {
		literal, err := json.Marshal([]any{params[name]})
		if err != nil {
			return entry, errors.Wrapf(err, "unable to encode parameter %s of %s", name, key)
		}

		entry.Parameters = append(entry.Parameters, Parameter{Name: name, Value: string(literal)})
	}

	return entry, nil
}
