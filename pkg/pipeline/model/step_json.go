package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

const (
	// TransientPrefix marks a persisted field name as runtime only.
	TransientPrefix = "_"
	// OutgoingConnectionsField is derived data and is never persisted.
	OutgoingConnectionsField = "outgoing_connections"
)

var knownStepFields = map[string]struct{}{
	"uuid":                 {},
	"title":                {},
	"file_path":            {},
	"parameters":           {},
	"incoming_connections": {},
	"kernel":               {},
	"environment":          {},
	"meta_data":            {},
}

// IsPersistedField reports whether a step field name may be written to a
// pipeline definition.
func IsPersistedField(name string) bool {
	return !strings.HasPrefix(name, TransientPrefix) && name != OutgoingConnectionsField
}

type stepJSON struct {
	UUID                string         `json:"uuid"`
	Title               string         `json:"title"`
	FilePath            string         `json:"file_path"`
	Parameters          map[string]any `json:"parameters"`
	IncomingConnections []string       `json:"incoming_connections"`
	Kernel              Kernel         `json:"kernel"`
	Environment         string         `json:"environment"`
	MetaData            MetaData       `json:"meta_data"`
}

type metaDataJSON struct {
	Position [2]float64 `json:"position"`
	Hidden   bool       `json:"hidden"`
}

// MarshalJSON encodes the position as an [x, y] pair.
func (m MetaData) MarshalJSON() ([]byte, error) {
	return json.Marshal(metaDataJSON{
		Position: [2]float64{m.Position.X, m.Position.Y},
		Hidden:   m.Hidden,
	})
}

// UnmarshalJSON decodes the [x, y] position pair.
func (m *MetaData) UnmarshalJSON(data []byte) error {
	var raw metaDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "unable to decode step meta data")
	}

	m.Position = Point{X: raw.Position[0], Y: raw.Position[1]}
	m.Hidden = raw.Hidden

	return nil
}

// MarshalJSON encodes the persisted shape of the step. Transient fields and
// outgoing connections are never written.
func (s Step) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(stepJSON{
		UUID:                s.UUID,
		Title:               s.Title,
		FilePath:            s.FilePath,
		Parameters:          s.Parameters,
		IncomingConnections: s.IncomingConnections,
		Kernel:              s.Kernel,
		Environment:         s.Environment,
		MetaData:            s.MetaData,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to encode step %s", s.UUID)
	}

	if len(s.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(knownStepFields)+len(s.Extra))

	err = json.Unmarshal(known, &merged)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to merge step %s", s.UUID)
	}

	for name, value := range s.Extra {
		if _, ok := knownStepFields[name]; ok || !IsPersistedField(name) {
			continue
		}

		merged[name] = value
	}

	return json.Marshal(merged)
}

// UnmarshalJSON decodes a persisted step. Transient fields found in the input
// are dropped and runtime fields start from their zero value.
func (s *Step) UnmarshalJSON(data []byte) error {
	var known stepJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return errors.Wrap(err, "unable to decode step")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "unable to decode step fields")
	}

	*s = Step{
		UUID:                known.UUID,
		Title:               known.Title,
		FilePath:            known.FilePath,
		Parameters:          known.Parameters,
		IncomingConnections: known.IncomingConnections,
		Kernel:              known.Kernel,
		Environment:         known.Environment,
		MetaData:            known.MetaData,
	}

	for name, value := range raw {
		if _, ok := knownStepFields[name]; ok || !IsPersistedField(name) {
			continue
		}

		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return errors.Wrapf(err, "unable to compact step field %s", name)
		}

		if s.Extra == nil {
			s.Extra = make(map[string][]byte)
		}

		s.Extra[name] = buf.Bytes()
	}

	return nil
}
