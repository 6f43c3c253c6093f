// Package ordered reads and writes JSON objects without losing member order.
//
// encoding/json decodes objects into Go maps, which forget the order of the
// members. Pipeline steps and strategy entries rely on that order.
package ordered

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrNotObject = errors.New("json value is not an object")

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object returns the members of a JSON object in document order. A JSON null
// yields no members.
func Object(data []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read object")
	}

	if tok == nil {
		return nil, nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	var members []Member

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "unable to read object key")
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected object key %v", tok)
		}

		var value json.RawMessage

		err = dec.Decode(&value)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read value of %q", key)
		}

		members = append(members, Member{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "unable to close object")
	}

	return members, nil
}

// Marshal writes members as a JSON object, in the given order.
func Marshal(members []Member) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, member := range members {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(member.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode key %q", member.Key)
		}

		buf.Write(key)
		buf.WriteByte(':')

		if len(member.Value) == 0 {
			buf.WriteString("null")

			continue
		}

		buf.Write(member.Value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
