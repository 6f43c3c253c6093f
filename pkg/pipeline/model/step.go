package model

// Kernel identifies the kernel a step runs with.
type Kernel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// MetaData holds editor-only information persisted alongside a step.
type MetaData struct {
	Position Point
	Hidden   bool
}

// Step is a node of a pipeline.
//
// IncomingConnections lists the uuids of the upstream steps. Its order is kept
// as inserted and only matters for display. Outgoing connections are never
// stored on a step, they are derived from every step incoming connections.
type Step struct {
	UUID                string `validate:"required"`
	Title               string
	FilePath            string
	Parameters          map[string]any
	IncomingConnections []string
	Kernel              Kernel
	Environment         string
	MetaData            MetaData

	// Extra keeps persisted fields this package does not know about so that
	// they survive a decode/encode cycle.
	Extra map[string][]byte

	// DragCount is runtime only. It counts the committed moves of the step
	// and is reset to zero whenever a step is decoded.
	DragCount int
}

// Position returns the step position on the canvas.
func (s Step) Position() Point {
	return s.MetaData.Position
}

// HasIncoming reports whether source is an incoming connection of s.
func (s Step) HasIncoming(source string) bool {
	for _, uuid := range s.IncomingConnections {
		if uuid == source {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of s.
func (s Step) Clone() Step {
	out := s

	if s.Parameters != nil {
		out.Parameters = make(map[string]any, len(s.Parameters))
		for k, v := range s.Parameters {
			out.Parameters[k] = CloneValue(v)
		}
	}

	if s.IncomingConnections != nil {
		out.IncomingConnections = append(make([]string, 0, len(s.IncomingConnections)), s.IncomingConnections...)
	}

	if s.Extra != nil {
		out.Extra = make(map[string][]byte, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append([]byte(nil), v...)
		}
	}

	return out
}

// CloneValue deep copies a decoded JSON value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}

		return out
	default:
		return val
	}
}
