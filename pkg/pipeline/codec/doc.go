// Package codec maps a pipeline graph to and from its persisted JSON
// definition.
//
// A definition has the shape
//
//	{"uuid": "...", "name": "...", "parameters": {...}, "steps": {"<uuid>": {...}}}
//
// Step fields whose name starts with an underscore are runtime only and the
// derived outgoing_connections field is never written; both are dropped when
// encoding and when decoding. Unknown fields are kept so that a definition
// written by a newer client survives a round trip.
package codec
