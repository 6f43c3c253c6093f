// Package pipeline provides the in-memory graph of a pipeline definition.
//
// A pipeline is a set of steps connected by directed edges. An edge exists when
// the uuid of its source step is listed in the incoming connections of its
// target step; there is no other record of it. The outgoing side of an edge is
// always derived from the incoming connections of every step and is never
// cached across mutations.
//
// The graph must stay acyclic. The store itself does not refuse a connection
// that closes a cycle: callers check WouldCreateCycle first, which evaluates the
// hypothetical edge on a transient adjacency view and leaves the store
// untouched. The editor package is the only writer in practice.
//
// Every mutation returns a copy of the step it changed, so callers never hold
// a pointer into the store.
package pipeline
