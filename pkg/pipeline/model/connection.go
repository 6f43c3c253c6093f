package model

// Connection is a directed edge between two steps. It is not persisted on its
// own: it exists because Source is listed in the target step incoming connections.
type Connection struct {
	Source string
	Target string
}
