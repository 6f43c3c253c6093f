// Package model provides the data structures shared by the pipeline packages.
// It defines the steps of a pipeline, the connections between them and the
// geometry used by the editor to place and hit-test them.
package model
