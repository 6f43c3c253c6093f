// Package editor implements the interactive editing of a pipeline graph.
//
// A Controller receives pointer and keyboard events and turns them into
// gestures: selecting, dragging steps, drawing a connection from a step
// outgoing anchor, rubber band selection and panning the canvas. A gesture
// only mutates the pipeline when it ends successfully; a cancelled gesture
// leaves the graph untouched.
//
// The controller knows nothing about the rendering surface. Hit-testing and
// coordinate conversion go through a Viewport, user feedback through a
// Notifier and the unsaved state through a ChangeTracker, all injected at
// construction.
package editor
