package editor

import (
	"log/slog"

	"github.com/google/uuid"
)

// DefaultDragThreshold is the distance in pixels a press must travel before it
// becomes a drag.
const DefaultDragThreshold = 3.0

type Option func(c *Controller)

func WithNotifier(notifier Notifier) Option {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

func WithChangeTracker(tracker ChangeTracker) Option {
	return func(c *Controller) {
		c.tracker = tracker
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithDragThreshold(threshold float64) Option {
	return func(c *Controller) {
		c.dragThreshold = threshold
	}
}

// WithIDGenerator sets the function creating uuids of new steps.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		c.newID = newID
	}
}

func defaultID() string {
	return uuid.NewString()
}
