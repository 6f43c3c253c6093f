package pipeline

import "log/slog"

type Option func(p *Pipeline)

// WithLogger sets the logger used to trace mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithParameters sets the pipeline level parameters.
func WithParameters(parameters map[string]any) Option {
	return func(p *Pipeline) {
		p.parameters = parameters
	}
}

// WithAttributes keeps document level fields the pipeline does not interpret,
// such as settings, so they can be written back unchanged.
func WithAttributes(attributes map[string][]byte) Option {
	return func(p *Pipeline) {
		p.attributes = attributes
	}
}
