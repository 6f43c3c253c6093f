package drawer

type Option func(r *renderer)

// Selected highlights steps.
func Selected(uuids ...string) Option {
	return func(r *renderer) {
		for _, uuid := range uuids {
			r.selected[uuid] = struct{}{}
		}
	}
}

// GraphAttribute sets a top level graph attribute, such as rankdir.
func GraphAttribute(key, value string) Option {
	return func(r *renderer) {
		r.attributes[key] = value
	}
}

// WithHighlight sets the fill colour of selected steps.
func WithHighlight(red, green, blue uint8) Option {
	return func(r *renderer) {
		r.highlight = [3]uint8{red, green, blue}
	}
}
