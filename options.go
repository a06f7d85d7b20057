package dawg

import "go.uber.org/zap"

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Graph) {
		if log != nil {
			g.log = log
		}
	}
}

// WithStrictOrder makes Add reject words that are lower than the previous
// word of the current session with ErrOutOfOrder, instead of inserting them
// through the slower unordered path. Words that are already stored are still
// accepted as no-ops.
func WithStrictOrder() Option {
	return func(g *Graph) {
		g.strict = true
	}
}
