package completion

type options struct {
	maxTokens   int
	temperature float64
	stream      bool
}

// Option tunes a single Complete call.
type Option func(*options)

func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithStream sets the stream flag on the request. The body is still read
// as a single JSON document.
func WithStream(stream bool) Option {
	return func(o *options) {
		o.stream = stream
	}
}
