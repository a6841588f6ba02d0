package seen

// Option applies a configuration option to the InMemoryTracker.
type Option func(*InMemoryTracker)

// WithWindowSize sets the per-user recently-shown window size.
func WithWindowSize(size int) Option {
	return func(t *InMemoryTracker) {
		if size > 0 {
			t.windowSize = size
		}
	}
}
