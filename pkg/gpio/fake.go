package gpio

// FakeWriter records the levels written to it.
type FakeWriter struct {
	// Levels holds every written level in order.
	Levels []bool
	// WriteError, if set, is returned by Write without recording.
	WriteError error
	Closed     bool
}

// Write implements Writer.
func (f *FakeWriter) Write(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Levels = append(f.Levels, on)
	return nil
}

// Value returns the last written level.
func (f *FakeWriter) Value() bool {
	return len(f.Levels) > 0 && f.Levels[len(f.Levels)-1]
}

// Close implements Writer.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}
