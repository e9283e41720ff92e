package loadmeter

// Source provides the current 1-minute load average of a system.
// If the load cannot be determined, ok is false.
type Source interface {
	Sample() (load float64, ok bool)
}

// SourceFunc is an adapter to use an ordinary function as a Source.
type SourceFunc func() (float64, bool)

// Sample calls f.
func (f SourceFunc) Sample() (float64, bool) {
	return f()
}
