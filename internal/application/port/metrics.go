package port

// WorkspaceMetrics receives counters from the tab registry and the
// snapshot store. Implementations must be safe for concurrent use.
type WorkspaceMetrics interface {
	TabOperation(op string)
	SnapshotFailure(kind string)
	OpenTabsDelta(delta int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) TabOperation(string)    {}
func (NopMetrics) SnapshotFailure(string) {}
func (NopMetrics) OpenTabsDelta(int)      {}
