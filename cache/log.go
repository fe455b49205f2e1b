package cache

// Logger is the narrow logging surface the store needs from its
// background reporter. *zap.SugaredLogger satisfies this interface,
// so callers in cmd/linecache-server pass their zap logger straight
// through without an adapter.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infow(string, ...interface{}) {}
