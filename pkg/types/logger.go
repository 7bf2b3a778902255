package types

// DebugLogger receives progress messages from library packages.
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}
