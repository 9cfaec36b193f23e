package term

import "log"

// StdLogger adapts the standard library's log package to Logger,
// the default sink for Console's non-fatal diagnostics (spec.md §7)
// when a caller doesn't install one of its own via SetLogger.
type StdLogger struct{}

func (StdLogger) Logf(sev Severity, format string, args ...any) {
	prefix := "warn"
	if sev == SeverityError {
		prefix = "error"
	}
	log.Printf("gotmux: "+prefix+": "+format, args...)
}
