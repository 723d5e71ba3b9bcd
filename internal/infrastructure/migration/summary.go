package migration

import "fmt"

// Summary aggregates per-entity counts and the ordered list of non-fatal
// warnings collected during one migration run. It is the engine's return
// value; nothing in the engine keeps process-wide mutable state.
type Summary struct {
	Admins      int
	CoreConfigs int
	Inbounds    int
	Hosts       int
	Nodes       int
	Users       int
	Warnings    []string
}

// Warnf appends a formatted warning, preserving insertion order.
func (s *Summary) Warnf(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Ok reports whether the run completed without any warnings.
func (s *Summary) Ok() bool {
	return len(s.Warnings) == 0
}
