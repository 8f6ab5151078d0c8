package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics; a higher value is more severe.
type Severity uint8

const (
	// SevInfo: style and typography notes.
	SevInfo Severity = iota
	// SevWarning: spelling and grammar findings.
	SevWarning
	// SevError: the tool could not check something (I/O, parse, checker).
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the names printed by String in any case, plus
// "note" for info.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO", "NOTE":
		return SevInfo, nil
	case "WARNING", "WARN":
		return SevWarning, nil
	case "ERROR":
		return SevError, nil
	}
	return 0, fmt.Errorf("unknown severity %q (expected info|warning|error)", s)
}
