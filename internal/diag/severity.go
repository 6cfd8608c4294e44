package diag

import "strings"

// Severity orders diagnostics; Bag.Filter keeps everything at or above a level.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
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

// ParseSeverity is the inverse of String; case is ignored.
func ParseSeverity(s string) (Severity, bool) {
	for i, name := range severityNames {
		if strings.EqualFold(name, s) {
			return Severity(i), true
		}
	}
	return SevInfo, false
}
