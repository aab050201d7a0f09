package session

import "fmt"

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	warningThreshold  = 5 * 60
	criticalThreshold = 60
)

// FormatClock renders seconds as zero-padded MM:SS. Negative input renders as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func UrgencyFor(seconds int) Urgency {
	switch {
	case seconds <= criticalThreshold:
		return UrgencyCritical
	case seconds <= warningThreshold:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
