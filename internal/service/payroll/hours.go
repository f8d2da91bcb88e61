package payroll

import "time"

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

func parseTimeOfDay(s string) (time.Time, bool) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// workedHours computes the worked duration, in fractional hours, between two
// time-of-day strings on the same shift day. A missing or unparseable value
// on either side yields 0 hours rather than an error. An end time before the
// start time (an overnight shift) is clamped to 0; shifts crossing midnight
// are not supported.
func workedHours(start, end *string) float64 {
	if start == nil || end == nil {
		return 0
	}
	s, ok := parseTimeOfDay(*start)
	if !ok {
		return 0
	}
	e, ok := parseTimeOfDay(*end)
	if !ok {
		return 0
	}
	hours := e.Sub(s).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
