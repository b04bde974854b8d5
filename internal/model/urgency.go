package model

import "time"

type Urgency string

const (
	Urgent  Urgency = "urgent"
	Warning Urgency = "warning"
	Safe    Urgency = "safe"
)

const (
	urgentMaxDays  = 7
	warningMaxDays = 14
)

// Classify maps days remaining to an urgency band. Past-due deadlines
// (negative days) are Urgent; there is no separate overdue band.
func Classify(daysRemaining int) Urgency {
	switch {
	case daysRemaining <= urgentMaxDays:
		return Urgent
	case daysRemaining <= warningMaxDays:
		return Warning
	default:
		return Safe
	}
}

// DaysRemaining returns date-now in whole days, rounding toward the earlier
// day: a deadline 36 hours away is 1 day out, one 12 hours past is -1.
func DaysRemaining(date, now time.Time) int {
	const day = 24 * time.Hour
	d := date.Sub(now)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
