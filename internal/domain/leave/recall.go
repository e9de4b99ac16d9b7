package leave

// RecallReason is the fixed reason recorded on every recall. It is not
// caller-supplied.
const RecallReason = "OPERATIONS"

// RecallWindowDays is the minimum remaining window, exclusive: recall needs
// strictly more than this many days left.
const RecallWindowDays = 3

// DaysLeft computes the remaining inclusive days of a leave window relative
// to today. A leave that has not started still has its full duration left; an
// elapsed one has zero.
func DaysLeft(start, end, today Date) int {
	switch {
	case today.After(end):
		return 0
	case today.Before(start):
		return DaysInclusive(start, end)
	default:
		return DaysInclusive(today, end)
	}
}

func RecallAllowed(daysLeft int) bool {
	return daysLeft > RecallWindowDays
}
