package shared

import "leavedesk/internal/domain/leave"

// ParseDate parses a YYYY-MM-DD request parameter into a calendar date.
func ParseDate(value string) (leave.Date, error) {
	return leave.ParseDate(value)
}
