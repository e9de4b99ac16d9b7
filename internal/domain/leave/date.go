package leave

import "time"

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. Leave dates are
// stored as ISO-8601 strings and every comparison is date-only.
type Date struct {
	t time.Time
}

func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{t: parsed}, nil
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// DaysInclusive counts the days in [start, end] with both ends included, the
// definition used everywhere leave days are counted.
func DaysInclusive(start, end Date) int {
	return int(end.t.Sub(start.t).Hours()/24) + 1
}
