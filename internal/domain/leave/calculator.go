package leave

// Span is a stored [start, end] date pair of an approved request.
type Span struct {
	Start string
	End   string
}

// SumDays totals the inclusive duration of the given spans. Spans with
// unparseable dates contribute nothing, mirroring how a SQL date-diff over a
// malformed row would.
func SumDays(spans []Span) int {
	total := 0
	for _, span := range spans {
		start, err := ParseDate(span.Start)
		if err != nil {
			continue
		}
		end, err := ParseDate(span.End)
		if err != nil {
			continue
		}
		total += DaysInclusive(start, end)
	}
	return total
}

// Evaluation is the outcome of the apply-time balance check. The same figures
// back the balance display, so the shown remaining value and the
// accept/reject decision can never disagree.
type Evaluation struct {
	Allowed   bool `json:"allowed"`
	Entitled  int  `json:"entitled"`
	Used      int  `json:"used"`
	Requested int  `json:"requested"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"` // category has no entitlement pool
	Unchecked bool `json:"unchecked"` // employee has no entitlement record
}

// Evaluate applies the entitlement arithmetic: remaining may land exactly on
// zero and still be allowed.
func Evaluate(allotment, used, requested int) Evaluation {
	remaining := allotment - used - requested
	return Evaluation{
		Allowed:   remaining >= 0,
		Entitled:  allotment,
		Used:      used,
		Requested: requested,
		Remaining: remaining,
	}
}
