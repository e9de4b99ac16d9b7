package leave

import (
	"time"

	"leavedesk/internal/domain/entitlement"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusDeclined  Status = "Declined"
	StatusRecalled  Status = "Recalled"
	StatusWithdrawn Status = "Withdrawn"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusDeclined, StatusRecalled, StatusWithdrawn:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDeclined, StatusWithdrawn},
	StatusApproved: {StatusRecalled},
}

// CanTransition reports whether the status machine permits from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryAnnual        Category = "Annual"
	CategorySick          Category = "Sick"
	CategoryMaternity     Category = "Maternity"
	CategoryPaternity     Category = "Paternity"
	CategoryStudy         Category = "Study"
	CategoryCompassionate Category = "Compassionate"
	CategoryUnpaid        Category = "Unpaid"
)

var Categories = []Category{
	CategoryAnnual,
	CategorySick,
	CategoryMaternity,
	CategoryPaternity,
	CategoryStudy,
	CategoryCompassionate,
	CategoryUnpaid,
}

// Pool maps a category to the entitlement pool it draws on. Study and
// Compassionate share the compensation pool; Unpaid has none and is never
// balance-checked.
func (c Category) Pool() (entitlement.Pool, bool) {
	switch c {
	case CategoryAnnual:
		return entitlement.PoolAnnual, true
	case CategorySick:
		return entitlement.PoolSick, true
	case CategoryMaternity:
		return entitlement.PoolMaternity, true
	case CategoryPaternity:
		return entitlement.PoolPaternity, true
	case CategoryStudy, CategoryCompassionate:
		return entitlement.PoolCompensation, true
	}
	return "", false
}

func ParseCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

type LeaveRequest struct {
	ID            int64     `json:"id"`
	EmployeeID    string    `json:"employeeId"`
	EmployeeName  string    `json:"employeeName,omitempty"`
	Category      Category  `json:"category"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	Description   string    `json:"description"`
	HasAttachment bool      `json:"hasAttachment"`
	Status        Status    `json:"status"`
	DeclineReason string    `json:"declineReason,omitempty"`
	RecallReason  string    `json:"recallReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
