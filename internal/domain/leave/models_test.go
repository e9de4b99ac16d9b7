package leave

import (
	"testing"

	"leavedesk/internal/domain/entitlement"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusDeclined, StatusRecalled, StatusWithdrawn}

	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}:  true,
		{StatusPending, StatusDeclined}:  true,
		{StatusPending, StatusWithdrawn}: true,
		{StatusApproved, StatusRecalled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusDeclined, StatusRecalled, StatusWithdrawn}
	for _, from := range all {
		if !from.Terminal() {
			continue
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal status %s must not transition to %s", from, to)
			}
		}
	}
}

func TestCategoryPool(t *testing.T) {
	tests := []struct {
		category Category
		pool     entitlement.Pool
		ok       bool
	}{
		{CategoryAnnual, entitlement.PoolAnnual, true},
		{CategorySick, entitlement.PoolSick, true},
		{CategoryMaternity, entitlement.PoolMaternity, true},
		{CategoryPaternity, entitlement.PoolPaternity, true},
		{CategoryStudy, entitlement.PoolCompensation, true},
		{CategoryCompassionate, entitlement.PoolCompensation, true},
		{CategoryUnpaid, "", false},
	}
	for _, tc := range tests {
		pool, ok := tc.category.Pool()
		if ok != tc.ok || pool != tc.pool {
			t.Errorf("%s.Pool() = (%s, %v), want (%s, %v)", tc.category, pool, ok, tc.pool, tc.ok)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = (%s, %v)", c, got, ok)
		}
	}
	if _, ok := ParseCategory("annual"); ok {
		t.Error("category parsing is case sensitive")
	}
	if _, ok := ParseCategory("Sabbatical"); ok {
		t.Error("unknown category should not parse")
	}
}
