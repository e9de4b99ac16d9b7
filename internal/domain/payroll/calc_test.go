package payroll

import (
	"testing"

	"leavedesk/internal/domain/employee"
)

func TestSummarize(t *testing.T) {
	partner := employee.Partner{ID: "p1", Name: "Sheer Logic"}
	employees := []employee.Employee{
		{ID: "e1", Department: "Engineering", Salary: 100000},
		{ID: "e2", Department: "Engineering", Salary: 90001},
		{ID: "e3", Department: "Finance", Salary: 80000},
	}

	summary := Summarize(partner, employees)
	if summary.PartnerID != "p1" || summary.PartnerName != "Sheer Logic" {
		t.Fatalf("partner identity wrong: %+v", summary)
	}
	if summary.TotalSalary != 270001 {
		t.Fatalf("TotalSalary = %d, want 270001", summary.TotalSalary)
	}
	if summary.Headcount != 3 {
		t.Fatalf("Headcount = %d, want 3", summary.Headcount)
	}
	if len(summary.Departments) != 2 {
		t.Fatalf("got %d departments, want 2", len(summary.Departments))
	}

	eng := summary.Departments[0]
	if eng.Department != "Engineering" || eng.Headcount != 2 {
		t.Fatalf("departments not sorted or miscounted: %+v", summary.Departments)
	}
	if eng.AverageSalary != 95001 { // 95000.5 rounds up
		t.Fatalf("Engineering average = %v, want 95001", eng.AverageSalary)
	}
	if fin := summary.Departments[1]; fin.AverageSalary != 80000 {
		t.Fatalf("Finance average = %v, want 80000", fin.AverageSalary)
	}
}

func TestSummarizeNoEmployees(t *testing.T) {
	summary := Summarize(employee.Partner{ID: "p1", Name: "Fine Media"}, nil)
	if summary.TotalSalary != 0 || summary.Headcount != 0 || len(summary.Departments) != 0 {
		t.Fatalf("empty partner should produce zero summary: %+v", summary)
	}
}
