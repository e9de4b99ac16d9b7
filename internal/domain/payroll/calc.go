package payroll

import (
	"math"
	"sort"

	"leavedesk/internal/domain/employee"
)

type DepartmentAverage struct {
	Department    string  `json:"department"`
	Headcount     int     `json:"headcount"`
	AverageSalary float64 `json:"averageSalary"`
}

type PartnerSummary struct {
	PartnerID   string              `json:"partnerId"`
	PartnerName string              `json:"partnerName"`
	TotalSalary int                 `json:"totalSalary"`
	Headcount   int                 `json:"headcount"`
	Departments []DepartmentAverage `json:"departments"`
}

// Summarize computes a partner's payroll position: total salary, headcount
// and per-department average salary (rounded to whole units).
func Summarize(partner employee.Partner, employees []employee.Employee) PartnerSummary {
	summary := PartnerSummary{PartnerID: partner.ID, PartnerName: partner.Name}

	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, emp := range employees {
		summary.TotalSalary += emp.Salary
		summary.Headcount++
		totals[emp.Department] += emp.Salary
		counts[emp.Department]++
	}

	for department, total := range totals {
		summary.Departments = append(summary.Departments, DepartmentAverage{
			Department:    department,
			Headcount:     counts[department],
			AverageSalary: math.Round(float64(total) / float64(counts[department])),
		})
	}
	sort.Slice(summary.Departments, func(i, j int) bool {
		return summary.Departments[i].Department < summary.Departments[j].Department
	})
	return summary
}
