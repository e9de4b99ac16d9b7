package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"leavedesk/internal/domain/employee"
)

type Service struct {
	Employees *employee.Store
}

func NewService(employees *employee.Store) *Service {
	return &Service{Employees: employees}
}

func (s *Service) PartnerSummary(ctx context.Context, partnerID string) (PartnerSummary, error) {
	partner, err := s.Employees.GetPartner(ctx, partnerID)
	if err != nil {
		return PartnerSummary{}, err
	}
	employees, err := s.Employees.ListByPartner(ctx, partnerID)
	if err != nil {
		return PartnerSummary{}, err
	}
	return Summarize(partner, employees), nil
}

func (s *Service) AllPartnerSummaries(ctx context.Context) ([]PartnerSummary, error) {
	partners, err := s.Employees.Partners(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]PartnerSummary, 0, len(partners))
	for _, partner := range partners {
		employees, err := s.Employees.ListByPartner(ctx, partner.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summarize(partner, employees))
	}
	return summaries, nil
}

// SummaryPDF renders a partner payroll summary for download.
func SummaryPDF(summary PartnerSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Partner Payroll Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Partner: %s", summary.PartnerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Headcount: %d", summary.Headcount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total Salary: %d", summary.TotalSalary))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Average Salary by Department")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, dept := range summary.Departments {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.0f (%d employees)", dept.Department, dept.AverageSalary, dept.Headcount))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
