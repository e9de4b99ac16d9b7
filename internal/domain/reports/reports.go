// Package reports derives the partner-level leave figures the HR dashboard
// consumes. Partner membership comes from the employees.partner_id foreign
// key, never from name matching.
package reports

import (
	"context"
	"sort"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/querier"
)

// LeaveRow is one ledger row tagged with the owning partner.
type LeaveRow struct {
	PartnerID   string
	PartnerName string
	Status      leave.Status
	Start       string
	End         string
}

type PartnerStats struct {
	PartnerID        string `json:"partnerId"`
	PartnerName      string `json:"partnerName"`
	ApprovedDays     int    `json:"approvedDays"`
	DeclinedRequests int    `json:"declinedRequests"`
	CumulatedDays    int    `json:"cumulatedDays"`
}

// Aggregate folds ledger rows into per-partner stats. Approved days count
// Approved requests only; cumulated days cover Approved and Pending. Rows
// with unparseable dates contribute nothing to the day sums.
func Aggregate(rows []LeaveRow) []PartnerStats {
	byPartner := make(map[string]*PartnerStats)
	for _, row := range rows {
		stats, ok := byPartner[row.PartnerID]
		if !ok {
			stats = &PartnerStats{PartnerID: row.PartnerID, PartnerName: row.PartnerName}
			byPartner[row.PartnerID] = stats
		}

		days := leave.SumDays([]leave.Span{{Start: row.Start, End: row.End}})
		switch row.Status {
		case leave.StatusApproved:
			stats.ApprovedDays += days
			stats.CumulatedDays += days
		case leave.StatusPending:
			stats.CumulatedDays += days
		case leave.StatusDeclined:
			stats.DeclinedRequests++
		}
	}

	out := make([]PartnerStats, 0, len(byPartner))
	for _, stats := range byPartner {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartnerName < out[j].PartnerName })
	return out
}

// ScheduleEntry is one approved leave shown on the upcoming/current views.
type ScheduleEntry struct {
	EmployeeID   string         `json:"employeeId"`
	EmployeeName string         `json:"employeeName"`
	Category     leave.Category `json:"category"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) PartnerLeaveRows(ctx context.Context) ([]LeaveRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.name, l.status, l.start_date, l.end_date
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    JOIN partners p ON e.partner_id = p.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveRow
	for rows.Next() {
		var row LeaveRow
		if err := rows.Scan(&row.PartnerID, &row.PartnerName, &row.Status, &row.Start, &row.End); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Upcoming lists approved leaves starting after today. ISO date strings
// order lexicographically, so the text comparison is a calendar comparison.
func (s *Store) Upcoming(ctx context.Context, today leave.Date) ([]ScheduleEntry, error) {
	return s.schedule(ctx, `
    SELECT l.employee_id, e.name, l.category, l.start_date, l.end_date
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.status = $1 AND l.start_date > $2
    ORDER BY l.start_date
  `, leave.StatusApproved, today.String())
}

// Current lists approved leaves whose window covers today.
func (s *Store) Current(ctx context.Context, today leave.Date) ([]ScheduleEntry, error) {
	return s.schedule(ctx, `
    SELECT l.employee_id, e.name, l.category, l.start_date, l.end_date
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.status = $1 AND l.start_date <= $2 AND l.end_date >= $2
    ORDER BY l.start_date
  `, leave.StatusApproved, today.String())
}

func (s *Store) schedule(ctx context.Context, sql string, args ...any) ([]ScheduleEntry, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		var entry ScheduleEntry
		if err := rows.Scan(&entry.EmployeeID, &entry.EmployeeName, &entry.Category, &entry.StartDate, &entry.EndDate); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) PartnerStats(ctx context.Context) ([]PartnerStats, error) {
	rows, err := s.Store.PartnerLeaveRows(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

func (s *Service) Upcoming(ctx context.Context, today leave.Date) ([]ScheduleEntry, error) {
	return s.Store.Upcoming(ctx, today)
}

func (s *Service) Current(ctx context.Context, today leave.Date) ([]ScheduleEntry, error) {
	return s.Store.Current(ctx, today)
}
