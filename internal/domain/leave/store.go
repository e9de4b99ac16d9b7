package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    l.id, l.employee_id, e.name, l.category, l.start_date, l.end_date,
    l.description, l.has_attachment, l.status,
    COALESCE(l.decline_reason, ''), COALESCE(l.recall_reason, ''), l.created_at`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	err := row.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Category,
		&req.StartDate, &req.EndDate, &req.Description, &req.HasAttachment,
		&req.Status, &req.DeclineReason, &req.RecallReason, &req.CreatedAt)
	return req, err
}

func (s *Store) Insert(ctx context.Context, req LeaveRequest) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, category, start_date, end_date, description, has_attachment, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, req.EmployeeID, req.Category, req.StartDate, req.EndDate, req.Description, req.HasAttachment, StatusPending).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (LeaveRequest, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// Transition is a compare-and-swap on status: the row changes only if its
// current status still matches from. Reason lands in the column the target
// status owns. Returns false when the swap did not happen.
func (s *Store) Transition(ctx context.Context, id int64, from, to Status, reason *string) (bool, error) {
	var sql string
	args := []any{to, id, from}
	switch to {
	case StatusApproved:
		sql = "UPDATE leaves SET status = $1 WHERE id = $2 AND status = $3"
	case StatusDeclined:
		sql = "UPDATE leaves SET status = $1, decline_reason = $4 WHERE id = $2 AND status = $3"
		args = append(args, reason)
	case StatusRecalled, StatusWithdrawn:
		sql = "UPDATE leaves SET status = $1, recall_reason = $4 WHERE id = $2 AND status = $3"
		args = append(args, reason)
	default:
		return false, fmt.Errorf("unsupported target status %s", to)
	}
	tag, err := s.DB.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ApprovedSpans returns the date pairs of requests whose current status is
// Approved, optionally for one category. Only these count toward usage.
func (s *Store) ApprovedSpans(ctx context.Context, employeeID string, category Category) ([]Span, error) {
	sql := "SELECT start_date, end_date FROM leaves WHERE employee_id = $1 AND status = $2"
	args := []any{employeeID, StatusApproved}
	if category != "" {
		sql += " AND category = $3"
		args = append(args, category)
	}
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spans []Span
	for rows.Next() {
		var span Span
		if err := rows.Scan(&span.Start, &span.End); err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, rows.Err()
}

func (s *Store) ListByStatus(ctx context.Context, status Status) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.status = $1
    ORDER BY l.id
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// History lists an employee's requests newest-first.
func (s *Store) History(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.employee_id = $1
    ORDER BY l.id DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) Latest(ctx context.Context, employeeID string) (LeaveRequest, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.employee_id = $1
    ORDER BY l.id DESC
    LIMIT 1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// TeamFilter narrows the team view. Every filter is set-membership, filters
// combine with AND, and an empty filter places no restriction.
type TeamFilter struct {
	Statuses   []Status
	Categories []Category
	Employees  []string
}

func (s *Store) TeamView(ctx context.Context, filter TeamFilter) ([]LeaveRequest, error) {
	sql := `
    SELECT` + requestColumns + `
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE 1=1`
	var args []any
	if len(filter.Statuses) > 0 {
		args = append(args, toStrings(filter.Statuses))
		sql += fmt.Sprintf(" AND l.status = ANY($%d)", len(args))
	}
	if len(filter.Categories) > 0 {
		args = append(args, toStrings(filter.Categories))
		sql += fmt.Sprintf(" AND l.category = ANY($%d)", len(args))
	}
	if len(filter.Employees) > 0 {
		args = append(args, filter.Employees)
		sql += fmt.Sprintf(" AND l.employee_id = ANY($%d)", len(args))
	}
	sql += " ORDER BY l.id"

	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
