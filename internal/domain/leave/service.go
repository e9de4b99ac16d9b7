package leave

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/entitlement"
	"leavedesk/internal/platform/querier"
)

// Service is the lifecycle controller: the only way callers mutate the leave
// ledger. Each operation runs as one transaction: the status change and its
// reason fields commit together or not at all.
type Service struct {
	DB *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{DB: pool}
}

type Application struct {
	EmployeeID    string
	Category      Category
	Start         Date
	End           Date
	Description   string
	HasAttachment bool
}

type ApplyResult struct {
	ID         int64      `json:"id"`
	Evaluation Evaluation `json:"evaluation"`
}

// Apply validates the range, runs the balance check and inserts the Pending
// request, all inside one transaction so concurrent applications observe only
// committed approvals.
func (s *Service) Apply(ctx context.Context, app Application) (ApplyResult, error) {
	if app.End.Before(app.Start) {
		return ApplyResult{}, ErrInvalidRange
	}
	requested := DaysInclusive(app.Start, app.End)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return ApplyResult{}, err
	}
	defer tx.Rollback(ctx)

	eval, err := evaluate(ctx, tx, app.EmployeeID, app.Category, requested)
	if err != nil {
		return ApplyResult{}, err
	}
	if !eval.Allowed {
		return ApplyResult{}, &RejectedBalanceError{Category: app.Category, Remaining: eval.Remaining}
	}

	id, err := NewStore(tx).Insert(ctx, LeaveRequest{
		EmployeeID:    app.EmployeeID,
		Category:      app.Category,
		StartDate:     app.Start.String(),
		EndDate:       app.End.String(),
		Description:   app.Description,
		HasAttachment: app.HasAttachment,
	})
	if err != nil {
		return ApplyResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{ID: id, Evaluation: eval}, nil
}

func (s *Service) Approve(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusPending, StatusApproved, "approve", nil)
}

func (s *Service) Decline(ctx context.Context, id int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	return s.transition(ctx, id, StatusPending, StatusDeclined, "decline", &reason)
}

// Withdraw takes the employee's own Pending request out of play. The reason
// is optional.
func (s *Service) Withdraw(ctx context.Context, id int64, reason string) error {
	reason = strings.TrimSpace(reason)
	var stored *string
	if reason != "" {
		stored = &reason
	}
	return s.transition(ctx, id, StatusPending, StatusWithdrawn, "withdraw", stored)
}

// Recall reverses an Approved leave while enough of its window remains. The
// recorded reason is always RecallReason.
func (s *Service) Recall(ctx context.Context, id int64, today Date) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	store := NewStore(tx)
	req, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != StatusApproved {
		return &InvalidTransitionError{ID: id, From: req.Status, Event: "recall"}
	}

	start, err := ParseDate(req.StartDate)
	if err != nil {
		return &MalformedDateError{RequestID: id, Field: "start_date", Value: req.StartDate}
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return &MalformedDateError{RequestID: id, Field: "end_date", Value: req.EndDate}
	}

	left := DaysLeft(start, end, today)
	if !RecallAllowed(left) {
		return &RecallWindowError{DaysLeft: left}
	}

	reason := RecallReason
	ok, err := store.Transition(ctx, id, StatusApproved, StatusRecalled, &reason)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race: someone else moved the request first.
		return s.transitionConflict(ctx, store, id, "recall")
	}
	return tx.Commit(ctx)
}

func (s *Service) transition(ctx context.Context, id int64, from, to Status, event string, reason *string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	store := NewStore(tx)
	ok, err := store.Transition(ctx, id, from, to, reason)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionConflict(ctx, store, id, event)
	}
	return tx.Commit(ctx)
}

func (s *Service) transitionConflict(ctx context.Context, store *Store, id int64, event string) error {
	current, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	return &InvalidTransitionError{ID: id, From: current.Status, Event: event}
}

// UsedDays sums the inclusive duration of the employee's currently Approved
// requests. An empty category means all categories. A recalled leave no
// longer counts: usage follows the request's current status only.
func (s *Service) UsedDays(ctx context.Context, employeeID string, category Category) (int, error) {
	spans, err := NewStore(s.DB).ApprovedSpans(ctx, employeeID, category)
	if err != nil {
		return 0, err
	}
	return SumDays(spans), nil
}

// EvaluateApplication runs the balance check without inserting anything, for
// callers that preview the remaining figure before submitting.
func (s *Service) EvaluateApplication(ctx context.Context, employeeID string, category Category, requestedDays int) (Evaluation, error) {
	return evaluate(ctx, s.DB, employeeID, category, requestedDays)
}

func evaluate(ctx context.Context, q querier.Querier, employeeID string, category Category, requested int) (Evaluation, error) {
	pool, checked := category.Pool()
	if !checked {
		return Evaluation{Allowed: true, Unlimited: true, Requested: requested}, nil
	}

	ent, err := entitlement.NewStore(q).Get(ctx, employeeID)
	if errors.Is(err, entitlement.ErrNotFound) {
		return Evaluation{Allowed: true, Unchecked: true, Requested: requested}, nil
	}
	if err != nil {
		return Evaluation{}, err
	}

	spans, err := NewStore(q).ApprovedSpans(ctx, employeeID, category)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluate(ent.Allotment(pool), SumDays(spans), requested), nil
}

// Balance is the per-category entitlement position shown to employees. It is
// derived from the same UsedDays the apply gate uses.
type Balance struct {
	Category  Category `json:"category"`
	Entitled  int      `json:"entitled"`
	Used      int      `json:"used"`
	Remaining int      `json:"remaining"`
	Unlimited bool     `json:"unlimited"`
	Unchecked bool     `json:"unchecked"`
}

func (s *Service) Balances(ctx context.Context, employeeID string) ([]Balance, error) {
	store := NewStore(s.DB)
	ent, err := entitlement.NewStore(s.DB).Get(ctx, employeeID)
	unchecked := errors.Is(err, entitlement.ErrNotFound)
	if err != nil && !unchecked {
		return nil, err
	}

	balances := make([]Balance, 0, len(Categories))
	for _, category := range Categories {
		spans, err := store.ApprovedSpans(ctx, employeeID, category)
		if err != nil {
			return nil, err
		}
		used := SumDays(spans)

		pool, checked := category.Pool()
		switch {
		case !checked:
			balances = append(balances, Balance{Category: category, Used: used, Unlimited: true})
		case unchecked:
			balances = append(balances, Balance{Category: category, Used: used, Unchecked: true})
		default:
			entitled := ent.Allotment(pool)
			balances = append(balances, Balance{
				Category:  category,
				Entitled:  entitled,
				Used:      used,
				Remaining: entitled - used,
			})
		}
	}
	return balances, nil
}

func (s *Service) ListPending(ctx context.Context) ([]LeaveRequest, error) {
	return NewStore(s.DB).ListByStatus(ctx, StatusPending)
}

// RecallCandidate decorates an Approved request with its recall position as
// of a reference date. Expired is derived, never stored: an elapsed leave
// simply stays Approved.
type RecallCandidate struct {
	LeaveRequest
	DaysLeft      int  `json:"daysLeft"`
	RecallAllowed bool `json:"recallAllowed"`
	Expired       bool `json:"expired"`
}

// ListApproved returns every Approved request with recall eligibility
// computed against today. Records with malformed stored dates are skipped and
// reported, not fatal.
func (s *Service) ListApproved(ctx context.Context, today Date) ([]RecallCandidate, []*MalformedDateError, error) {
	requests, err := NewStore(s.DB).ListByStatus(ctx, StatusApproved)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]RecallCandidate, 0, len(requests))
	var malformed []*MalformedDateError
	for _, req := range requests {
		start, err := ParseDate(req.StartDate)
		if err != nil {
			malformed = append(malformed, &MalformedDateError{RequestID: req.ID, Field: "start_date", Value: req.StartDate})
			continue
		}
		end, err := ParseDate(req.EndDate)
		if err != nil {
			malformed = append(malformed, &MalformedDateError{RequestID: req.ID, Field: "end_date", Value: req.EndDate})
			continue
		}
		left := DaysLeft(start, end, today)
		candidates = append(candidates, RecallCandidate{
			LeaveRequest:  req,
			DaysLeft:      left,
			RecallAllowed: RecallAllowed(left),
			Expired:       left == 0,
		})
	}
	return candidates, malformed, nil
}

func (s *Service) History(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	return NewStore(s.DB).History(ctx, employeeID)
}

func (s *Service) Latest(ctx context.Context, employeeID string) (LeaveRequest, error) {
	return NewStore(s.DB).Latest(ctx, employeeID)
}

func (s *Service) TeamView(ctx context.Context, filter TeamFilter) ([]LeaveRequest, error) {
	return NewStore(s.DB).TeamView(ctx, filter)
}
