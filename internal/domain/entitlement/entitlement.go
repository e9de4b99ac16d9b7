// Package entitlement holds the per-employee leave allotments. The engine
// only reads them; provisioning belongs to an external HR administration
// process.
package entitlement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

// ErrNotFound means no entitlement record is configured for the employee.
// That is a valid state: applications are still accepted, just without a
// balance check.
var ErrNotFound = errors.New("entitlements not configured")

type Pool string

const (
	PoolAnnual       Pool = "annual"
	PoolSick         Pool = "sick"
	PoolCompensation Pool = "compensation"
	PoolMaternity    Pool = "maternity"
	PoolPaternity    Pool = "paternity"
)

type Entitlement struct {
	EmployeeID   string `json:"employeeId"`
	Annual       int    `json:"annual"`
	Sick         int    `json:"sick"`
	Compensation int    `json:"compensation"`
	Maternity    int    `json:"maternity"`
	Paternity    int    `json:"paternity"`
}

func (e Entitlement) Allotment(pool Pool) int {
	switch pool {
	case PoolAnnual:
		return e.Annual
	case PoolSick:
		return e.Sick
	case PoolCompensation:
		return e.Compensation
	case PoolMaternity:
		return e.Maternity
	case PoolPaternity:
		return e.Paternity
	}
	return 0
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, employeeID string) (Entitlement, error) {
	var ent Entitlement
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, annual, sick, compensation, maternity, paternity
    FROM entitlements
    WHERE employee_id = $1
  `, employeeID).Scan(&ent.EmployeeID, &ent.Annual, &ent.Sick, &ent.Compensation, &ent.Maternity, &ent.Paternity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entitlement{}, ErrNotFound
	}
	if err != nil {
		return Entitlement{}, err
	}
	return ent, nil
}
