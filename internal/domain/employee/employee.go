// Package employee is the read-only directory the engine references
// employees from. Records are owned externally; the engine never writes them
// outside the dev seed.
package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

var ErrNotFound = errors.New("employee not found")

type Partner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Employee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	PartnerID   string `json:"partnerId"`
	PartnerName string `json:"partnerName"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Salary      int    `json:"salary"`
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, e.name, COALESCE(e.surname, ''), e.partner_id, p.name,
    e.department, e."position", e.salary`

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN partners p ON e.partner_id = p.id
    ORDER BY e.name, e.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Surname, &emp.PartnerID, &emp.PartnerName,
			&emp.Department, &emp.Position, &emp.Salary); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN partners p ON e.partner_id = p.id
    WHERE e.id = $1
  `, id).Scan(&emp.ID, &emp.Name, &emp.Surname, &emp.PartnerID, &emp.PartnerName,
		&emp.Department, &emp.Position, &emp.Salary)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) ListByPartner(ctx context.Context, partnerID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN partners p ON e.partner_id = p.id
    WHERE e.partner_id = $1
    ORDER BY e.name, e.id
  `, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Surname, &emp.PartnerID, &emp.PartnerName,
			&emp.Department, &emp.Position, &emp.Salary); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetPartner(ctx context.Context, id string) (Partner, error) {
	var partner Partner
	err := s.DB.QueryRow(ctx, "SELECT id, name FROM partners WHERE id = $1", id).Scan(&partner.ID, &partner.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Partner{}, ErrNotFound
	}
	if err != nil {
		return Partner{}, err
	}
	return partner, nil
}

func (s *Store) Partners(ctx context.Context) ([]Partner, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM partners ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []Partner
	for rows.Next() {
		var partner Partner
		if err := rows.Scan(&partner.ID, &partner.Name); err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}
