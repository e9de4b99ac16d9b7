package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedEmployee struct {
	id         string
	name       string
	surname    string
	partner    string
	department string
	position   string
	salary     int
}

var seedPartners = []string{"Fine Media", "Sheer Logic"}

var seedEmployees = []seedEmployee{
	{"FM-001", "Achieng", "Odhiambo", "Fine Media", "Operations", "Coordinator", 85000},
	{"FM-002", "Brian", "Mwangi", "Fine Media", "Sales", "Account Manager", 95000},
	{"SL-001", "Carol", "Njeri", "Sheer Logic", "Engineering", "Developer", 120000},
	{"SL-002", "David", "Otieno", "Sheer Logic", "Engineering", "Developer", 115000},
}

// Seed provisions partners, employees and their entitlements for local
// development. Entitlement rows stand in for the external HR administration
// process; the engine itself never writes them.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	partnerIDs := make(map[string]string, len(seedPartners))
	for _, name := range seedPartners {
		var id string
		err := pool.QueryRow(ctx, `
      INSERT INTO partners (name) VALUES ($1)
      ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
      RETURNING id
    `, name).Scan(&id)
		if err != nil {
			return err
		}
		partnerIDs[name] = id
	}

	for _, emp := range seedEmployees {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (id, name, surname, partner_id, department, "position", salary)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
      ON CONFLICT (id) DO NOTHING
    `, emp.id, emp.name, emp.surname, partnerIDs[emp.partner], emp.department, emp.position, emp.salary); err != nil {
			return err
		}

		if _, err := pool.Exec(ctx, `
      INSERT INTO entitlements (employee_id, annual, sick, compensation, maternity, paternity)
      VALUES ($1, 21, 14, 7, 90, 14)
      ON CONFLICT (employee_id) DO NOTHING
    `, emp.id); err != nil {
			return err
		}
	}

	return nil
}
