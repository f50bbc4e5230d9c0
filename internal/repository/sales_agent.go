package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agentColumns = `s.id, s.first_name, s.last_name, s.email, s.phone_number, s.department,
	s.commission_rate, s.biography, s.hire_date, s.is_active, s.user_id, s.created_at, s.updated_at`

const assignedCarsExpr = `(SELECT COUNT(*) FROM cars c WHERE c.sales_agent_id = s.id)`

var agentSortColumns = map[string]string{
	"firstname":      "s.first_name",
	"lastname":       "s.last_name",
	"department":     "s.department",
	"commissionrate": "s.commission_rate",
	"assignedcars":   "assigned_cars",
	"createdat":      "s.created_at",
}

// SalesAgentRepository handles persistence for sales agents.
type SalesAgentRepository struct {
	db *pgxpool.Pool
}

// NewSalesAgentRepository constructs a SalesAgentRepository.
func NewSalesAgentRepository(db *pgxpool.Pool) *SalesAgentRepository {
	return &SalesAgentRepository{db: db}
}

// Create inserts a and sets its generated id.
func (r *SalesAgentRepository) Create(ctx context.Context, a *model.SalesAgent) error {
	s := a.Snapshot()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO sales_agents (first_name, last_name, email, phone_number, department,
		                           commission_rate, biography, hire_date, is_active, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		s.FirstName, s.LastName, s.Email, s.PhoneNumber, s.Department,
		s.CommissionRate, s.Biography, s.HireDate, s.IsActive, s.UserID, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return translate("insert sales agent", err)
	}
	a.SetID(id)
	return nil
}

// Update writes every mutable column of a.
func (r *SalesAgentRepository) Update(ctx context.Context, a *model.SalesAgent) error {
	s := a.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE sales_agents SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		        department = $6, commission_rate = $7, biography = $8, is_active = $9, user_id = $10,
		        updated_at = $11
		 WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Email, s.PhoneNumber, s.Department,
		s.CommissionRate, s.Biography, s.IsActive, s.UserID, s.UpdatedAt,
	)
	return affectedOne("update sales agent", tag, err)
}

// Delete removes an agent or returns ErrNotFound.
func (r *SalesAgentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales_agents WHERE id = $1`, id)
	return affectedOne("delete sales agent", tag, err)
}

// GetByID returns a single agent or ErrNotFound.
func (r *SalesAgentRepository) GetByID(ctx context.Context, id int64) (*model.SalesAgent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM sales_agents s WHERE s.id = $1`, id))
	if err != nil {
		return nil, translate("get sales agent", err)
	}
	return a, nil
}

// GetByUserID returns the agent linked to a login account.
func (r *SalesAgentRepository) GetByUserID(ctx context.Context, userID string) (*model.SalesAgent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM sales_agents s WHERE s.user_id = $1`, userID))
	if err != nil {
		return nil, translate("get sales agent by user", err)
	}
	return a, nil
}

// EmailExists reports whether another agent than excludeID uses email.
func (r *SalesAgentRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales_agents WHERE lower(email) = lower($1) AND id <> $2)`,
		email, excludeID,
	).Scan(&exists)
	return exists, translate("check agent email", err)
}

// UserIDExists reports whether another agent than excludeID is linked to userID.
func (r *SalesAgentRepository) UserIDExists(ctx context.Context, userID string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales_agents WHERE user_id = $1 AND id <> $2)`,
		userID, excludeID,
	).Scan(&exists)
	return exists, translate("check agent user", err)
}

// Search returns one page of agents with their assigned car counts.
func (r *SalesAgentRepository) Search(ctx context.Context, f model.SalesAgentFilter) ([]model.AgentWithCars, int, error) {
	f.Page = f.Page.Normalize(model.DefaultAgentPageSize)
	w := agentWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales_agents s`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate("count sales agents", err)
	}

	sql := `SELECT ` + agentColumns + `, ` + assignedCarsExpr + ` AS assigned_cars FROM sales_agents s` +
		w.String() + orderBy(f.Sort, agentSortColumns, "s.created_at", "s.id") + w.page(f.Page)
	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, translate("search sales agents", err)
	}
	defer rows.Close()

	agents := []model.AgentWithCars{}
	for rows.Next() {
		var a model.AgentWithCars
		if err := rows.Scan(append(agentDest(&a.SalesAgentSnapshot), &a.AssignedCars)...); err != nil {
			return nil, 0, translate("scan sales agent", err)
		}
		agents = append(agents, a)
	}
	return agents, total, translate("search sales agents", rows.Err())
}

func agentWhere(f model.SalesAgentFilter) *where {
	w := &where{}
	w.search(f.Search, "s.first_name", "s.last_name", "s.email", "s.department")
	if f.Department != "" {
		w.add("s.department ILIKE " + w.arg(escapeLike(f.Department)))
	}
	if f.MinCommissionRate != nil {
		w.add("s.commission_rate >= " + w.arg(*f.MinCommissionRate))
	}
	if f.IsActive != nil {
		w.add("s.is_active = " + w.arg(*f.IsActive))
	}
	return w
}

func agentDest(s *model.SalesAgentSnapshot) []any {
	return []any{&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.PhoneNumber, &s.Department,
		&s.CommissionRate, &s.Biography, &s.HireDate, &s.IsActive, &s.UserID, &s.CreatedAt, &s.UpdatedAt}
}

func scanAgent(row pgx.Row) (*model.SalesAgent, error) {
	var s model.SalesAgentSnapshot
	if err := row.Scan(agentDest(&s)...); err != nil {
		return nil, err
	}
	return model.RestoreSalesAgent(s), nil
}
