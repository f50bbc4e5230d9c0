package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.role, u.password_hash, u.created_at, u.updated_at`

// UserRepository handles persistence for user accounts.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	s := u.Snapshot()
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, first_name, last_name, role, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Email, s.FirstName, s.LastName, s.Role, s.PasswordHash, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return translate("insert user", err)
	}
	return nil
}

// Update writes the profile fields.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	s := u.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.UpdatedAt,
	)
	return affectedOne("update user", tag, err)
}

// GetByID returns a single user or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return nil, translate("get user", err)
	}
	return u, nil
}

// GetByEmail looks a user up by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = lower($1)`, email))
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return u, nil
}

// EmailExists reports whether the email is registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = lower($1))`, email).Scan(&exists)
	return exists, translate("check user email", err)
}

// List returns every user ordered by last then first name.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.list(ctx, "list users",
		`SELECT `+userColumns+` FROM users u ORDER BY u.last_name, u.first_name`)
}

// ListByRole returns users holding role, ordered by name.
func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return r.list(ctx, "list users by role",
		`SELECT `+userColumns+` FROM users u WHERE u.role = $1 ORDER BY u.last_name, u.first_name`, role)
}

func (r *UserRepository) list(ctx context.Context, op, sql string, args ...any) ([]*model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		users = append(users, u)
	}
	return users, translate(op, rows.Err())
}

func scanUser(row pgx.Row) (*model.User, error) {
	var s model.UserSnapshot
	err := row.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.Role, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return model.RestoreUser(s), nil
}
