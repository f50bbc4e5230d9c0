package repository

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const interestViewSelect = `SELECT i.id, i.car_id, i.user_id, i.preferred_call_time, i.notes, i.created_at,
	u.first_name || ' ' || u.last_name, u.email, c.year || ' ' || c.make || ' ' || c.model
	FROM car_interests i
	JOIN users u ON u.id = i.user_id
	JOIN cars c ON c.id = i.car_id`

// InterestRepository handles persistence for car interests.
type InterestRepository struct {
	db *pgxpool.Pool
}

// NewInterestRepository constructs an InterestRepository.
func NewInterestRepository(db *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{db: db}
}

// Create inserts i and sets its generated id.
func (r *InterestRepository) Create(ctx context.Context, i *model.CarInterest) error {
	s := i.Snapshot()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO car_interests (car_id, user_id, preferred_call_time, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.CarID, s.UserID, s.PreferredCallTime, s.Notes, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return translate("insert car interest", err)
	}
	i.SetID(id)
	return nil
}

// ListByCar returns the interest shown in a car, newest first.
func (r *InterestRepository) ListByCar(ctx context.Context, carID int64) ([]model.InterestView, error) {
	return r.list(ctx, "list interests by car",
		interestViewSelect+` WHERE i.car_id = $1 ORDER BY i.created_at DESC`, carID)
}

// ListByUser returns a client's interests, newest first.
func (r *InterestRepository) ListByUser(ctx context.Context, userID string) ([]model.InterestView, error) {
	return r.list(ctx, "list interests by user",
		interestViewSelect+` WHERE i.user_id = $1 ORDER BY i.created_at DESC`, userID)
}

// ListRecent returns interests created in the last f.Days days before now,
// newest first, capped at f.Limit.
func (r *InterestRepository) ListRecent(ctx context.Context, f model.InterestFilter, now time.Time) ([]model.InterestView, error) {
	f = f.Normalize()
	w := interestWhere(f, now)
	sql := interestViewSelect + w.String() + ` ORDER BY i.created_at DESC, i.id DESC LIMIT ` + w.arg(f.Limit)
	return r.list(ctx, "list recent interests", sql, w.args...)
}

func interestWhere(f model.InterestFilter, now time.Time) *where {
	w := &where{}
	w.add("i.created_at >= " + w.arg(now.AddDate(0, 0, -f.Days)))
	w.search(f.Search, "u.first_name", "u.last_name", "u.email", "c.make", "c.model")
	return w
}

func (r *InterestRepository) list(ctx context.Context, op, sql string, args ...any) ([]model.InterestView, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	views := []model.InterestView{}
	for rows.Next() {
		var v model.InterestView
		err := rows.Scan(&v.ID, &v.CarID, &v.UserID, &v.PreferredCallTime, &v.Notes, &v.CreatedAt,
			&v.ClientName, &v.ClientEmail, &v.CarName)
		if err != nil {
			return nil, translate(op, err)
		}
		views = append(views, v)
	}
	return views, translate(op, rows.Err())
}
