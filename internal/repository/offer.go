package repository

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const offerColumns = `o.id, o.title, o.description, o.original_price, o.discounted_price,
	o.discount_percentage, o.start_date, o.end_date, o.is_active, o.terms, o.max_applications,
	o.current_applications, o.car_id, o.sales_agent_id, o.created_at, o.updated_at`

var offerSortColumns = map[string]string{
	"title":     "o.title",
	"discount":  "o.discount_percentage",
	"price":     "o.discounted_price",
	"enddate":   "o.end_date",
	"createdat": "o.created_at",
}

// OfferRepository handles persistence for offers.
type OfferRepository struct {
	db *pgxpool.Pool
}

// NewOfferRepository constructs an OfferRepository.
func NewOfferRepository(db *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserts o and sets its generated id.
func (r *OfferRepository) Create(ctx context.Context, o *model.Offer) error {
	s := o.Snapshot()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO offers (title, description, original_price, discounted_price, discount_percentage,
		                     start_date, end_date, is_active, terms, max_applications,
		                     current_applications, car_id, sales_agent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		s.Title, s.Description, s.OriginalPrice, s.DiscountedPrice, s.DiscountPercentage,
		s.StartDate, s.EndDate, s.IsActive, s.Terms, s.MaxApplications,
		s.CurrentApplications, s.CarID, s.SalesAgentID, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return translate("insert offer", err)
	}
	o.SetID(id)
	return nil
}

// Modify applies change to the offer under a row lock and writes the result.
//
// The lock is the same one ApplicationRepository.Submit takes, so change
// sees the committed application counter and no concurrent submit can move
// it until the update commits. The counter itself is never written here.
func (r *OfferRepository) Modify(ctx context.Context, id int64, change func(*model.Offer) error) (*model.Offer, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, translate("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOffer(tx.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM offers o WHERE o.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, translate("lock offer row", err)
	}
	if err := change(o); err != nil {
		return nil, err
	}

	s := o.Snapshot()
	_, err = tx.Exec(ctx,
		`UPDATE offers SET title = $2, description = $3, original_price = $4, discounted_price = $5,
		        discount_percentage = $6, start_date = $7, end_date = $8, is_active = $9, terms = $10,
		        max_applications = $11, car_id = $12, sales_agent_id = $13, updated_at = $14
		 WHERE id = $1`,
		s.ID, s.Title, s.Description, s.OriginalPrice, s.DiscountedPrice, s.DiscountPercentage,
		s.StartDate, s.EndDate, s.IsActive, s.Terms, s.MaxApplications, s.CarID, s.SalesAgentID,
		s.UpdatedAt,
	)
	if err != nil {
		return nil, translate("update offer", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, translate("commit transaction", err)
	}
	return o, nil
}

// Delete removes an offer and, by cascade, its applications.
func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return affectedOne("delete offer", tag, err)
}

// GetByID returns a single offer or ErrNotFound.
func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*model.Offer, error) {
	o, err := scanOffer(r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers o WHERE o.id = $1`, id))
	if err != nil {
		return nil, translate("get offer", err)
	}
	return o, nil
}

// ListByCar returns a car's offers, newest first.
func (r *OfferRepository) ListByCar(ctx context.Context, carID int64) ([]*model.Offer, error) {
	return r.list(ctx, "list offers by car",
		`SELECT `+offerColumns+` FROM offers o WHERE o.car_id = $1 ORDER BY o.created_at DESC`, carID)
}

// ListBySalesAgent returns an agent's offers, newest first.
func (r *OfferRepository) ListBySalesAgent(ctx context.Context, agentID int64) ([]*model.Offer, error) {
	return r.list(ctx, "list offers by agent",
		`SELECT `+offerColumns+` FROM offers o WHERE o.sales_agent_id = $1 ORDER BY o.created_at DESC`, agentID)
}

// ListActive returns offers that are switched on and inside their window at
// now, best discount first.
func (r *OfferRepository) ListActive(ctx context.Context, now time.Time) ([]*model.Offer, error) {
	return r.list(ctx, "list active offers",
		`SELECT `+offerColumns+` FROM offers o
		 WHERE o.is_active AND o.start_date <= $1 AND o.end_date >= $1
		 ORDER BY o.discount_percentage DESC, o.id DESC`, now)
}

// Search returns one page of offers matching f, evaluating window filters at now.
func (r *OfferRepository) Search(ctx context.Context, f model.OfferFilter, now time.Time) ([]*model.Offer, int, error) {
	f.Page = f.Page.Normalize(model.DefaultOfferPageSize)
	w := offerWhere(f, now)
	from := ` FROM offers o JOIN cars c ON c.id = o.car_id`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate("count offers", err)
	}

	sql := `SELECT ` + offerColumns + from + w.String() +
		orderBy(f.Sort, offerSortColumns, "o.created_at", "o.id") + w.page(f.Page)
	offers, err := r.list(ctx, "search offers", sql, w.args...)
	return offers, total, err
}

func (r *OfferRepository) list(ctx context.Context, op, sql string, args ...any) ([]*model.Offer, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	offers := []*model.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		offers = append(offers, o)
	}
	return offers, translate(op, rows.Err())
}

func offerWhere(f model.OfferFilter, now time.Time) *where {
	w := &where{}
	w.search(f.Search, "o.title", "o.description", "c.make", "c.model")
	if f.MinDiscount != nil {
		w.add("o.discount_percentage >= " + w.arg(*f.MinDiscount))
	}
	if f.MaxPrice != nil {
		w.add("o.discounted_price <= " + w.arg(*f.MaxPrice))
	}
	if f.IsActive != nil {
		p := w.arg(now)
		if *f.IsActive {
			w.add("(o.is_active AND o.start_date <= " + p + " AND o.end_date >= " + p + ")")
		} else {
			w.add("(NOT o.is_active OR o.end_date < " + p + ")")
		}
	}
	if f.IsExpired != nil {
		p := w.arg(now)
		if *f.IsExpired {
			w.add("o.end_date < " + p)
		} else {
			w.add("o.end_date >= " + p)
		}
	}
	if f.CarID != nil {
		w.add("o.car_id = " + w.arg(*f.CarID))
	}
	if f.SalesAgentID != nil {
		w.add("o.sales_agent_id = " + w.arg(*f.SalesAgentID))
	}
	return w
}

func scanOffer(row pgx.Row) (*model.Offer, error) {
	var s model.OfferSnapshot
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.OriginalPrice, &s.DiscountedPrice,
		&s.DiscountPercentage, &s.StartDate, &s.EndDate, &s.IsActive, &s.Terms, &s.MaxApplications,
		&s.CurrentApplications, &s.CarID, &s.SalesAgentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return model.RestoreOffer(s), nil
}
