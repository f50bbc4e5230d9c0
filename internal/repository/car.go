package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const carColumns = `c.id, c.make, c.model, c.year, c.color, c.vin, c.price, c.description,
	c.image_url, c.is_available, c.owner_id, c.sales_agent_id, c.created_at, c.updated_at`

var carSortColumns = map[string]string{
	"make":      "c.make",
	"model":     "c.model",
	"year":      "c.year",
	"price":     "c.price",
	"createdat": "c.created_at",
}

// CarRepository handles persistence for cars.
type CarRepository struct {
	db *pgxpool.Pool
}

// NewCarRepository constructs a CarRepository.
func NewCarRepository(db *pgxpool.Pool) *CarRepository {
	return &CarRepository{db: db}
}

// Create inserts c and assigns its generated id.
func (r *CarRepository) Create(ctx context.Context, c *model.Car) error {
	s := c.Snapshot()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO cars (make, model, year, color, vin, price, description, image_url,
		                   is_available, owner_id, sales_agent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		s.Make, s.Model, s.Year, s.Color, s.VIN, s.Price, s.Description, s.ImageURL,
		s.IsAvailable, s.OwnerID, s.SalesAgentID, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrVINTaken
		}
		return translate("insert car", err)
	}
	c.SetID(id)
	return nil
}

// Update writes every mutable column of c.
func (r *CarRepository) Update(ctx context.Context, c *model.Car) error {
	s := c.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE cars SET make = $2, model = $3, year = $4, color = $5, price = $6,
		        description = $7, image_url = $8, is_available = $9, owner_id = $10,
		        sales_agent_id = $11, updated_at = $12
		 WHERE id = $1`,
		s.ID, s.Make, s.Model, s.Year, s.Color, s.Price, s.Description, s.ImageURL,
		s.IsAvailable, s.OwnerID, s.SalesAgentID, s.UpdatedAt,
	)
	return affectedOne("update car", tag, err)
}

// Delete removes a car or returns ErrNotFound.
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return affectedOne("delete car", tag, err)
}

// GetByID returns a single car or model.ErrNotFound.
func (r *CarRepository) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	row := r.db.QueryRow(ctx, `SELECT `+carColumns+` FROM cars c WHERE c.id = $1`, id)
	c, err := scanCar(row)
	if err != nil {
		return nil, translate("get car", err)
	}
	return c, nil
}

// VINExists reports whether a car with vin is listed.
func (r *CarRepository) VINExists(ctx context.Context, vin string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cars WHERE vin = $1)`, vin).Scan(&exists)
	return exists, translate("check vin", err)
}

// Search returns one page of cars matching f and the total match count.
func (r *CarRepository) Search(ctx context.Context, f model.CarFilter) ([]*model.Car, int, error) {
	f.Page = f.Page.Normalize(model.DefaultCarPageSize)
	w := carWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars c`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate("count cars", err)
	}

	sql := `SELECT ` + carColumns + ` FROM cars c` + w.String() +
		orderBy(f.Sort, carSortColumns, "c.created_at", "c.id") + w.page(f.Page)
	cars, err := r.list(ctx, "search cars", sql, w.args...)
	return cars, total, err
}

// ListByOwner returns the cars a client owns.
func (r *CarRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Car, error) {
	return r.list(ctx, "list cars by owner",
		`SELECT `+carColumns+` FROM cars c WHERE c.owner_id = $1 ORDER BY c.created_at DESC`, ownerID)
}

// ListBySalesAgent returns the cars assigned to an agent.
func (r *CarRepository) ListBySalesAgent(ctx context.Context, agentID int64) ([]*model.Car, error) {
	return r.list(ctx, "list cars by agent",
		`SELECT `+carColumns+` FROM cars c WHERE c.sales_agent_id = $1 ORDER BY c.created_at DESC`, agentID)
}

func (r *CarRepository) list(ctx context.Context, op, sql string, args ...any) ([]*model.Car, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	cars := []*model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		cars = append(cars, c)
	}
	return cars, translate(op, rows.Err())
}

func carWhere(f model.CarFilter) *where {
	w := &where{}
	w.search(f.Search, "c.make", "c.model", "c.vin", "c.description")
	if f.Make != "" {
		w.add("c.make ILIKE " + w.arg(escapeLike(f.Make)))
	}
	if f.Year != nil {
		w.add("c.year = " + w.arg(*f.Year))
	}
	if f.MinPrice != nil {
		w.add("c.price >= " + w.arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		w.add("c.price <= " + w.arg(*f.MaxPrice))
	}
	if f.IsAvailable != nil {
		w.add("c.is_available = " + w.arg(*f.IsAvailable))
	}
	if f.SalesAgentID != nil {
		w.add("c.sales_agent_id = " + w.arg(*f.SalesAgentID))
	}
	if f.OwnerID != nil {
		w.add("c.owner_id = " + w.arg(*f.OwnerID))
	}
	return w
}

func scanCar(row pgx.Row) (*model.Car, error) {
	var s model.CarSnapshot
	err := row.Scan(&s.ID, &s.Make, &s.Model, &s.Year, &s.Color, &s.VIN, &s.Price, &s.Description,
		&s.ImageURL, &s.IsAvailable, &s.OwnerID, &s.SalesAgentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return model.RestoreCar(s), nil
}
