package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `a.id, a.offer_id, a.user_id, a.notes, a.status, a.application_date,
	a.reviewed_at, a.review_notes, a.reviewed_by_user_id`

// ApplicationRepository handles persistence for offer applications.
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Submit takes one slot on the offer and records app in a single transaction.
//
// Two clients reading the offer concurrently could both see a free slot and
// both insert, overrunning max_applications. SELECT … FOR UPDATE takes a row
// lock on the offer, so concurrent submits for the same offer queue behind
// each other and each one sees the counter its predecessor committed. The
// unique (offer_id, user_id) index backs up the duplicate check.
func (r *ApplicationRepository) Submit(ctx context.Context, app *model.OfferApplication, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translate("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Step 1: lock the offer row.
	offer, err := scanOffer(tx.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM offers o WHERE o.id = $1 FOR UPDATE`, app.OfferID()))
	if err != nil {
		return translate("lock offer row", err)
	}

	// Step 2: one application per user per offer.
	var dup bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM offer_applications WHERE offer_id = $1 AND user_id = $2)`,
		app.OfferID(), app.UserID(),
	).Scan(&dup)
	if err != nil {
		return translate("check duplicate", err)
	}
	if dup {
		return model.ErrAlreadyApplied
	}

	// Step 3: window and capacity, decided by the offer itself.
	if err := offer.IncrementApplications(now); err != nil {
		return err
	}

	// Step 4: persist the counter.
	_, err = tx.Exec(ctx,
		`UPDATE offers SET current_applications = $2, updated_at = $3 WHERE id = $1`,
		offer.ID(), offer.CurrentApplications(), now,
	)
	if err != nil {
		return translate("increment applications", err)
	}

	// Step 5: record the application.
	s := app.Snapshot()
	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO offer_applications (offer_id, user_id, notes, status, application_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.OfferID, s.UserID, s.Notes, s.Status, s.ApplicationDate,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyApplied
		}
		return translate("insert application", err)
	}

	// Step 6: commit; both writes become visible together.
	if err := tx.Commit(ctx); err != nil {
		return translate("commit transaction", err)
	}
	app.SetID(id)
	return nil
}

// UpdateStatus persists a review or cancellation. The write only lands while
// the stored row is still pending, so two reviewers cannot both decide.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, app *model.OfferApplication) error {
	s := app.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE offer_applications
		 SET status = $2, reviewed_at = $3, review_notes = $4, reviewed_by_user_id = $5
		 WHERE id = $1 AND status = $6`,
		s.ID, s.Status, s.ReviewedAt, s.ReviewNotes, s.ReviewedByUserID, model.StatusPending,
	)
	if err != nil {
		return translate("update application status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update application %d: %w", s.ID, model.ErrApplicationNotPending)
	}
	return nil
}

// GetByID returns a single application or ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*model.OfferApplication, error) {
	a, err := scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM offer_applications a WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate("get application", err)
	}
	return a, nil
}

// ListByOffer returns all applications for a given offer.
func (r *ApplicationRepository) ListByOffer(ctx context.Context, offerID int64) ([]*model.OfferApplication, error) {
	return r.list(ctx, "list applications by offer",
		`SELECT `+applicationColumns+` FROM offer_applications a
		 WHERE a.offer_id = $1 ORDER BY a.application_date ASC, a.id ASC`, offerID)
}

// ListByUser returns a client's applications.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]*model.OfferApplication, error) {
	return r.list(ctx, "list applications by user",
		`SELECT `+applicationColumns+` FROM offer_applications a
		 WHERE a.user_id = $1 ORDER BY a.application_date DESC, a.id DESC`, userID)
}

// ListPending returns applications awaiting review, oldest first.
func (r *ApplicationRepository) ListPending(ctx context.Context) ([]*model.OfferApplication, error) {
	return r.list(ctx, "list pending applications",
		`SELECT `+applicationColumns+` FROM offer_applications a
		 WHERE a.status = $1 ORDER BY a.application_date ASC, a.id ASC`, model.StatusPending)
}

func (r *ApplicationRepository) list(ctx context.Context, op, sql string, args ...any) ([]*model.OfferApplication, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	apps := []*model.OfferApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		apps = append(apps, a)
	}
	return apps, translate(op, rows.Err())
}

func scanApplication(row pgx.Row) (*model.OfferApplication, error) {
	var s model.ApplicationSnapshot
	err := row.Scan(&s.ID, &s.OfferID, &s.UserID, &s.Notes, &s.Status, &s.ApplicationDate,
		&s.ReviewedAt, &s.ReviewNotes, &s.ReviewedByUserID)
	if err != nil {
		return nil, err
	}
	return model.RestoreOfferApplication(s), nil
}
