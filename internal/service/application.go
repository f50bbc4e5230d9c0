package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/autolease/internal/events"
	"github.com/Shivanand-hulikatti/autolease/internal/metrics"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

// ApplicationService runs the offer application workflow.
type ApplicationService struct {
	apps      ApplicationStore
	offers    OfferStore
	publisher Publisher
	clock     model.Clock
	log       *zap.Logger
}

// NewApplicationService constructs an ApplicationService with its dependencies.
func NewApplicationService(apps ApplicationStore, offers OfferStore, p Publisher, clock model.Clock, log *zap.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, offers: offers, publisher: p, clock: clock, log: log.Named("applications")}
}

// Submit applies userID to an offer. The slot is taken and the application
// stored atomically; a lost serialization race is retried once.
func (s *ApplicationService) Submit(ctx context.Context, offerID int64, userID, notes string) (*model.OfferApplication, error) {
	now := s.clock.Now()
	app, err := model.NewOfferApplication(offerID, userID, notes, now)
	if err != nil {
		return nil, err
	}

	err = s.apps.Submit(ctx, app, now)
	if errors.Is(err, model.ErrConcurrentUpdate) {
		s.log.Debug("retrying application submit", zap.Int64("offer_id", offerID))
		err = s.apps.Submit(ctx, app, s.clock.Now())
	}
	if err != nil {
		metrics.ObserveApplication("submit", resultOf(err))
		return nil, fmt.Errorf("submit application to offer %d: %w", offerID, err)
	}
	metrics.ObserveApplication("submit", "ok")
	s.log.Info("application submitted",
		zap.Int64("application_id", app.ID()),
		zap.Int64("offer_id", offerID),
		zap.String("user_id", userID),
	)
	publish(ctx, s.publisher, s.log, events.ApplicationSubmittedSubject, events.NewApplicationEvent(app, now))
	return app, nil
}

// Review approves or rejects a pending application. Only sales agents review.
func (s *ApplicationService) Review(ctx context.Context, id int64, reviewer Actor, d model.Decision, notes *string) (*model.OfferApplication, error) {
	if !reviewer.IsSalesAgent() {
		return nil, fmt.Errorf("%w: only sales agents can review applications", model.ErrForbidden)
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := app.Decide(d, reviewer.UserID, notes, now); err != nil {
		return nil, err
	}
	if err := s.apps.UpdateStatus(ctx, app); err != nil {
		metrics.ObserveApplication("review", resultOf(err))
		return nil, err
	}
	metrics.ObserveApplication("review", string(app.Status()))
	s.log.Info("application reviewed",
		zap.Int64("application_id", id),
		zap.String("status", string(app.Status())),
		zap.String("reviewer_id", reviewer.UserID),
	)
	publish(ctx, s.publisher, s.log, events.ApplicationSubject(app.Status()), events.NewApplicationEvent(app, now))
	return app, nil
}

// Cancel withdraws the caller's own pending application. The offer slot
// stays taken.
func (s *ApplicationService) Cancel(ctx context.Context, id int64, caller Actor) (*model.OfferApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID() != caller.UserID {
		return nil, fmt.Errorf("%w: only the applicant can cancel", model.ErrForbidden)
	}
	now := s.clock.Now()
	if err := app.Cancel(now); err != nil {
		return nil, err
	}
	if err := s.apps.UpdateStatus(ctx, app); err != nil {
		metrics.ObserveApplication("cancel", resultOf(err))
		return nil, err
	}
	metrics.ObserveApplication("cancel", "ok")
	publish(ctx, s.publisher, s.log, events.ApplicationCancelledSubject, events.NewApplicationEvent(app, now))
	return app, nil
}

// Get returns an application to its applicant or to any sales agent.
func (s *ApplicationService) Get(ctx context.Context, id int64, caller Actor) (*model.OfferApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID() != caller.UserID && !caller.IsSalesAgent() {
		return nil, fmt.Errorf("%w: application belongs to another user", model.ErrForbidden)
	}
	return app, nil
}

// ByOffer returns all applications for an existing offer.
func (s *ApplicationService) ByOffer(ctx context.Context, offerID int64) ([]*model.OfferApplication, error) {
	if _, err := s.offers.GetByID(ctx, offerID); err != nil {
		return nil, err
	}
	return s.apps.ListByOffer(ctx, offerID)
}

// ByUser returns a client's applications.
func (s *ApplicationService) ByUser(ctx context.Context, userID string) ([]*model.OfferApplication, error) {
	return s.apps.ListByUser(ctx, userID)
}

// Pending returns applications awaiting review.
func (s *ApplicationService) Pending(ctx context.Context) ([]*model.OfferApplication, error) {
	return s.apps.ListPending(ctx)
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "invalid"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.Is(err, model.ErrInvalidState):
		return "rejected"
	default:
		return "error"
	}
}
