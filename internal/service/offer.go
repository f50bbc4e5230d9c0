package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/autolease/internal/events"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

// OfferService orchestrates the offer lifecycle.
type OfferService struct {
	offers    OfferStore
	cars      CarStore
	agents    SalesAgentStore
	publisher Publisher
	clock     model.Clock
	log       *zap.Logger
}

// NewOfferService constructs an OfferService with its dependencies.
func NewOfferService(offers OfferStore, cars CarStore, agents SalesAgentStore, p Publisher, clock model.Clock, log *zap.Logger) *OfferService {
	return &OfferService{offers: offers, cars: cars, agents: agents, publisher: p, clock: clock, log: log.Named("offers")}
}

// CreateOffer opens a discount on an available car.
func (s *OfferService) CreateOffer(ctx context.Context, req model.OfferRequest) (*model.OfferView, error) {
	now := s.clock.Now()
	offer, err := model.NewOffer(req.Params(), now)
	if err != nil {
		return nil, err
	}
	car, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, fmt.Errorf("car %d: %w", req.CarID, err)
	}
	if !car.IsAvailable() {
		return nil, model.ErrCarUnavailable
	}
	if err := s.requireAgent(ctx, req.SalesAgentID); err != nil {
		return nil, err
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	s.log.Info("offer created", zap.Int64("offer_id", offer.ID()), zap.Int64("car_id", offer.CarID()))

	publish(ctx, s.publisher, s.log, events.OfferCreatedSubject, events.OfferCreatedEvent{
		OfferID:         offer.ID(),
		CarID:           offer.CarID(),
		Title:           offer.Params().Title,
		DiscountLabel:   offer.DiscountLabel(),
		MaxApplications: offer.MaxApplications(),
		OccurredAt:      now,
	})
	view := model.NewOfferView(offer, now)
	return &view, nil
}

// UpdateOffer replaces an offer's terms. The new cap is checked against the
// application count held under the row lock.
func (s *OfferService) UpdateOffer(ctx context.Context, id int64, req model.OfferRequest) (*model.OfferView, error) {
	if _, err := s.cars.GetByID(ctx, req.CarID); err != nil {
		return nil, fmt.Errorf("car %d: %w", req.CarID, err)
	}
	if err := s.requireAgent(ctx, req.SalesAgentID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	offer, err := s.offers.Modify(ctx, id, func(o *model.Offer) error {
		return o.Update(req.Params(), now)
	})
	if err != nil {
		return nil, fmt.Errorf("update offer %d: %w", id, err)
	}
	view := model.NewOfferView(offer, now)
	return &view, nil
}

// ActivateOffer reopens an offer for applications.
func (s *OfferService) ActivateOffer(ctx context.Context, id int64) (*model.OfferView, error) {
	return s.toggle(ctx, id, true)
}

// DeactivateOffer closes an offer without deleting it.
func (s *OfferService) DeactivateOffer(ctx context.Context, id int64) (*model.OfferView, error) {
	return s.toggle(ctx, id, false)
}

func (s *OfferService) toggle(ctx context.Context, id int64, active bool) (*model.OfferView, error) {
	now := s.clock.Now()
	offer, err := s.offers.Modify(ctx, id, func(o *model.Offer) error {
		if active {
			o.Activate(now)
		} else {
			o.Deactivate(now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle offer %d: %w", id, err)
	}
	s.log.Info("offer toggled", zap.Int64("offer_id", id), zap.Bool("active", active))
	view := model.NewOfferView(offer, now)
	return &view, nil
}

// DeleteOffer removes an offer.
func (s *OfferService) DeleteOffer(ctx context.Context, id int64) error {
	return s.offers.Delete(ctx, id)
}

// GetOffer returns a single offer by ID.
func (s *OfferService) GetOffer(ctx context.Context, id int64) (*model.OfferView, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := model.NewOfferView(offer, s.clock.Now())
	return &view, nil
}

// OffersByCar returns every offer on an existing car.
func (s *OfferService) OffersByCar(ctx context.Context, carID int64) ([]model.OfferView, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return nil, err
	}
	offers, err := s.offers.ListByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	return s.views(offers), nil
}

// OffersBySalesAgent returns the offers an agent manages.
func (s *OfferService) OffersBySalesAgent(ctx context.Context, agentID int64) ([]model.OfferView, error) {
	offers, err := s.offers.ListBySalesAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return s.views(offers), nil
}

// ActiveOffers lists offers open right now, best discount first.
func (s *OfferService) ActiveOffers(ctx context.Context) ([]model.OfferView, error) {
	offers, err := s.offers.ListActive(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.views(offers), nil
}

// SearchOffers returns one page of matching offers.
func (s *OfferService) SearchOffers(ctx context.Context, f model.OfferFilter) (model.PagedResult[model.OfferView], error) {
	f.Page = f.Page.Normalize(model.DefaultOfferPageSize)
	offers, total, err := s.offers.Search(ctx, f, s.clock.Now())
	if err != nil {
		return model.PagedResult[model.OfferView]{}, err
	}
	return model.NewPagedResult(s.views(offers), total, f.Page), nil
}

func (s *OfferService) requireAgent(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.agents.GetByID(ctx, *id); err != nil {
		return fmt.Errorf("sales agent %d: %w", *id, err)
	}
	return nil
}

func (s *OfferService) views(offers []*model.Offer) []model.OfferView {
	now := s.clock.Now()
	views := make([]model.OfferView, len(offers))
	for i, o := range offers {
		views[i] = model.NewOfferView(o, now)
	}
	return views
}
