package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/autolease/internal/events"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

// InterestService records clients asking to be called about a car.
type InterestService struct {
	interests InterestStore
	cars      CarStore
	publisher Publisher
	clock     model.Clock
	log       *zap.Logger
}

// NewInterestService constructs an InterestService with its dependencies.
func NewInterestService(interests InterestStore, cars CarStore, p Publisher, clock model.Clock, log *zap.Logger) *InterestService {
	return &InterestService{interests: interests, cars: cars, publisher: p, clock: clock, log: log.Named("interests")}
}

// Express records that userID wants a call about a car.
func (s *InterestService) Express(ctx context.Context, carID int64, userID string, req model.InterestRequest) (*model.CarInterest, error) {
	now := s.clock.Now()
	interest, err := model.NewCarInterest(carID, userID, req.PreferredCallTime, req.Notes, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return nil, fmt.Errorf("car %d: %w", carID, err)
	}
	if err := s.interests.Create(ctx, interest); err != nil {
		return nil, fmt.Errorf("record interest: %w", err)
	}
	s.log.Info("car interest recorded", zap.Int64("car_id", carID), zap.String("user_id", userID))
	publish(ctx, s.publisher, s.log, events.CarInterestCreatedSubject, events.CarInterestEvent{
		InterestID:        interest.ID(),
		CarID:             carID,
		UserID:            userID,
		PreferredCallTime: req.PreferredCallTime,
		OccurredAt:        now,
	})
	return interest, nil
}

// ByCar returns the interest shown in an existing car.
func (s *InterestService) ByCar(ctx context.Context, carID int64) ([]model.InterestView, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return nil, err
	}
	return s.interests.ListByCar(ctx, carID)
}

// ByUser returns a client's interests.
func (s *InterestService) ByUser(ctx context.Context, userID string) ([]model.InterestView, error) {
	return s.interests.ListByUser(ctx, userID)
}

// Recent returns the latest interests within the filter window.
func (s *InterestService) Recent(ctx context.Context, f model.InterestFilter) ([]model.InterestView, error) {
	return s.interests.ListRecent(ctx, f.Normalize(), s.clock.Now())
}
