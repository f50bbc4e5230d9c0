package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/autolease/internal/cache"
	"github.com/Shivanand-hulikatti/autolease/internal/metrics"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

// CarService orchestrates car listing operations.
type CarService struct {
	cars   CarStore
	agents SalesAgentStore
	users  UserStore
	cache  CarCache
	clock  model.Clock
	log    *zap.Logger
}

// NewCarService constructs a CarService with its dependencies.
func NewCarService(cars CarStore, agents SalesAgentStore, users UserStore, c CarCache, clock model.Clock, log *zap.Logger) *CarService {
	return &CarService{cars: cars, agents: agents, users: users, cache: c, clock: clock, log: log.Named("cars")}
}

// CreateCar lists a new car. The VIN must be unused and the agent, when
// given, must exist.
func (s *CarService) CreateCar(ctx context.Context, req model.CarRequest) (*model.Car, error) {
	car, err := model.NewCar(req.Details(), req.VIN, req.SalesAgentID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	taken, err := s.cars.VINExists(ctx, car.VIN())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrVINTaken
	}
	if err := s.requireAgent(ctx, req.SalesAgentID); err != nil {
		return nil, err
	}
	if err := s.cars.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	s.log.Info("car created", zap.Int64("car_id", car.ID()), zap.String("vin", car.VIN()))
	return car, nil
}

// UpdateCar replaces a car's details, agent assignment and availability.
func (s *CarService) UpdateCar(ctx context.Context, id int64, req model.CarRequest) (*model.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := car.UpdateDetails(req.Details(), now); err != nil {
		return nil, err
	}
	if req.SalesAgentID != nil {
		if err := s.requireAgent(ctx, req.SalesAgentID); err != nil {
			return nil, err
		}
		if err := car.AssignSalesAgent(*req.SalesAgentID, now); err != nil {
			return nil, err
		}
	} else {
		car.UnassignSalesAgent(now)
	}
	if req.IsAvailable != nil && *req.IsAvailable != car.IsAvailable() {
		if *req.IsAvailable {
			car.MarkAsAvailable(now)
		} else {
			car.MarkAsSold("", now)
		}
	}
	if err := s.cars.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("update car %d: %w", id, err)
	}
	s.evict(ctx, id)
	return car, nil
}

// AssignOwner hands a car to an existing user and takes it off the market.
func (s *CarService) AssignOwner(ctx context.Context, id int64, ownerID string) (*model.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := car.AssignToOwner(ownerID, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.cars.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("assign owner to car %d: %w", id, err)
	}
	s.evict(ctx, id)
	return car, nil
}

// DeleteCar removes a car and evicts it from the cache.
func (s *CarService) DeleteCar(ctx context.Context, id int64) error {
	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	s.log.Info("car deleted", zap.Int64("car_id", id))
	return nil
}

// GetCar reads through the cache.
func (s *CarService) GetCar(ctx context.Context, id int64) (*model.Car, error) {
	car, err := s.cache.Get(ctx, id)
	if err == nil {
		metrics.ObserveCarCache(true)
		return car, nil
	}
	metrics.ObserveCarCache(false)
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("car cache read failed", zap.Int64("car_id", id), zap.Error(err))
	}

	car, err = s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, car); err != nil {
		s.log.Warn("car cache write failed", zap.Int64("car_id", id), zap.Error(err))
	}
	return car, nil
}

// SearchCars returns one page of matching cars.
func (s *CarService) SearchCars(ctx context.Context, f model.CarFilter) (model.PagedResult[model.CarView], error) {
	f.Page = f.Page.Normalize(model.DefaultCarPageSize)
	cars, total, err := s.cars.Search(ctx, f)
	if err != nil {
		return model.PagedResult[model.CarView]{}, err
	}
	return model.NewPagedResult(carViews(cars), total, f.Page), nil
}

// CarsByOwner returns the cars a client owns.
func (s *CarService) CarsByOwner(ctx context.Context, ownerID string) ([]model.CarView, error) {
	cars, err := s.cars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return carViews(cars), nil
}

func (s *CarService) requireAgent(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.agents.GetByID(ctx, *id); err != nil {
		return fmt.Errorf("sales agent %d: %w", *id, err)
	}
	return nil
}

func (s *CarService) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("car cache eviction failed", zap.Int64("car_id", id), zap.Error(err))
	}
}

func carViews(cars []*model.Car) []model.CarView {
	views := make([]model.CarView, len(cars))
	for i, c := range cars {
		views[i] = model.NewCarView(c)
	}
	return views
}
