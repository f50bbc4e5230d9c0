package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesAgentService manages sales agent records.
type SalesAgentService struct {
	agents SalesAgentStore
	users  UserStore
	cars   CarStore
	clock  model.Clock
	log    *zap.Logger
}

// NewSalesAgentService constructs a SalesAgentService with its dependencies.
func NewSalesAgentService(agents SalesAgentStore, users UserStore, cars CarStore, clock model.Clock, log *zap.Logger) *SalesAgentService {
	return &SalesAgentService{agents: agents, users: users, cars: cars, clock: clock, log: log.Named("agents")}
}

// CreateAgent hires an agent. Email and linked user must be unused.
func (s *SalesAgentService) CreateAgent(ctx context.Context, req model.SalesAgentRequest) (*model.SalesAgent, error) {
	userID := linkedUser(req.UserID)
	agent, err := model.NewSalesAgent(req.Profile(), req.CommissionRate, userID, req.Biography, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, agent.Email(), userID, 0); err != nil {
		return nil, err
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("create sales agent: %w", err)
	}
	s.log.Info("sales agent created", zap.Int64("agent_id", agent.ID()))
	return agent, nil
}

// UpdateAgent replaces an agent's details, user link and active flag.
func (s *SalesAgentService) UpdateAgent(ctx context.Context, id int64, req model.SalesAgentRequest) (*model.SalesAgent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := agent.UpdateDetails(req.Profile(), req.CommissionRate, req.Biography, now); err != nil {
		return nil, err
	}
	userID := linkedUser(req.UserID)
	if err := s.checkUnique(ctx, agent.Email(), userID, id); err != nil {
		return nil, err
	}
	if userID != nil {
		if err := agent.AssignUser(*userID, now); err != nil {
			return nil, err
		}
	} else {
		agent.UnassignUser(now)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			agent.Activate(now)
		} else {
			agent.Deactivate(now)
		}
	}
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("update sales agent %d: %w", id, err)
	}
	return agent, nil
}

// UpdateCommission sets an agent's commission rate.
func (s *SalesAgentService) UpdateCommission(ctx context.Context, id int64, rate decimal.Decimal) (*model.SalesAgent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := agent.UpdateCommissionRate(rate, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("update commission %d: %w", id, err)
	}
	return agent, nil
}

// SetActive activates or deactivates an agent.
func (s *SalesAgentService) SetActive(ctx context.Context, id int64, active bool) (*model.SalesAgent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		agent.Activate(s.clock.Now())
	} else {
		agent.Deactivate(s.clock.Now())
	}
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("set agent %d active: %w", id, err)
	}
	return agent, nil
}

// DeleteAgent removes an agent.
func (s *SalesAgentService) DeleteAgent(ctx context.Context, id int64) error {
	return s.agents.Delete(ctx, id)
}

// GetAgent returns a single agent by ID.
func (s *SalesAgentService) GetAgent(ctx context.Context, id int64) (*model.SalesAgent, error) {
	return s.agents.GetByID(ctx, id)
}

// AgentForUser returns the agent record linked to a user account.
func (s *SalesAgentService) AgentForUser(ctx context.Context, userID string) (*model.SalesAgent, error) {
	return s.agents.GetByUserID(ctx, userID)
}

// SearchAgents returns one page of agents with their car counts.
func (s *SalesAgentService) SearchAgents(ctx context.Context, f model.SalesAgentFilter) (model.PagedResult[model.AgentWithCars], error) {
	f.Page = f.Page.Normalize(model.DefaultAgentPageSize)
	agents, total, err := s.agents.Search(ctx, f)
	if err != nil {
		return model.PagedResult[model.AgentWithCars]{}, err
	}
	return model.NewPagedResult(agents, total, f.Page), nil
}

// AssignedCars lists the cars an agent is responsible for.
func (s *SalesAgentService) AssignedCars(ctx context.Context, id int64) ([]model.CarView, error) {
	if _, err := s.agents.GetByID(ctx, id); err != nil {
		return nil, err
	}
	cars, err := s.cars.ListBySalesAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	return carViews(cars), nil
}

// Commission computes what an agent earns on saleAmount.
func (s *SalesAgentService) Commission(ctx context.Context, id int64, saleAmount decimal.Decimal) (*model.CommissionResponse, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := agent.CalculateCommission(saleAmount)
	if err != nil {
		return nil, err
	}
	return &model.CommissionResponse{
		SalesAgentID:   id,
		SaleAmount:     saleAmount,
		CommissionRate: agent.CommissionRate(),
		Commission:     c,
	}, nil
}

// checkUnique enforces one agent per email and per linked user. The linked
// user must exist.
func (s *SalesAgentService) checkUnique(ctx context.Context, email string, userID *string, excludeID int64) error {
	taken, err := s.agents.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return model.ErrEmailTaken
	}
	if userID == nil {
		return nil
	}
	if _, err := s.users.GetByID(ctx, *userID); err != nil {
		return fmt.Errorf("user %s: %w", *userID, err)
	}
	linked, err := s.agents.UserIDExists(ctx, *userID, excludeID)
	if err != nil {
		return err
	}
	if linked {
		return model.ErrUserAlreadyLinked
	}
	return nil
}

func linkedUser(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	return id
}
