// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/metrics"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   model.Role
}

// IsSalesAgent reports whether the caller acts as a sales agent.
func (a Actor) IsSalesAgent() bool { return a.Role == model.RoleSalesAgent }

// CarStore persists cars.
type CarStore interface {
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	Search(ctx context.Context, f model.CarFilter) ([]*model.Car, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Car, error)
	ListBySalesAgent(ctx context.Context, agentID int64) ([]*model.Car, error)
	VINExists(ctx context.Context, vin string) (bool, error)
}

// CarCache holds car read models between requests.
type CarCache interface {
	Get(ctx context.Context, id int64) (*model.Car, error)
	Set(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
}

// OfferStore persists offers. Modify runs change under the offer's row lock.
type OfferStore interface {
	Create(ctx context.Context, o *model.Offer) error
	Modify(ctx context.Context, id int64, change func(*model.Offer) error) (*model.Offer, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Offer, error)
	ListByCar(ctx context.Context, carID int64) ([]*model.Offer, error)
	ListBySalesAgent(ctx context.Context, agentID int64) ([]*model.Offer, error)
	ListActive(ctx context.Context, now time.Time) ([]*model.Offer, error)
	Search(ctx context.Context, f model.OfferFilter, now time.Time) ([]*model.Offer, int, error)
}

// ApplicationStore persists applications. Submit takes the offer slot and stores the application atomically.
type ApplicationStore interface {
	Submit(ctx context.Context, app *model.OfferApplication, now time.Time) error
	UpdateStatus(ctx context.Context, app *model.OfferApplication) error
	GetByID(ctx context.Context, id int64) (*model.OfferApplication, error)
	ListByOffer(ctx context.Context, offerID int64) ([]*model.OfferApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*model.OfferApplication, error)
	ListPending(ctx context.Context) ([]*model.OfferApplication, error)
}

// SalesAgentStore persists sales agents.
type SalesAgentStore interface {
	Create(ctx context.Context, a *model.SalesAgent) error
	Update(ctx context.Context, a *model.SalesAgent) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.SalesAgent, error)
	GetByUserID(ctx context.Context, userID string) (*model.SalesAgent, error)
	Search(ctx context.Context, f model.SalesAgentFilter) ([]model.AgentWithCars, int, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UserIDExists(ctx context.Context, userID string, excludeID int64) (bool, error)
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

// InterestStore persists car interests.
type InterestStore interface {
	Create(ctx context.Context, i *model.CarInterest) error
	ListByCar(ctx context.Context, carID int64) ([]model.InterestView, error)
	ListByUser(ctx context.Context, userID string) ([]model.InterestView, error)
	ListRecent(ctx context.Context, f model.InterestFilter, now time.Time) ([]model.InterestView, error)
}

// Publisher delivers domain events.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// publish sends an event without failing the caller; delivery problems are
// logged and counted.
func publish(ctx context.Context, p Publisher, log *zap.Logger, subject string, payload any) {
	if err := p.Publish(ctx, subject, payload); err != nil {
		metrics.ObservePublishFailure(subject)
		log.Warn("publish event failed", zap.String("subject", subject), zap.Error(err))
	}
}
