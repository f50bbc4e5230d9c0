// Package events publishes marketplace domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	ApplicationSubmittedSubject = "offer.application.submitted"
	ApplicationApprovedSubject  = "offer.application.approved"
	ApplicationRejectedSubject  = "offer.application.rejected"
	ApplicationCancelledSubject = "offer.application.cancelled"
	OfferCreatedSubject         = "offer.created"
	CarInterestCreatedSubject   = "car.interest.created"
)

// ApplicationEvent is the payload of every offer.application.* subject.
type ApplicationEvent struct {
	ApplicationID int64                   `json:"applicationId"`
	OfferID       int64                   `json:"offerId"`
	UserID        string                  `json:"userId"`
	Status        model.ApplicationStatus `json:"status"`
	ReviewerID    *string                 `json:"reviewerId,omitempty"`
	OccurredAt    time.Time               `json:"occurredAt"`
}

// NewApplicationEvent describes a's current state at time at.
func NewApplicationEvent(a *model.OfferApplication, at time.Time) ApplicationEvent {
	s := a.Snapshot()
	return ApplicationEvent{
		ApplicationID: s.ID,
		OfferID:       s.OfferID,
		UserID:        s.UserID,
		Status:        s.Status,
		ReviewerID:    s.ReviewedByUserID,
		OccurredAt:    at,
	}
}

// ApplicationSubject maps a status onto its event subject.
func ApplicationSubject(s model.ApplicationStatus) string {
	switch s {
	case model.StatusApproved:
		return ApplicationApprovedSubject
	case model.StatusRejected:
		return ApplicationRejectedSubject
	case model.StatusCancelled:
		return ApplicationCancelledSubject
	default:
		return ApplicationSubmittedSubject
	}
}

// OfferCreatedEvent is published on OfferCreatedSubject.
type OfferCreatedEvent struct {
	OfferID         int64     `json:"offerId"`
	CarID           int64     `json:"carId"`
	Title           string    `json:"title"`
	DiscountLabel   string    `json:"discountLabel"`
	MaxApplications int       `json:"maxApplications"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// CarInterestEvent is published on CarInterestCreatedSubject.
type CarInterestEvent struct {
	InterestID        int64     `json:"interestId"`
	CarID             int64     `json:"carId"`
	UserID            string    `json:"userId"`
	PreferredCallTime time.Time `json:"preferredCallTime"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// Publisher is a NATS-backed event publisher.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("autolease"),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info("connected to nats", zap.String("url", nc.ConnectedUrl()))
	return &Publisher{nc: nc, logger: logger}, nil
}

// Publish sends payload as JSON on subject.
func (p *Publisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("published event", zap.String("subject", subject))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
}

// Noop discards every event. It is used when NATS is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
