// Package model defines the core domain types for the car leasing marketplace:
// self-validating entities, the error taxonomy, and the request and response
// payloads exchanged with clients.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarRequest is the payload for creating or updating a car.
type CarRequest struct {
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Color        string          `json:"color"`
	VIN          string          `json:"vinNumber"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"imageUrl"`
	SalesAgentID *int64          `json:"salesAgentId"`
	IsAvailable  *bool           `json:"isAvailable"`
}

// Details returns the editable car attributes carried by the request.
func (r CarRequest) Details() CarDetails {
	return CarDetails{
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Color:       r.Color,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// OfferRequest is the payload for creating or updating an offer.
type OfferRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Terms           string          `json:"terms"`
	MaxApplications int             `json:"maxApplications"`
	CarID           int64           `json:"carId"`
	SalesAgentID    *int64          `json:"salesAgentId"`
}

// Params returns the offer terms carried by the request.
func (r OfferRequest) Params() OfferParams {
	return OfferParams{
		Title:           r.Title,
		Description:     r.Description,
		OriginalPrice:   r.OriginalPrice,
		DiscountedPrice: r.DiscountedPrice,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Terms:           r.Terms,
		MaxApplications: r.MaxApplications,
		CarID:           r.CarID,
		SalesAgentID:    r.SalesAgentID,
	}
}

// ApplyRequest is the payload for applying to an offer.
type ApplyRequest struct {
	Notes string `json:"notes"`
}

// ReviewRequest is the payload for approving or rejecting an application.
type ReviewRequest struct {
	Notes *string `json:"notes"`
}

// SalesAgentRequest is the payload for creating or updating a sales agent.
type SalesAgentRequest struct {
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	PhoneNumber    string          `json:"phoneNumber"`
	Department     string          `json:"department"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Biography      string          `json:"biography"`
	UserID         *string         `json:"userId"`
	IsActive       *bool           `json:"isActive"`
}

// Profile returns the agent profile carried by the request.
func (r SalesAgentRequest) Profile() AgentProfile {
	return AgentProfile{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Department:  r.Department,
	}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest is the body of PUT /users/me.
type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OwnerRequest hands a car to a user.
type OwnerRequest struct {
	OwnerID string `json:"ownerId"`
}

// CommissionRateRequest is the body of PUT /agents/{id}/commission.
type CommissionRateRequest struct {
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

// InterestRequest is the payload for asking to be called about a car.
type InterestRequest struct {
	PreferredCallTime time.Time `json:"preferredCallTime"`
	Notes             *string   `json:"notes"`
}

// AuthResponse carries an issued access token.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserSnapshot `json:"user"`
}

// CarView is a car as shown to clients.
type CarView struct {
	CarSnapshot
	DisplayName string `json:"displayName"`
}

// NewCarView builds the listing shape of c.
func NewCarView(c *Car) CarView {
	return CarView{CarSnapshot: c.Snapshot(), DisplayName: c.DisplayName()}
}

// OfferView is an offer with the figures listings display.
type OfferView struct {
	OfferSnapshot
	DiscountLabel  string          `json:"discountLabel"`
	Savings        decimal.Decimal `json:"savings"`
	RemainingSlots int             `json:"remainingSlots"`
	StatusBadge    string          `json:"statusBadge"`
	CanApply       bool            `json:"canApply"`
}

// NewOfferView builds the listing shape of o, with derived fields evaluated at now.
func NewOfferView(o *Offer, now time.Time) OfferView {
	return OfferView{
		OfferSnapshot:  o.Snapshot(),
		DiscountLabel:  o.DiscountLabel(),
		Savings:        o.Savings(),
		RemainingSlots: o.RemainingSlots(),
		StatusBadge:    o.StatusBadge(now),
		CanApply:       o.CanApply(now),
	}
}

// CommissionResponse is the result of a commission calculation.
type CommissionResponse struct {
	SalesAgentID   int64           `json:"salesAgentId"`
	SaleAmount     decimal.Decimal `json:"saleAmount"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Commission     decimal.Decimal `json:"commission"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
