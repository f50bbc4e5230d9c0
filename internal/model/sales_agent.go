package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var maxCommissionRate = decimal.NewFromInt(50)

// AgentProfile is the contact information of a sales agent.
type AgentProfile struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Department  string
}

// SalesAgent is a staff member who lists cars and reviews applications.
type SalesAgent struct {
	id             int64
	profile        AgentProfile
	commissionRate decimal.Decimal
	biography      string
	hireDate       time.Time
	isActive       bool
	userID         *string
	createdAt      time.Time
	updatedAt      *time.Time
}

// SalesAgentSnapshot is the persisted shape of a SalesAgent.
type SalesAgentSnapshot struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	PhoneNumber    string          `json:"phoneNumber"`
	Department     string          `json:"department"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Biography      string          `json:"biography"`
	HireDate       time.Time       `json:"hireDate"`
	IsActive       bool            `json:"isActive"`
	UserID         *string         `json:"userId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// NewSalesAgent validates and builds an active agent hired at now.
func NewSalesAgent(p AgentProfile, commissionRate decimal.Decimal, userID *string, biography string, now time.Time) (*SalesAgent, error) {
	if err := validateAgentProfile(p); err != nil {
		return nil, err
	}
	if err := validateCommissionRate(commissionRate); err != nil {
		return nil, err
	}
	if userID != nil && strings.TrimSpace(*userID) == "" {
		userID = nil
	}
	return &SalesAgent{
		profile:        p,
		commissionRate: commissionRate,
		biography:      biography,
		hireDate:       now.UTC(),
		isActive:       true,
		userID:         userID,
		createdAt:      now.UTC(),
	}, nil
}

// RestoreSalesAgent rehydrates a persisted agent.
func RestoreSalesAgent(s SalesAgentSnapshot) *SalesAgent {
	return &SalesAgent{
		id: s.ID,
		profile: AgentProfile{
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			Email:       s.Email,
			PhoneNumber: s.PhoneNumber,
			Department:  s.Department,
		},
		commissionRate: s.CommissionRate,
		biography:      s.Biography,
		hireDate:       s.HireDate,
		isActive:       s.IsActive,
		userID:         s.UserID,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

// Snapshot returns the agent's persisted shape.
func (a *SalesAgent) Snapshot() SalesAgentSnapshot {
	return SalesAgentSnapshot{
		ID:             a.id,
		FirstName:      a.profile.FirstName,
		LastName:       a.profile.LastName,
		Email:          a.profile.Email,
		PhoneNumber:    a.profile.PhoneNumber,
		Department:     a.profile.Department,
		CommissionRate: a.commissionRate,
		Biography:      a.biography,
		HireDate:       a.hireDate,
		IsActive:       a.isActive,
		UserID:         a.userID,
		CreatedAt:      a.createdAt,
		UpdatedAt:      a.updatedAt,
	}
}

// Accessors.
func (a *SalesAgent) ID() int64                       { return a.id }
func (a *SalesAgent) SetID(id int64)                  { a.id = id }
func (a *SalesAgent) Profile() AgentProfile           { return a.profile }
func (a *SalesAgent) Email() string                   { return a.profile.Email }
func (a *SalesAgent) CommissionRate() decimal.Decimal { return a.commissionRate }
func (a *SalesAgent) IsActive() bool                  { return a.isActive }
func (a *SalesAgent) UserID() *string                 { return a.userID }

// FullName joins the first and last name.
func (a *SalesAgent) FullName() string {
	return a.profile.FirstName + " " + a.profile.LastName
}

// UpdateProfile changes contact details only.
func (a *SalesAgent) UpdateProfile(p AgentProfile, now time.Time) error {
	if err := validateAgentProfile(p); err != nil {
		return err
	}
	a.profile = p
	a.touch(now)
	return nil
}

// UpdateDetails changes contact details, commission and biography together.
func (a *SalesAgent) UpdateDetails(p AgentProfile, commissionRate decimal.Decimal, biography string, now time.Time) error {
	if err := validateAgentProfile(p); err != nil {
		return err
	}
	if err := validateCommissionRate(commissionRate); err != nil {
		return err
	}
	a.profile = p
	a.commissionRate = commissionRate
	a.biography = biography
	a.touch(now)
	return nil
}

// UpdateCommissionRate sets a new rate between 0 and 50 percent.
func (a *SalesAgent) UpdateCommissionRate(rate decimal.Decimal, now time.Time) error {
	if err := validateCommissionRate(rate); err != nil {
		return err
	}
	a.commissionRate = rate
	a.touch(now)
	return nil
}

// Activate and Deactivate toggle whether the agent is taking clients.
func (a *SalesAgent) Activate(now time.Time) {
	a.isActive = true
	a.touch(now)
}

func (a *SalesAgent) Deactivate(now time.Time) {
	a.isActive = false
	a.touch(now)
}

// AssignUser links the agent to a login account.
func (a *SalesAgent) AssignUser(userID string, now time.Time) error {
	if err := validateUserID("userId", userID); err != nil {
		return err
	}
	a.userID = &userID
	a.touch(now)
	return nil
}

// UnassignUser removes the login account link.
func (a *SalesAgent) UnassignUser(now time.Time) {
	a.userID = nil
	a.touch(now)
}

// CalculateCommission returns saleAmount × rate / 100.
func (a *SalesAgent) CalculateCommission(saleAmount decimal.Decimal) (decimal.Decimal, error) {
	if err := positive("saleAmount", saleAmount); err != nil {
		return decimal.Zero, err
	}
	return saleAmount.Mul(a.commissionRate).Div(hundred), nil
}

func (a *SalesAgent) touch(now time.Time) {
	t := now.UTC()
	a.updatedAt = &t
}

func validateAgentProfile(p AgentProfile) error {
	if err := validateName("firstName", p.FirstName); err != nil {
		return err
	}
	if err := validateName("lastName", p.LastName); err != nil {
		return err
	}
	if err := validateEmail(p.Email, 100); err != nil {
		return err
	}
	if err := validatePhone(p.PhoneNumber); err != nil {
		return err
	}
	return requireText("department", p.Department, 50)
}

func validateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return invalid("commissionRate", "cannot be negative")
	}
	if rate.GreaterThan(maxCommissionRate) {
		return invalid("commissionRate", "cannot exceed 50%%")
	}
	if !cents(rate) {
		return invalid("commissionRate", "cannot have more than 2 decimal places")
	}
	return nil
}
