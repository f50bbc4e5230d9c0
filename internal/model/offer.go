package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	maxOfferPrice = decimal.RequireFromString("999999.99")
)

// Offer status badges.
const (
	BadgeInactive   = "Inactive"
	BadgeExpired    = "Expired"
	BadgeComingSoon = "Coming Soon"
	BadgeSoldOut    = "Sold Out"
	BadgeActive     = "Active"
)

// OfferParams are the caller-supplied attributes of an offer.
type OfferParams struct {
	Title           string
	Description     string
	OriginalPrice   decimal.Decimal
	DiscountedPrice decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	Terms           string
	MaxApplications int
	CarID           int64
	SalesAgentID    *int64
}

// Offer is a time-boxed discount on a car with a cap on applications.
type Offer struct {
	id                  int64
	params              OfferParams
	discountPercentage  decimal.Decimal
	isActive            bool
	currentApplications int
	createdAt           time.Time
	updatedAt           *time.Time
}

// OfferSnapshot is the persisted shape of an Offer.
type OfferSnapshot struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	OriginalPrice       decimal.Decimal `json:"originalPrice"`
	DiscountedPrice     decimal.Decimal `json:"discountedPrice"`
	DiscountPercentage  decimal.Decimal `json:"discountPercentage"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	IsActive            bool            `json:"isActive"`
	Terms               string          `json:"terms"`
	MaxApplications     int             `json:"maxApplications"`
	CurrentApplications int             `json:"currentApplications"`
	CarID               int64           `json:"carId"`
	SalesAgentID        *int64          `json:"salesAgentId,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
}

// NewOffer validates p and builds an active offer with no applications.
func NewOffer(p OfferParams, now time.Time) (*Offer, error) {
	if err := validateOfferParams(p, now); err != nil {
		return nil, err
	}
	return &Offer{
		params:             normalizeOfferParams(p),
		discountPercentage: discountOf(p.OriginalPrice, p.DiscountedPrice),
		isActive:           true,
		createdAt:          now.UTC(),
	}, nil
}

// RestoreOffer rehydrates a persisted offer without re-running creation rules.
func RestoreOffer(s OfferSnapshot) *Offer {
	return &Offer{
		id: s.ID,
		params: OfferParams{
			Title:           s.Title,
			Description:     s.Description,
			OriginalPrice:   s.OriginalPrice,
			DiscountedPrice: s.DiscountedPrice,
			StartDate:       s.StartDate,
			EndDate:         s.EndDate,
			Terms:           s.Terms,
			MaxApplications: s.MaxApplications,
			CarID:           s.CarID,
			SalesAgentID:    s.SalesAgentID,
		},
		discountPercentage:  s.DiscountPercentage,
		isActive:            s.IsActive,
		currentApplications: s.CurrentApplications,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}

// Snapshot returns the offer's persisted shape.
func (o *Offer) Snapshot() OfferSnapshot {
	return OfferSnapshot{
		ID:                  o.id,
		Title:               o.params.Title,
		Description:         o.params.Description,
		OriginalPrice:       o.params.OriginalPrice,
		DiscountedPrice:     o.params.DiscountedPrice,
		DiscountPercentage:  o.discountPercentage,
		StartDate:           o.params.StartDate,
		EndDate:             o.params.EndDate,
		IsActive:            o.isActive,
		Terms:               o.params.Terms,
		MaxApplications:     o.params.MaxApplications,
		CurrentApplications: o.currentApplications,
		CarID:               o.params.CarID,
		SalesAgentID:        o.params.SalesAgentID,
		CreatedAt:           o.createdAt,
		UpdatedAt:           o.updatedAt,
	}
}

// Accessors.
func (o *Offer) ID() int64                           { return o.id }
func (o *Offer) SetID(id int64)                      { o.id = id }
func (o *Offer) Params() OfferParams                 { return o.params }
func (o *Offer) CarID() int64                        { return o.params.CarID }
func (o *Offer) SalesAgentID() *int64                { return o.params.SalesAgentID }
func (o *Offer) DiscountPercentage() decimal.Decimal { return o.discountPercentage }
func (o *Offer) IsActive() bool                      { return o.isActive }
func (o *Offer) CurrentApplications() int            { return o.currentApplications }
func (o *Offer) MaxApplications() int                { return o.params.MaxApplications }
func (o *Offer) StartDate() time.Time                { return o.params.StartDate }
func (o *Offer) EndDate() time.Time                  { return o.params.EndDate }

// Update replaces the editable attributes under the creation rules. The
// application cap can never fall below the applications already taken.
func (o *Offer) Update(p OfferParams, now time.Time) error {
	if err := validateOfferParams(p, now); err != nil {
		return err
	}
	if p.MaxApplications < o.currentApplications {
		return invalid("maxApplications", "cannot be lower than the %d applications already received", o.currentApplications)
	}
	o.params = normalizeOfferParams(p)
	o.discountPercentage = discountOf(p.OriginalPrice, p.DiscountedPrice)
	o.touch(now)
	return nil
}

// Activate reopens the offer for applications.
func (o *Offer) Activate(now time.Time) {
	o.isActive = true
	o.touch(now)
}

// Deactivate closes the offer without touching its counter.
func (o *Offer) Deactivate(now time.Time) {
	o.isActive = false
	o.touch(now)
}

// CanApply reports whether the offer accepts an application at now.
func (o *Offer) CanApply(now time.Time) bool {
	return o.isActive &&
		!now.Before(o.params.StartDate) &&
		!now.After(o.params.EndDate) &&
		o.currentApplications < o.params.MaxApplications
}

// IncrementApplications takes one slot. It is the only way the counter moves.
func (o *Offer) IncrementApplications(now time.Time) error {
	if !o.CanApply(now) {
		return ErrOfferClosed
	}
	o.currentApplications++
	o.touch(now)
	return nil
}

// IsExpired and HasStarted compare now against the offer window.
func (o *Offer) IsExpired(now time.Time) bool  { return now.After(o.params.EndDate) }
func (o *Offer) HasStarted(now time.Time) bool { return !now.Before(o.params.StartDate) }

// RemainingSlots returns how many applications the offer still accepts.
func (o *Offer) RemainingSlots() int {
	if r := o.params.MaxApplications - o.currentApplications; r > 0 {
		return r
	}
	return 0
}

// DiscountLabel renders the discount as a whole percentage, e.g. "12% OFF".
func (o *Offer) DiscountLabel() string {
	return o.discountPercentage.StringFixed(0) + "% OFF"
}

// Savings is the amount saved against the original price.
func (o *Offer) Savings() decimal.Decimal {
	return o.params.OriginalPrice.Sub(o.params.DiscountedPrice)
}

// StatusBadge summarizes the offer for listings.
func (o *Offer) StatusBadge(now time.Time) string {
	switch {
	case !o.isActive:
		return BadgeInactive
	case o.IsExpired(now):
		return BadgeExpired
	case !o.HasStarted(now):
		return BadgeComingSoon
	case o.RemainingSlots() == 0:
		return BadgeSoldOut
	default:
		return BadgeActive
	}
}

func (o *Offer) touch(now time.Time) {
	t := now.UTC()
	o.updatedAt = &t
}

func discountOf(original, discounted decimal.Decimal) decimal.Decimal {
	return original.Sub(discounted).Div(original).Mul(hundred)
}

func normalizeOfferParams(p OfferParams) OfferParams {
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return p
}

func validateOfferParams(p OfferParams, now time.Time) error {
	if err := requireText("title", p.Title, 100); err != nil {
		return err
	}
	if err := requireText("description", p.Description, 1000); err != nil {
		return err
	}
	if err := amount("originalPrice", p.OriginalPrice, maxOfferPrice); err != nil {
		return err
	}
	if err := amount("discountedPrice", p.DiscountedPrice, maxOfferPrice); err != nil {
		return err
	}
	if !p.DiscountedPrice.LessThan(p.OriginalPrice) {
		return invalid("discountedPrice", "must be less than the original price")
	}
	if !p.EndDate.After(p.StartDate) {
		return invalid("endDate", "must be after the start date")
	}
	if p.StartDate.Before(startOfDay(now)) {
		return invalid("startDate", "cannot be in the past")
	}
	if err := requireText("terms", p.Terms, 2000); err != nil {
		return err
	}
	if p.MaxApplications < 1 || p.MaxApplications > 1000 {
		return invalid("maxApplications", "must be between 1 and 1000")
	}
	if err := validateID("carId", p.CarID); err != nil {
		return err
	}
	if p.SalesAgentID != nil {
		return validateID("salesAgentId", *p.SalesAgentID)
	}
	return nil
}
