package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var maxCarPrice = decimal.NewFromInt(1_000_000)

// CarDetails are the editable attributes of a car.
type CarDetails struct {
	Make        string
	Model       string
	Year        int
	Color       string
	Price       decimal.Decimal
	Description string
	ImageURL    *string
}

// Car is a vehicle listed on the marketplace.
type Car struct {
	id           int64
	details      CarDetails
	vin          string
	isAvailable  bool
	ownerID      *string
	salesAgentID *int64
	createdAt    time.Time
	updatedAt    *time.Time
}

// CarSnapshot is the persisted shape of a Car.
type CarSnapshot struct {
	ID           int64           `json:"id"`
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Color        string          `json:"color"`
	VIN          string          `json:"vinNumber"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	IsAvailable  bool            `json:"isAvailable"`
	OwnerID      *string         `json:"ownerId,omitempty"`
	SalesAgentID *int64          `json:"salesAgentId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

// NewCar validates and builds an available car.
func NewCar(d CarDetails, vin string, salesAgentID *int64, now time.Time) (*Car, error) {
	if err := validateCarDetails(d, now); err != nil {
		return nil, err
	}
	vin = NormalizeVIN(vin)
	if err := ValidateVIN(vin); err != nil {
		return nil, err
	}
	if salesAgentID != nil {
		if err := validateID("salesAgentId", *salesAgentID); err != nil {
			return nil, err
		}
	}
	return &Car{
		details:      d,
		vin:          vin,
		isAvailable:  true,
		salesAgentID: salesAgentID,
		createdAt:    now.UTC(),
	}, nil
}

// RestoreCar rehydrates a persisted car.
func RestoreCar(s CarSnapshot) *Car {
	return &Car{
		id: s.ID,
		details: CarDetails{
			Make:        s.Make,
			Model:       s.Model,
			Year:        s.Year,
			Color:       s.Color,
			Price:       s.Price,
			Description: s.Description,
			ImageURL:    s.ImageURL,
		},
		vin:          s.VIN,
		isAvailable:  s.IsAvailable,
		ownerID:      s.OwnerID,
		salesAgentID: s.SalesAgentID,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot returns the car's persisted shape.
func (c *Car) Snapshot() CarSnapshot {
	return CarSnapshot{
		ID:           c.id,
		Make:         c.details.Make,
		Model:        c.details.Model,
		Year:         c.details.Year,
		Color:        c.details.Color,
		VIN:          c.vin,
		Price:        c.details.Price,
		Description:  c.details.Description,
		ImageURL:     c.details.ImageURL,
		IsAvailable:  c.isAvailable,
		OwnerID:      c.ownerID,
		SalesAgentID: c.salesAgentID,
		CreatedAt:    c.createdAt,
		UpdatedAt:    c.updatedAt,
	}
}

// Accessors.
func (c *Car) ID() int64              { return c.id }
func (c *Car) SetID(id int64)         { c.id = id }
func (c *Car) VIN() string            { return c.vin }
func (c *Car) Details() CarDetails    { return c.details }
func (c *Car) IsAvailable() bool      { return c.isAvailable }
func (c *Car) OwnerID() *string       { return c.ownerID }
func (c *Car) SalesAgentID() *int64   { return c.salesAgentID }
func (c *Car) CreatedAt() time.Time   { return c.createdAt }
func (c *Car) UpdatedAt() *time.Time  { return c.updatedAt }
func (c *Car) Price() decimal.Decimal { return c.details.Price }

// DisplayName renders "2024 Toyota Corolla".
func (c *Car) DisplayName() string {
	return fmt.Sprintf("%d %s %s", c.details.Year, c.details.Make, c.details.Model)
}

// UpdateDetails replaces the editable attributes. The VIN never changes.
func (c *Car) UpdateDetails(d CarDetails, now time.Time) error {
	if err := validateCarDetails(d, now); err != nil {
		return err
	}
	c.details = d
	c.touch(now)
	return nil
}

// AssignToOwner hands the car to a client and takes it off the market.
func (c *Car) AssignToOwner(ownerID string, now time.Time) error {
	if err := validateUserID("ownerId", ownerID); err != nil {
		return err
	}
	c.ownerID = &ownerID
	c.isAvailable = false
	c.touch(now)
	return nil
}

// MarkAsAvailable puts the car back on the market and clears its owner.
func (c *Car) MarkAsAvailable(now time.Time) {
	c.ownerID = nil
	c.isAvailable = true
	c.touch(now)
}

// MarkAsSold takes the car off the market, recording the buyer when known.
func (c *Car) MarkAsSold(ownerID string, now time.Time) {
	c.isAvailable = false
	if strings.TrimSpace(ownerID) != "" {
		c.ownerID = &ownerID
	}
	c.touch(now)
}

// AssignSalesAgent puts the car in an agent's portfolio.
func (c *Car) AssignSalesAgent(salesAgentID int64, now time.Time) error {
	if err := validateID("salesAgentId", salesAgentID); err != nil {
		return err
	}
	c.salesAgentID = &salesAgentID
	c.touch(now)
	return nil
}

// UnassignSalesAgent clears the agent.
func (c *Car) UnassignSalesAgent(now time.Time) {
	c.salesAgentID = nil
	c.touch(now)
}

func (c *Car) touch(now time.Time) {
	t := now.UTC()
	c.updatedAt = &t
}

func validateCarDetails(d CarDetails, now time.Time) error {
	if err := requireText("make", d.Make, 50); err != nil {
		return err
	}
	if err := requireText("model", d.Model, 50); err != nil {
		return err
	}
	if maxYear := now.UTC().Year() + 1; d.Year < 1900 || d.Year > maxYear {
		return invalid("year", "must be between 1900 and %d", maxYear)
	}
	if err := requireText("color", d.Color, 30); err != nil {
		return err
	}
	if err := amount("price", d.Price, maxCarPrice); err != nil {
		return err
	}
	return requireText("description", d.Description, 1000)
}
