package model

import "time"

// CarInterest records a client asking to be called back about a car.
type CarInterest struct {
	id                int64
	carID             int64
	userID            string
	preferredCallTime time.Time
	notes             *string
	createdAt         time.Time
}

// CarInterestSnapshot is the persisted shape of a CarInterest.
type CarInterestSnapshot struct {
	ID                int64     `json:"id"`
	CarID             int64     `json:"carId"`
	UserID            string    `json:"userId"`
	PreferredCallTime time.Time `json:"preferredCallTime"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewCarInterest requires a call time no earlier than one minute ago.
func NewCarInterest(carID int64, userID string, preferredCallTime time.Time, notes *string, now time.Time) (*CarInterest, error) {
	if err := validateID("carId", carID); err != nil {
		return nil, err
	}
	if err := validateUserID("userId", userID); err != nil {
		return nil, err
	}
	if !preferredCallTime.After(now.Add(-time.Minute)) {
		return nil, invalid("preferredCallTime", "must be in the future")
	}
	if notes != nil {
		if err := optionalText("notes", *notes, 500); err != nil {
			return nil, err
		}
	}
	return &CarInterest{
		carID:             carID,
		userID:            userID,
		preferredCallTime: preferredCallTime.UTC(),
		notes:             notes,
		createdAt:         now.UTC(),
	}, nil
}

// Snapshot returns the interest's persisted shape.
func (i *CarInterest) Snapshot() CarInterestSnapshot {
	return CarInterestSnapshot{
		ID:                i.id,
		CarID:             i.carID,
		UserID:            i.userID,
		PreferredCallTime: i.preferredCallTime,
		Notes:             i.notes,
		CreatedAt:         i.createdAt,
	}
}

// Accessors.
func (i *CarInterest) ID() int64      { return i.id }
func (i *CarInterest) SetID(id int64) { i.id = id }
func (i *CarInterest) CarID() int64   { return i.carID }
func (i *CarInterest) UserID() string { return i.userID }
