package model

import (
	"strings"
	"time"
)

// ApplicationStatus is the review state of an offer application.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusCancelled ApplicationStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s != StatusPending
}

// Decision is a reviewer's verdict on a pending application.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// OfferApplication is a client's request to take up an offer.
type OfferApplication struct {
	id               int64
	offerID          int64
	userID           string
	notes            string
	status           ApplicationStatus
	applicationDate  time.Time
	reviewedAt       *time.Time
	reviewNotes      *string
	reviewedByUserID *string
}

// ApplicationSnapshot is the persisted shape of an OfferApplication.
type ApplicationSnapshot struct {
	ID               int64             `json:"id"`
	OfferID          int64             `json:"offerId"`
	UserID           string            `json:"userId"`
	Notes            string            `json:"notes"`
	Status           ApplicationStatus `json:"status"`
	ApplicationDate  time.Time         `json:"applicationDate"`
	ReviewedAt       *time.Time        `json:"reviewedAt,omitempty"`
	ReviewNotes      *string           `json:"reviewNotes,omitempty"`
	ReviewedByUserID *string           `json:"reviewedByUserId,omitempty"`
}

// NewOfferApplication builds a pending application.
func NewOfferApplication(offerID int64, userID, notes string, now time.Time) (*OfferApplication, error) {
	if err := validateID("offerId", offerID); err != nil {
		return nil, err
	}
	if err := validateUserID("userId", userID); err != nil {
		return nil, err
	}
	if err := optionalText("notes", notes, 500); err != nil {
		return nil, err
	}
	return &OfferApplication{
		offerID:         offerID,
		userID:          userID,
		notes:           notes,
		status:          StatusPending,
		applicationDate: now.UTC(),
	}, nil
}

// RestoreOfferApplication rehydrates a persisted application.
func RestoreOfferApplication(s ApplicationSnapshot) *OfferApplication {
	return &OfferApplication{
		id:               s.ID,
		offerID:          s.OfferID,
		userID:           s.UserID,
		notes:            s.Notes,
		status:           s.Status,
		applicationDate:  s.ApplicationDate,
		reviewedAt:       s.ReviewedAt,
		reviewNotes:      s.ReviewNotes,
		reviewedByUserID: s.ReviewedByUserID,
	}
}

// Snapshot returns the application's persisted shape.
func (a *OfferApplication) Snapshot() ApplicationSnapshot {
	return ApplicationSnapshot{
		ID:               a.id,
		OfferID:          a.offerID,
		UserID:           a.userID,
		Notes:            a.notes,
		Status:           a.status,
		ApplicationDate:  a.applicationDate,
		ReviewedAt:       a.reviewedAt,
		ReviewNotes:      a.reviewNotes,
		ReviewedByUserID: a.reviewedByUserID,
	}
}

// Accessors.
func (a *OfferApplication) ID() int64                 { return a.id }
func (a *OfferApplication) SetID(id int64)            { a.id = id }
func (a *OfferApplication) OfferID() int64            { return a.offerID }
func (a *OfferApplication) UserID() string            { return a.userID }
func (a *OfferApplication) Status() ApplicationStatus { return a.status }
func (a *OfferApplication) ApplicationDate() time.Time {
	return a.applicationDate
}

// Approve accepts a pending application on behalf of reviewerID.
func (a *OfferApplication) Approve(reviewerID string, notes *string, now time.Time) error {
	return a.review(StatusApproved, reviewerID, notes, now)
}

// Reject declines a pending application on behalf of reviewerID.
func (a *OfferApplication) Reject(reviewerID string, notes *string, now time.Time) error {
	return a.review(StatusRejected, reviewerID, notes, now)
}

// Decide applies a reviewer decision.
func (a *OfferApplication) Decide(d Decision, reviewerID string, notes *string, now time.Time) error {
	switch d {
	case DecisionApprove:
		return a.Approve(reviewerID, notes, now)
	case DecisionReject:
		return a.Reject(reviewerID, notes, now)
	default:
		return invalid("decision", "must be approve or reject")
	}
}

// Cancel withdraws a pending application. No reviewer is recorded.
func (a *OfferApplication) Cancel(now time.Time) error {
	if a.status != StatusPending {
		return ErrApplicationNotPending
	}
	t := now.UTC()
	a.status = StatusCancelled
	a.reviewedAt = &t
	return nil
}

func (a *OfferApplication) review(to ApplicationStatus, reviewerID string, notes *string, now time.Time) error {
	if strings.TrimSpace(reviewerID) == "" {
		return invalid("reviewedByUserId", "cannot be empty")
	}
	if a.status != StatusPending {
		return ErrApplicationNotPending
	}
	if notes != nil {
		if err := optionalText("reviewNotes", *notes, 500); err != nil {
			return err
		}
	}
	t := now.UTC()
	a.status = to
	a.reviewedAt = &t
	a.reviewedByUserID = &reviewerID
	a.reviewNotes = notes
	return nil
}
