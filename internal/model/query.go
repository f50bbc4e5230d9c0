package model

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Default page sizes per listing.
const (
	DefaultCarPageSize   = 10
	DefaultAgentPageSize = 10
	DefaultOfferPageSize = 12
	MaxPageSize          = 100

	// MaxPageNumber keeps Offset within int for any page size.
	MaxPageNumber = math.MaxInt / MaxPageSize

	MaxRecentInterests = 500
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into range, using def for a missing size.
func (p Page) Normalize(def int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = def
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Sort names a sort key and direction. Keys are matched case-insensitively
// against a per-listing whitelist; unknown keys sort by creation time.
type Sort struct {
	Key  string
	Desc bool
}

// ParseSort reads "asc"/"desc"; anything else is descending.
func ParseSort(key, dir string) Sort {
	return Sort{
		Key:  strings.ToLower(strings.TrimSpace(key)),
		Desc: !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

// CarFilter narrows the car listing.
type CarFilter struct {
	Search       string
	Make         string
	Year         *int
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	IsAvailable  *bool
	SalesAgentID *int64
	OwnerID      *string
	Sort         Sort
	Page         Page
}

// OfferFilter narrows the offer listing.
type OfferFilter struct {
	Search       string
	MinDiscount  *decimal.Decimal
	MaxPrice     *decimal.Decimal
	IsActive     *bool
	IsExpired    *bool
	CarID        *int64
	SalesAgentID *int64
	Sort         Sort
	Page         Page
}

// SalesAgentFilter narrows the agent listing.
type SalesAgentFilter struct {
	Search            string
	Department        string
	MinCommissionRate *decimal.Decimal
	IsActive          *bool
	Sort              Sort
	Page              Page
}

// InterestFilter selects interests created within the last Days days.
type InterestFilter struct {
	Days   int
	Search string
	Limit  int
}

// Normalize applies a seven day default window and the result cap.
func (f InterestFilter) Normalize() InterestFilter {
	if f.Days < 1 {
		f.Days = 7
	}
	if f.Limit < 1 || f.Limit > MaxRecentInterests {
		f.Limit = MaxRecentInterests
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// PagedResult is one page of a listing plus the total match count.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPagedResult wraps one page of items with its paging totals.
func NewPagedResult[T any](items []T, total int, p Page) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return PagedResult[T]{
		Items:      items,
		TotalCount: total,
		PageNumber: p.Number,
		PageSize:   p.Size,
		TotalPages: pages,
	}
}

// AgentWithCars is a sales agent plus the number of cars assigned to them.
type AgentWithCars struct {
	SalesAgentSnapshot
	AssignedCars int `json:"assignedCars"`
}

// InterestView is a car interest joined with who asked and about which car.
type InterestView struct {
	CarInterestSnapshot
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	CarName     string `json:"carName"`
}
