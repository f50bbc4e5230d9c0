package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sort model.Sort
		want string
	}{
		{"known key ascending", model.ParseSort("Price", "asc"), " ORDER BY c.price ASC, c.id ASC"},
		{"camel case key", model.ParseSort("createdAt", "desc"), " ORDER BY c.created_at DESC, c.id DESC"},
		{"unknown key falls back", model.ParseSort("vin; DROP TABLE cars", ""), " ORDER BY c.created_at DESC, c.id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.sort, carSortColumns, "c.created_at", "c.id"))
		})
	}
}

func TestCarWhere(t *testing.T) {
	year := 2024
	minPrice := decimal.NewFromInt(1000)
	available := true
	w := carWhere(model.CarFilter{Search: "50%_off", Year: &year, MinPrice: &minPrice, IsAvailable: &available})

	assert.Equal(t,
		" WHERE (c.make ILIKE $1 OR c.model ILIKE $1 OR c.vin ILIKE $1 OR c.description ILIKE $1)"+
			" AND c.year = $2 AND c.price >= $3 AND c.is_available = $4",
		w.String())
	assert.Equal(t, []any{`%50\%\_off%`, 2024, minPrice, true}, w.args)

	assert.Equal(t, " LIMIT $5 OFFSET $6", w.page(model.Page{Number: 3, Size: 10}))
	assert.Equal(t, 20, w.args[5])
}

func TestCarWhere_Empty(t *testing.T) {
	w := carWhere(model.CarFilter{Search: "   "})
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestOfferWhere_ActiveFlag(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	active, inactive := true, false

	w := offerWhere(model.OfferFilter{IsActive: &active}, now)
	assert.Equal(t, " WHERE (o.is_active AND o.start_date <= $1 AND o.end_date >= $1)", w.String())

	w = offerWhere(model.OfferFilter{IsActive: &inactive}, now)
	assert.Equal(t, " WHERE (NOT o.is_active OR o.end_date < $1)", w.String())
	assert.Equal(t, []any{now}, w.args)
}

func TestAgentSortWhitelist(t *testing.T) {
	assert.Equal(t, " ORDER BY assigned_cars DESC, s.id DESC",
		orderBy(model.ParseSort("assignedCars", ""), agentSortColumns, "s.created_at", "s.id"))
}

func TestInterestWhere(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	w := interestWhere(model.InterestFilter{Days: 3, Search: "corolla"}.Normalize(), now)
	assert.Contains(t, w.String(), "i.created_at >= $1")
	assert.Contains(t, w.String(), "c.model ILIKE $2")
	assert.Equal(t, now.AddDate(0, 0, -3), w.args[0])
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))
	assert.ErrorIs(t, translate("get car", pgx.ErrNoRows), model.ErrNotFound)

	unique := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "cars_vin_key"}
	assert.ErrorIs(t, translate("insert car", fmt.Errorf("exec: %w", unique)), model.ErrConflict)

	check := &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "offers_current_applications_check"}
	err := translate("update offer", check)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Contains(t, err.Error(), "offers_current_applications_check")

	serial := &pgconn.PgError{Code: codeSerializationFailure}
	assert.ErrorIs(t, translate("submit", serial), model.ErrConcurrentUpdate)

	other := errors.New("boom")
	err = translate("op", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, model.ErrConflict)
}
