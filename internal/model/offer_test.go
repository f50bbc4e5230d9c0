package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func validOfferParams() OfferParams {
	return OfferParams{
		Title:           "Summer deal",
		Description:     "Lease a sedan at a discount",
		OriginalPrice:   decimal.NewFromInt(25000),
		DiscountedPrice: decimal.NewFromInt(22000),
		StartDate:       testNow.Add(-time.Hour),
		EndDate:         testNow.Add(30 * 24 * time.Hour),
		Terms:           "36 month lease",
		MaxApplications: 5,
		CarID:           7,
	}
}

func TestNewOffer_ScenarioDiscountAndCapacity(t *testing.T) {
	o, err := NewOffer(validOfferParams(), testNow)
	require.NoError(t, err)

	assert.True(t, o.DiscountPercentage().Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "12% OFF", o.DiscountLabel())
	assert.True(t, o.Savings().Equal(decimal.NewFromInt(3000)))
	assert.True(t, o.IsActive())
	assert.Equal(t, 0, o.CurrentApplications())
	assert.Equal(t, BadgeActive, o.StatusBadge(testNow))

	for i := 0; i < 5; i++ {
		require.NoError(t, o.IncrementApplications(testNow))
	}
	err = o.IncrementApplications(testNow)
	assert.ErrorIs(t, err, ErrOfferClosed)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 5, o.CurrentApplications())
	assert.Equal(t, 0, o.RemainingSlots())
	assert.False(t, o.CanApply(testNow))
	assert.Equal(t, BadgeSoldOut, o.StatusBadge(testNow))
}

func TestNewOffer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *OfferParams)
		field string
	}{
		{"blank title", func(p *OfferParams) { p.Title = "   " }, "title"},
		{"long title", func(p *OfferParams) { p.Title = string(make([]rune, 101)) }, "title"},
		{"blank description", func(p *OfferParams) { p.Description = "" }, "description"},
		{"zero original", func(p *OfferParams) { p.OriginalPrice = decimal.Zero }, "originalPrice"},
		{"sub-cent original", func(p *OfferParams) { p.OriginalPrice = decimal.RequireFromString("25000.005") }, "originalPrice"},
		{"original above cap", func(p *OfferParams) { p.OriginalPrice = decimal.NewFromInt(500_000_000) }, "originalPrice"},
		{"negative discounted", func(p *OfferParams) { p.DiscountedPrice = decimal.NewFromInt(-1) }, "discountedPrice"},
		{"sub-cent discounted", func(p *OfferParams) { p.DiscountedPrice = decimal.RequireFromString("21999.999") }, "discountedPrice"},
		{"discount equals original", func(p *OfferParams) { p.DiscountedPrice = p.OriginalPrice }, "discountedPrice"},
		{"end before start", func(p *OfferParams) { p.EndDate = p.StartDate }, "endDate"},
		{"start yesterday", func(p *OfferParams) { p.StartDate = testNow.Add(-36 * time.Hour) }, "startDate"},
		{"blank terms", func(p *OfferParams) { p.Terms = "" }, "terms"},
		{"zero cap", func(p *OfferParams) { p.MaxApplications = 0 }, "maxApplications"},
		{"cap too big", func(p *OfferParams) { p.MaxApplications = 1001 }, "maxApplications"},
		{"no car", func(p *OfferParams) { p.CarID = 0 }, "carId"},
		{"bad agent", func(p *OfferParams) { id := int64(-2); p.SalesAgentID = &id }, "salesAgentId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validOfferParams()
			tt.edit(&p)
			_, err := NewOffer(p, testNow)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestNewOffer_PriceBoundaries(t *testing.T) {
	p := validOfferParams()
	p.OriginalPrice = decimal.RequireFromString("999999.99")
	p.DiscountedPrice = decimal.RequireFromString("100.50")
	o, err := NewOffer(p, testNow)
	require.NoError(t, err)

	stored := RestoreOffer(o.Snapshot())
	assert.True(t, stored.DiscountPercentage().Equal(discountOf(stored.Params().OriginalPrice, stored.Params().DiscountedPrice)))

	p.OriginalPrice = decimal.RequireFromString("1000000.00")
	_, err = NewOffer(p, testNow)
	assert.Equal(t, "originalPrice", FieldOf(err))
}

func TestNewOffer_StartEarlierToday(t *testing.T) {
	p := validOfferParams()
	p.StartDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := NewOffer(p, testNow)
	assert.NoError(t, err)
}

func TestOffer_UpdateRecomputesDiscount(t *testing.T) {
	o, err := NewOffer(validOfferParams(), testNow)
	require.NoError(t, err)

	p := validOfferParams()
	p.DiscountedPrice = decimal.NewFromInt(20000)
	later := testNow.Add(time.Minute)
	require.NoError(t, o.Update(p, later))

	assert.True(t, o.DiscountPercentage().Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "20% OFF", o.DiscountLabel())
	require.NotNil(t, o.Snapshot().UpdatedAt)
	assert.Equal(t, later, *o.Snapshot().UpdatedAt)
}

func TestOffer_UpdateCannotDropCapBelowApplications(t *testing.T) {
	o, err := NewOffer(validOfferParams(), testNow)
	require.NoError(t, err)
	require.NoError(t, o.IncrementApplications(testNow))
	require.NoError(t, o.IncrementApplications(testNow))

	p := validOfferParams()
	p.MaxApplications = 1
	err = o.Update(p, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "maxApplications", FieldOf(err))
	assert.Equal(t, 5, o.MaxApplications())
}

func TestOffer_DiscountLabelRoundsHalfAwayFromZero(t *testing.T) {
	p := validOfferParams()
	p.OriginalPrice = decimal.NewFromInt(200)
	p.DiscountedPrice = decimal.NewFromInt(175) // 12.5%
	o, err := NewOffer(p, testNow)
	require.NoError(t, err)
	assert.Equal(t, "13% OFF", o.DiscountLabel())
}

func TestOffer_Window(t *testing.T) {
	p := validOfferParams()
	p.StartDate = testNow.Add(2 * time.Hour)
	p.EndDate = testNow.Add(4 * time.Hour)
	o, err := NewOffer(p, testNow)
	require.NoError(t, err)

	assert.False(t, o.HasStarted(testNow))
	assert.False(t, o.CanApply(testNow))
	assert.Equal(t, BadgeComingSoon, o.StatusBadge(testNow))
	assert.ErrorIs(t, o.IncrementApplications(testNow), ErrOfferClosed)

	inWindow := testNow.Add(3 * time.Hour)
	assert.True(t, o.CanApply(inWindow))
	assert.True(t, o.CanApply(p.StartDate))
	assert.True(t, o.CanApply(p.EndDate))

	after := testNow.Add(5 * time.Hour)
	assert.True(t, o.IsExpired(after))
	assert.False(t, o.CanApply(after))
	assert.Equal(t, BadgeExpired, o.StatusBadge(after))

	o.Deactivate(inWindow)
	assert.False(t, o.CanApply(inWindow))
	assert.Equal(t, BadgeInactive, o.StatusBadge(inWindow))
	o.Activate(inWindow)
	assert.True(t, o.CanApply(inWindow))
}

func TestOffer_SnapshotRoundTrip(t *testing.T) {
	agent := int64(3)
	p := validOfferParams()
	p.SalesAgentID = &agent
	o, err := NewOffer(p, testNow)
	require.NoError(t, err)
	o.SetID(42)
	require.NoError(t, o.IncrementApplications(testNow))

	restored := RestoreOffer(o.Snapshot())
	assert.Equal(t, o.Snapshot(), restored.Snapshot())
	assert.Equal(t, 4, restored.RemainingSlots())
}
