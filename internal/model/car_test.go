package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCarDetails() CarDetails {
	return CarDetails{
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2024,
		Color:       "Blue",
		Price:       decimal.NewFromInt(25000),
		Description: "Compact sedan",
	}
}

func TestNewCar(t *testing.T) {
	c, err := NewCar(validCarDetails(), " 1hgcm82633a004352 ", nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, "1HGCM82633A004352", c.VIN())
	assert.True(t, c.IsAvailable())
	assert.Equal(t, "2024 Toyota Corolla", c.DisplayName())
}

func TestNewCar_VIN(t *testing.T) {
	tests := map[string]string{
		"too short":       "1HGCM82633A00435",
		"too long":        "1HGCM82633A0043521",
		"contains letter": "1HGCM82633A00435I",
		"contains O":      "1HGCM82633A0O4352",
		"empty":           "",
	}
	for name, vin := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCar(validCarDetails(), vin, nil, testNow)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, "vinNumber", FieldOf(err))
		})
	}
}

func TestNewCar_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *CarDetails)
		field string
	}{
		{"blank make", func(d *CarDetails) { d.Make = "" }, "make"},
		{"old year", func(d *CarDetails) { d.Year = 1899 }, "year"},
		{"future year", func(d *CarDetails) { d.Year = 2027 }, "year"},
		{"long color", func(d *CarDetails) { d.Color = "abcdefghijabcdefghijabcdefghijx" }, "color"},
		{"zero price", func(d *CarDetails) { d.Price = decimal.Zero }, "price"},
		{"huge price", func(d *CarDetails) { d.Price = decimal.NewFromInt(1_000_001) }, "price"},
		{"sub-cent price", func(d *CarDetails) { d.Price = decimal.RequireFromString("25000.005") }, "price"},
		{"blank description", func(d *CarDetails) { d.Description = " " }, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validCarDetails()
			tt.edit(&d)
			_, err := NewCar(d, "1HGCM82633A004352", nil, testNow)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}

	d := validCarDetails()
	d.Year = 2026
	d.Price = decimal.RequireFromString("1000000.00")
	_, err := NewCar(d, "1HGCM82633A004352", nil, testNow)
	assert.NoError(t, err)
}

func TestCar_Ownership(t *testing.T) {
	c, err := NewCar(validCarDetails(), "1HGCM82633A004352", nil, testNow)
	require.NoError(t, err)

	require.NoError(t, c.AssignToOwner("user-9", testNow))
	assert.False(t, c.IsAvailable())
	require.NotNil(t, c.OwnerID())
	assert.Equal(t, "user-9", *c.OwnerID())

	c.MarkAsAvailable(testNow)
	assert.True(t, c.IsAvailable())
	assert.Nil(t, c.OwnerID())
	assert.NotNil(t, c.UpdatedAt())

	c.MarkAsSold("", testNow)
	assert.False(t, c.IsAvailable())
	assert.Nil(t, c.OwnerID())

	assert.Equal(t, "ownerId", FieldOf(c.AssignToOwner("", testNow)))
}

func TestCar_SalesAgent(t *testing.T) {
	c, err := NewCar(validCarDetails(), "1HGCM82633A004352", nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, "salesAgentId", FieldOf(c.AssignSalesAgent(0, testNow)))
	require.NoError(t, c.AssignSalesAgent(4, testNow))
	assert.Equal(t, int64(4), *c.SalesAgentID())
	c.UnassignSalesAgent(testNow)
	assert.Nil(t, c.SalesAgentID())
}
