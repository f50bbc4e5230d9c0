package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() AgentProfile {
	return AgentProfile{
		FirstName:   "Dana",
		LastName:    "Reyes",
		Email:       "dana@autolease.test",
		PhoneNumber: "5551234567",
		Department:  "Sales",
	}
}

func TestNewSalesAgent(t *testing.T) {
	a, err := NewSalesAgent(validProfile(), decimal.NewFromFloat(2.5), nil, "", testNow)
	require.NoError(t, err)
	assert.True(t, a.IsActive())
	assert.Equal(t, "Dana Reyes", a.FullName())
	assert.Equal(t, testNow, a.Snapshot().HireDate)
}

func TestNewSalesAgent_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *AgentProfile)
		field string
	}{
		{"short first name", func(p *AgentProfile) { p.FirstName = "D" }, "firstName"},
		{"blank last name", func(p *AgentProfile) { p.LastName = "" }, "lastName"},
		{"email without at", func(p *AgentProfile) { p.Email = "dana.autolease.test" }, "email"},
		{"short phone", func(p *AgentProfile) { p.PhoneNumber = "555123" }, "phoneNumber"},
		{"long phone", func(p *AgentProfile) { p.PhoneNumber = "5551234567890123" }, "phoneNumber"},
		{"blank department", func(p *AgentProfile) { p.Department = "" }, "department"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.edit(&p)
			_, err := NewSalesAgent(p, decimal.NewFromInt(5), nil, "", testNow)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}

	_, err := NewSalesAgent(validProfile(), decimal.NewFromInt(51), nil, "", testNow)
	assert.Equal(t, "commissionRate", FieldOf(err))
	_, err = NewSalesAgent(validProfile(), decimal.NewFromInt(-1), nil, "", testNow)
	assert.Equal(t, "commissionRate", FieldOf(err))
	_, err = NewSalesAgent(validProfile(), decimal.RequireFromString("5.555"), nil, "", testNow)
	assert.Equal(t, "commissionRate", FieldOf(err))
	_, err = NewSalesAgent(validProfile(), decimal.RequireFromString("5.50"), nil, "", testNow)
	assert.NoError(t, err)
}

func TestSalesAgent_CalculateCommission(t *testing.T) {
	a, err := NewSalesAgent(validProfile(), decimal.NewFromFloat(2.5), nil, "", testNow)
	require.NoError(t, err)

	c, err := a.CalculateCommission(decimal.NewFromInt(40000))
	require.NoError(t, err)
	assert.True(t, c.Equal(decimal.NewFromInt(1000)), c.String())

	_, err = a.CalculateCommission(decimal.Zero)
	assert.Equal(t, "saleAmount", FieldOf(err))
}

func TestSalesAgent_Mutations(t *testing.T) {
	a, err := NewSalesAgent(validProfile(), decimal.NewFromInt(3), nil, "", testNow)
	require.NoError(t, err)

	require.NoError(t, a.UpdateCommissionRate(decimal.NewFromInt(50), testNow))
	assert.True(t, a.CommissionRate().Equal(decimal.NewFromInt(50)))

	a.Deactivate(testNow)
	assert.False(t, a.IsActive())
	a.Activate(testNow)
	assert.True(t, a.IsActive())

	require.NoError(t, a.AssignUser("user-1", testNow))
	assert.Equal(t, "user-1", *a.UserID())
	a.UnassignUser(testNow)
	assert.Nil(t, a.UserID())

	p := validProfile()
	p.Department = "Fleet"
	require.NoError(t, a.UpdateDetails(p, decimal.NewFromInt(10), "bio", testNow))
	assert.Equal(t, "Fleet", a.Profile().Department)
	assert.Equal(t, "bio", a.Snapshot().Biography)
	assert.NotNil(t, a.Snapshot().UpdatedAt)
}

func TestUser(t *testing.T) {
	u, err := NewUser(" Client@Example.com ", "Ann", "Lee", RoleClient, "hash", testNow)
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", u.Email())
	assert.Len(t, u.ID(), 36)
	assert.Equal(t, "Ann Lee", u.FullName())

	_, err = NewUser("nope", "Ann", "Lee", RoleClient, "hash", testNow)
	assert.Equal(t, "email", FieldOf(err))

	assert.Equal(t, "lastName", FieldOf(u.UpdateProfile("Ann", "L", testNow)))
	require.NoError(t, u.UpdateProfile("Anna", "Lee", testNow))
	assert.Equal(t, "Anna Lee", u.FullName())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, r)

	r, err = ParseRole("Sales_Agent")
	require.NoError(t, err)
	assert.Equal(t, RoleSalesAgent, r)

	_, err = ParseRole("admin")
	assert.Equal(t, "role", FieldOf(err))
}
