package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/events"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExpressInterest(t *testing.T) {
	db := newMemDB()
	car := seedCar(t, db)
	ctx := context.Background()

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, events.CarInterestCreatedSubject, mock.AnythingOfType("events.CarInterestEvent")).Return(nil).Once()
	svc := NewInterestService(memInterests{db}, memCars{db}, pub, testClock, zap.NewNop())

	req := model.InterestRequest{PreferredCallTime: testNow.Add(24 * time.Hour)}
	got, err := svc.Express(ctx, car.ID(), "client-1", req)
	require.NoError(t, err)
	assert.NotZero(t, got.ID())
	pub.AssertExpectations(t)

	_, err = svc.Express(ctx, car.ID(), "client-1", model.InterestRequest{PreferredCallTime: testNow.Add(-time.Hour)})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, "preferredCallTime", model.FieldOf(err))

	_, err = svc.Express(ctx, 999, "client-1", req)
	assert.ErrorIs(t, err, model.ErrNotFound)

	byCar, err := svc.ByCar(ctx, car.ID())
	require.NoError(t, err)
	assert.Len(t, byCar, 1)

	byUser, err := svc.ByUser(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	recent, err := svc.Recent(ctx, model.InterestFilter{})
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
