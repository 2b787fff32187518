//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"concierge/internal/rewards"
	"concierge/pkg/client"
	"concierge/pkg/model"
	"concierge/test/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func TestGuestJourney_BookConfirmEarn(t *testing.T) {
	suite := common.NewIntegrationTestSuite(t)
	ctx := context.Background()
	session := client.NewSession()

	_, err := suite.Client.Auth.Register(ctx, session, model.RegisterRequest{
		Name:     "John Doe",
		Email:    common.UniqueEmail("john"),
		Password: "secret1",
	})
	require.NoError(t, err)

	booking, err := suite.Client.Bookings.Create(ctx, session, client.BookingInput{
		HotelName: "Grand Hotel",
		CheckIn:   date("2024-01-15"),
		CheckOut:  date("2024-01-20"),
		Guests:    2,
		Price:     500,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, booking.Nights)
	assert.Equal(t, 2500.0, booking.Total)
	assert.Equal(t, model.BookingStatusPending, booking.Status)

	mine, err := suite.Client.Bookings.ListMine(ctx, session)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.ID, mine[0].ID)
	assert.Equal(t, "Grand Hotel", mine[0].HotelName)

	confirmed, err := suite.Client.Bookings.Confirm(ctx, session, booking.ID, "pay_integration")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, confirmed.Status)

	ledger, err := suite.Client.Rewards.Ledger(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 250, ledger.Earned)
	assert.Equal(t, 250, ledger.Available)

	cancelled, err := suite.Client.Bookings.Cancel(ctx, session, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	again, err := suite.Client.Bookings.Cancel(ctx, session, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, again.Status)
}

func TestMemberJourney_RedeemWithoutPoints(t *testing.T) {
	suite := common.NewIntegrationTestSuite(t)
	ctx := context.Background()
	session := client.NewSession()

	_, err := suite.Client.Members.Register(ctx, session, model.MemberRegisterRequest{
		Name:     "Ada Lovelace",
		Email:    common.UniqueEmail("ada"),
		Password: "secret1",
		Tier:     model.TierGold,
	})
	require.NoError(t, err)
	assert.Equal(t, model.IdentityMember, session.Kind())

	result, err := suite.Client.Rewards.Redeem(ctx, session, "spa-credit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rewards.ErrInsufficientPoints))
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Ledger.Spent)
}
