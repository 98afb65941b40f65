package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

// Runs the booking flow against a real store.
func TestBookingFlow_SQLite(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "flow.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	bus := events.NewEventBus()
	users := NewUserService(db, testLogger())
	items := NewItemService(db, bus, testLogger())
	bookings := NewBookingService(db, bus, testLogger())

	owner, err := users.Create(ctx, models.NewUser{Name: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)
	booker, err := users.Create(ctx, models.NewUser{Name: "Booker", Email: "booker@example.com"})
	require.NoError(t, err)
	stranger, err := users.Create(ctx, models.NewUser{Name: "Stranger", Email: "stranger@example.com"})
	require.NoError(t, err)

	item, err := items.Create(ctx, models.NewItem{Name: "Drill", Description: "Cordless", Available: ptr(true)}, owner.ID)
	require.NoError(t, err)

	now := time.Now()
	created, err := bookings.Create(ctx, models.NewBooking{
		ItemID: &item.ID,
		Start:  ptr(now.Add(time.Hour)),
		End:    ptr(now.Add(2 * time.Hour)),
	}, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, created.Status)

	approved, err := bookings.SetApproval(ctx, created.ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	for _, id := range []int64{booker.ID, owner.ID} {
		got, err := bookings.FindByID(ctx, created.ID, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, "Drill", got.Item.Name)
		assert.Equal(t, "Booker", got.Booker.Name)
	}

	_, err = bookings.FindByID(ctx, created.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ownerView, err := items.FindByID(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, ownerView.NextBooking)
	assert.Equal(t, created.ID, ownerView.NextBooking.ID)
	assert.Nil(t, ownerView.LastBooking)

	_, err = items.AddComment(ctx, models.NewComment{Text: "Too early"}, item.ID, booker.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := bookings.ListForOwner(ctx, "FUTURE", owner.ID, models.DefaultPage())
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = bookings.ListForUser(ctx, "PAST", booker.ID, models.DefaultPage())
	require.NoError(t, err)
	assert.Empty(t, list)

	// Later on, the booking has ended and the booker can leave feedback.
	items.now = func() time.Time { return now.Add(3 * time.Hour) }
	comment, err := items.AddComment(ctx, models.NewComment{Text: "Worked great"}, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, "Booker", comment.AuthorName)

	strangerView, err := items.FindByID(ctx, item.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, strangerView.LastBooking)
	require.Len(t, strangerView.Comments, 1)
	assert.Equal(t, "Worked great", strangerView.Comments[0].Text)
}
