package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// Create places a WAITING booking for the acting user.
func (s *BookingService) Create(ctx context.Context, in models.NewBooking, userID int64) (*models.BookingView, error) {
	if in.ItemID == nil || in.Start == nil || in.End == nil {
		return nil, domain.Validation("itemId, start and end are required")
	}

	booker, err := loadUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	item, err := loadItem(ctx, s.repo, *in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.Validation("Item with id %d is not available for booking", item.ID)
	}

	start := in.Start.UTC().Truncate(time.Millisecond)
	end := in.End.UTC().Truncate(time.Millisecond)
	if err := validateBookingRange(start, end, s.now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
		ItemID:   item.ID,
		BookerID: booker.ID,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ItemName = item.Name
	booking.OwnerID = item.OwnerID
	booking.BookerName = booker.Name

	s.publish(events.EventBookingCreated, booking, booker.ID)
	view := models.NewBookingView(booking)
	return &view, nil
}

func validateBookingRange(start, end, now time.Time) error {
	switch {
	case !end.After(now):
		return domain.Validation("Booking end time is in the past")
	case end.Before(start):
		return domain.Validation("Booking end time is before start time")
	case start.Equal(end):
		return domain.Validation("Booking start and end times are equal")
	case !start.After(now):
		return domain.Validation("Booking start time is in the past")
	}
	return nil
}

// SetApproval lets the item owner approve or reject a booking. Terminal bookings may be decided again.
func (s *BookingService) SetApproval(ctx context.Context, bookingID, userID int64, approved bool) (*models.BookingView, error) {
	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	booking, err := loadBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != userID {
		return nil, domain.Forbidden("User %d is not the owner of item %d", userID, booking.ItemID)
	}

	status, eventType := models.StatusRejected, events.EventBookingRejected
	if approved {
		status, eventType = models.StatusApproved, events.EventBookingApproved
	}
	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	booking.Status = status

	s.publish(eventType, booking, userID)
	view := models.NewBookingView(booking)
	return &view, nil
}

// FindByID is visible to the booker and the item owner only.
func (s *BookingService) FindByID(ctx context.Context, bookingID, userID int64) (*models.BookingView, error) {
	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	booking, err := loadBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.OwnerID != userID {
		return nil, domain.Forbidden("User %d may not view booking %d", userID, bookingID)
	}
	view := models.NewBookingView(booking)
	return &view, nil
}

func (s *BookingService) ListForUser(ctx context.Context, state string, userID int64, page models.Page) ([]models.BookingView, error) {
	return s.list(ctx, state, userID, page, func(f *models.BookingFilter) { f.BookerID = userID })
}

func (s *BookingService) ListForOwner(ctx context.Context, state string, userID int64, page models.Page) ([]models.BookingView, error) {
	return s.list(ctx, state, userID, page, func(f *models.BookingFilter) { f.OwnerID = userID })
}

func (s *BookingService) list(
	ctx context.Context, rawState string, userID int64, page models.Page, scope func(*models.BookingFilter),
) ([]models.BookingView, error) {
	state, ok := models.ParseBookingState(rawState)
	if !ok {
		return nil, domain.UnsupportedState(rawState)
	}
	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	filter := models.BookingFilter{State: state, Now: s.now()}
	scope(&filter)

	bookings, err := s.repo.ListBookings(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.NewBookingView(b))
	}
	return views, nil
}

func (s *BookingService) publish(eventType string, b *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		ItemName:  b.ItemName,
		OwnerID:   b.OwnerID,
		BookerID:  b.BookerID,
		Status:    string(b.Status),
		Start:     b.Start,
		End:       b.End,
		ActorID:   actorID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Int64("booking_id", b.ID).Msg("failed to publish booking event")
	}
}
