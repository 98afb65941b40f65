package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

// Store lookups shared by the services. A missing row becomes a domain NotFound.

func loadUser(ctx context.Context, repo domain.Repository, id int64) (*models.User, error) {
	user, err := repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("User with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func loadItem(ctx context.Context, repo domain.Repository, id int64) (*models.Item, error) {
	item, err := repo.GetItemByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("Item with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return item, nil
}

func loadBooking(ctx context.Context, repo domain.Repository, id int64) (*models.Booking, error) {
	booking, err := repo.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("Booking with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return booking, nil
}

func loadRequest(ctx context.Context, repo domain.Repository, id int64) (*models.Request, error) {
	request, err := repo.GetRequest(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("Request with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return request, nil
}

var (
	_ domain.UserService    = (*UserService)(nil)
	_ domain.ItemService    = (*ItemService)(nil)
	_ domain.BookingService = (*BookingService)(nil)
	_ domain.RequestService = (*RequestService)(nil)
)
