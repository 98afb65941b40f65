package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ItemService) Create(ctx context.Context, in models.NewItem, ownerID int64) (*models.ItemView, error) {
	if in.Available == nil {
		return nil, domain.Validation("Item availability must be set")
	}
	if _, err := loadUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	if in.RequestID != nil {
		if _, err := loadRequest(ctx, s.repo, *in.RequestID); err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	view := models.NewItemView(item)
	return &view, nil
}

// Update applies the non-nil patch fields. Only the owner may update.
func (s *ItemService) Update(ctx context.Context, patch models.ItemPatch, itemID, userID int64) (*models.ItemView, error) {
	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	item, err := loadItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, domain.Forbidden("User %d is not the owner of item %d", userID, itemID)
	}
	if patch.IsEmpty() {
		return nil, domain.Validation("Nothing to update for item %d", itemID)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	views, err := s.buildViews(ctx, []*models.Item{item}, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// FindByID annotates last/next bookings only when the caller owns the item.
func (s *ItemService) FindByID(ctx context.Context, itemID, userID int64) (*models.ItemView, error) {
	item, err := loadItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, []*models.Item{item}, item.OwnerID == userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error) {
	if _, err := loadUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return s.buildViews(ctx, items, true)
}

// SearchByText returns available items whose name or description contains text.
func (s *ItemService) SearchByText(ctx context.Context, text string, page models.Page) ([]models.ItemView, error) {
	if strings.TrimSpace(text) == "" {
		return []models.ItemView{}, nil
	}
	items, err := s.repo.SearchAvailableItems(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.NewItemView(item))
	}
	return views, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID, userID int64) error {
	item, err := loadItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return domain.Forbidden("User %d is not the owner of item %d", userID, itemID)
	}

	err = s.repo.DeleteItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFound("Item with id %d not found", itemID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// AddComment requires the author to have a booking of the item that already ended.
func (s *ItemService) AddComment(ctx context.Context, in models.NewComment, itemID, authorID int64) (*models.CommentView, error) {
	author, err := loadUser(ctx, s.repo, authorID)
	if err != nil {
		return nil, err
	}
	item, err := loadItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.Validation("Comment text must not be blank")
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	finished, err := s.repo.HasFinishedBooking(ctx, item.ID, author.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookings: %w", err)
	}
	if !finished {
		return nil, domain.Validation("User %d has no finished booking of item %d", authorID, itemID)
	}

	comment := &models.Comment{
		Text:       in.Text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		Created:    now,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: item.ID, AuthorID: author.ID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("failed to publish comment event")
		}
	}

	view := models.NewCommentView(comment)
	return &view, nil
}

// buildViews attaches comments to every item and, when withBookings is set, last/next bookings.
func (s *ItemService) buildViews(ctx context.Context, items []*models.Item, withBookings bool) ([]models.ItemView, error) {
	views := make([]models.ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	commentsByItem := make(map[int64][]models.CommentView)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], models.NewCommentView(c))
	}

	bookingsByItem := make(map[int64][]*models.Booking)
	if withBookings {
		bookings, err := s.repo.GetBookingsByItemIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		for _, b := range bookings {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
		}
	}

	now := s.now()
	for _, item := range items {
		view := models.NewItemView(item)
		if c := commentsByItem[item.ID]; len(c) > 0 {
			view.Comments = c
		}
		if withBookings {
			view.LastBooking, view.NextBooking = lastAndNext(bookingsByItem[item.ID], now)
		}
		views = append(views, view)
	}
	return views, nil
}

// lastAndNext picks the latest booking started before now and the earliest starting after now.
func lastAndNext(bookings []*models.Booking, now time.Time) (last, next *models.BookingShort) {
	var lastB, nextB *models.Booking
	for _, b := range bookings {
		switch {
		case b.Start.Before(now):
			if lastB == nil || b.Start.After(lastB.Start) {
				lastB = b
			}
		case b.Start.After(now):
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
		}
	}
	if lastB != nil {
		last = models.NewBookingShort(lastB)
	}
	if nextB != nil {
		next = models.NewBookingShort(nextB)
	}
	return last, next
}
