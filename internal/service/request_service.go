package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger, now: time.Now}
}

func (s *RequestService) Create(ctx context.Context, in models.NewRequest, requesterID int64) (*models.RequestView, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.Validation("Request description must not be blank")
	}
	if _, err := loadUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}

	request := &models.Request{
		Description: in.Description,
		RequesterID: requesterID,
		Created:     s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	views, err := s.withItems(ctx, []*models.Request{request})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetUserRequestsWithAnswers lists the requester's own requests, newest first.
func (s *RequestService) GetUserRequestsWithAnswers(ctx context.Context, requesterID int64) ([]models.RequestView, error) {
	if _, err := loadUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) GetRequestsOfOthers(ctx context.Context, requesterID int64, page models.Page) ([]models.RequestView, error) {
	if _, err := loadUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsOfOthers(ctx, requesterID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) GetByID(ctx context.Context, requesterID, requestID int64) (*models.RequestView, error) {
	if _, err := loadUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}
	request, err := loadRequest(ctx, s.repo, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.withItems(ctx, []*models.Request{request})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RequestService) withItems(ctx context.Context, requests []*models.Request) ([]models.RequestView, error) {
	views := make([]models.RequestView, 0, len(requests))
	if len(requests) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load answering items: %w", err)
	}

	byRequest := make(map[int64][]models.RequestItem)
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], models.RequestItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Available:   item.Available,
			RequestID:   *item.RequestID,
			OwnerID:     item.OwnerID,
		})
	}

	for _, r := range requests {
		items := byRequest[r.ID]
		if items == nil {
			items = []models.RequestItem{}
		}
		views = append(views, models.RequestView{
			ID:          r.ID,
			Description: r.Description,
			Created:     r.Created,
			Items:       items,
		})
	}
	return views, nil
}
