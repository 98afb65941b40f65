package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shareit/internal/domain"
	"shareit/internal/models"
)

var _ domain.Repository = (*mockRepo)(nil)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) UpdateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}
func (m *mockRepo) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockRepo) UpdateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}
func (m *mockRepo) DeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) GetItemsByOwner(ctx context.Context, ownerID int64, p models.Page) ([]*models.Item, error) {
	args := m.Called(ctx, ownerID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) SearchAvailableItems(ctx context.Context, text string, p models.Page) ([]*models.Item, error) {
	args := m.Called(ctx, text, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) GetItemsByRequestIDs(ctx context.Context, ids []int64) ([]*models.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) UpdateBookingStatus(ctx context.Context, id int64, s models.BookingStatus) error {
	return m.Called(ctx, id, s).Error(0)
}
func (m *mockRepo) ListBookings(ctx context.Context, f models.BookingFilter, p models.Page) ([]*models.Booking, error) {
	args := m.Called(ctx, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByItemIDs(ctx context.Context, ids []int64) ([]*models.Booking, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, itemID, bookerID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) CreateRequest(ctx context.Context, r *models.Request) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}
func (m *mockRepo) GetRequestsByRequester(ctx context.Context, id int64) ([]*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}
func (m *mockRepo) GetRequestsOfOthers(ctx context.Context, id int64, p models.Page) ([]*models.Request, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *mockRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) GetCommentsByItemIDs(ctx context.Context, ids []int64) ([]*models.Comment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}
