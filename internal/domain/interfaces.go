package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	ListBookings(ctx context.Context, filter models.BookingFilter, page models.Page) ([]*models.Booking, error)
	GetBookingsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequest(ctx context.Context, id int64) (*models.Request, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.Request, error)
	GetRequestsOfOthers(ctx context.Context, requesterID int64, page models.Page) ([]*models.Request, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

// RateLimitRepository counts calls per acting user inside a fixed window.
type RateLimitRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	Update(ctx context.Context, patch models.UserPatch, userID int64) (*models.User, error)
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ItemService interface {
	Create(ctx context.Context, in models.NewItem, ownerID int64) (*models.ItemView, error)
	Update(ctx context.Context, patch models.ItemPatch, itemID, userID int64) (*models.ItemView, error)
	FindByID(ctx context.Context, itemID, userID int64) (*models.ItemView, error)
	ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error)
	SearchByText(ctx context.Context, text string, page models.Page) ([]models.ItemView, error)
	Delete(ctx context.Context, itemID, userID int64) error
	AddComment(ctx context.Context, in models.NewComment, itemID, authorID int64) (*models.CommentView, error)
}

type BookingService interface {
	Create(ctx context.Context, in models.NewBooking, userID int64) (*models.BookingView, error)
	SetApproval(ctx context.Context, bookingID, userID int64, approved bool) (*models.BookingView, error)
	FindByID(ctx context.Context, bookingID, userID int64) (*models.BookingView, error)
	ListForUser(ctx context.Context, state string, userID int64, page models.Page) ([]models.BookingView, error)
	ListForOwner(ctx context.Context, state string, userID int64, page models.Page) ([]models.BookingView, error)
}

type RequestService interface {
	Create(ctx context.Context, in models.NewRequest, requesterID int64) (*models.RequestView, error)
	GetUserRequestsWithAnswers(ctx context.Context, requesterID int64) ([]models.RequestView, error)
	GetRequestsOfOthers(ctx context.Context, requesterID int64, page models.Page) ([]models.RequestView, error)
	GetByID(ctx context.Context, requesterID, requestID int64) (*models.RequestView, error)
}
