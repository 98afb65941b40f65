package models

import "time"

// BookingShort is the last/next booking annotation on an owner's item view.
type BookingShort struct {
	ID    int64     `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	RequestID   *int64        `json:"requestId,omitempty"`
	LastBooking *BookingShort `json:"lastBooking,omitempty"`
	NextBooking *BookingShort `json:"nextBooking,omitempty"`
	Comments    []CommentView `json:"comments"`
}

type BookerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingView struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status BookingStatus `json:"status"`
	Booker BookerRef     `json:"booker"`
	Item   ItemRef       `json:"item"`
}

// RequestItem is an item created in answer to a request.
type RequestItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"requestId"`
	OwnerID     int64  `json:"ownerId"`
}

type RequestView struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     time.Time     `json:"created"`
	Items       []RequestItem `json:"items"`
}

func NewCommentView(c *Comment) CommentView {
	return CommentView{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.Created}
}

func NewItemView(item *Item) ItemView {
	return ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    []CommentView{},
	}
}

func NewBookingView(b *Booking) BookingView {
	return BookingView{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Booker: BookerRef{ID: b.BookerID, Name: b.BookerName},
		Item:   ItemRef{ID: b.ItemID, Name: b.ItemName},
	}
}

func NewBookingShort(b *Booking) *BookingShort {
	return &BookingShort{ID: b.ID, Start: b.Start, End: b.End}
}
