package api

import (
	"context"
	"net/http"
	"net/url"
)

// BookingProperty is the property summary embedded in a booking
type BookingProperty struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	City     string `json:"city"`
}

// BookingRoomType is the room type summary embedded in a booking
type BookingRoomType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Currency string `json:"currency"`
	Capacity int    `json:"capacity"`
}

// BookingUser is the guest summary embedded in a booking
type BookingUser struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Booking is a guest reservation
type Booking struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	PropertyID       string           `json:"propertyId"`
	RoomTypeID       string           `json:"roomTypeId"`
	CheckInDate      string           `json:"checkInDate"`
	CheckOutDate     *string          `json:"checkOutDate,omitempty"`
	TotalAmount      Amount           `json:"totalAmount"`
	Currency         string           `json:"currency"`
	Status           string           `json:"status"`
	PaymentReference string           `json:"paymentReference,omitempty"`
	IsPaid           bool             `json:"isPaid"`
	CreatedAt        string           `json:"createdAt,omitempty"`
	UpdatedAt        string           `json:"updatedAt,omitempty"`
	Property         *BookingProperty `json:"property,omitempty"`
	RoomType         *BookingRoomType `json:"roomType,omitempty"`
	User             *BookingUser     `json:"user,omitempty"`
}

// BookingList is one page of bookings
type BookingList struct {
	Bookings   []Booking  `json:"bookings"`
	Pagination Pagination `json:"pagination"`
}

// BookingFilter selects bookings. Zero values are not sent.
type BookingFilter struct {
	Page       int    `url:"page,omitempty"`
	Limit      int    `url:"limit,omitempty"`
	Status     string `url:"status,omitempty"`
	PropertyID string `url:"propertyId,omitempty"`
	Search     string `url:"search,omitempty"`
	SortBy     string `url:"sortBy,omitempty"`
	SortOrder  string `url:"sortOrder,omitempty" validate:"omitempty,oneof=ASC DESC"`
}

// BookingStats are the booking counters
type BookingStats struct {
	TotalBookings     Count  `json:"totalBookings"`
	ConfirmedBookings Count  `json:"confirmedBookings"`
	PendingBookings   Count  `json:"pendingBookings"`
	CancelledBookings Count  `json:"cancelledBookings"`
	TotalRevenue      Amount `json:"totalRevenue"`
}

type bookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Notes  string `json:"notes,omitempty"`
}

// ListBookings returns bookings matching f
func (c *Client) ListBookings(ctx context.Context, f BookingFilter) (*Envelope[BookingList], error) {
	if err := checkPayload(f); err != nil {
		return nil, err
	}
	return call[BookingList](ctx, c, "/bookings/admin/all", RequestOptions{Query: f})
}

// BookingStats returns the booking counters
func (c *Client) BookingStats(ctx context.Context) (*Envelope[BookingStats], error) {
	return call[BookingStats](ctx, c, "/bookings/admin/stats", RequestOptions{})
}

// UpdateBookingStatus moves a booking to a new status with optional notes
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status, notes string) (*Envelope[Booking], error) {
	in := bookingStatusInput{Status: status, Notes: notes}
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Booking](ctx, c, "/bookings/admin/"+url.PathEscape(id)+"/status", RequestOptions{
		Method: http.MethodPatch,
		Body:   in,
	})
}

// GetBooking returns one booking
func (c *Client) GetBooking(ctx context.Context, id string) (*Envelope[Booking], error) {
	return call[Booking](ctx, c, "/bookings/"+url.PathEscape(id), RequestOptions{})
}
