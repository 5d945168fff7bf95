package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// NotificationUser is the recipient of a targeted notification
type NotificationUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Notification is a push/in-app notification
type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      string            `json:"type"`
	IsRead    bool              `json:"isRead"`
	Data      json.RawMessage   `json:"data,omitempty"`
	User      *NotificationUser `json:"user,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// NotificationList is one page of notifications
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}

// NotificationFilter selects a page of notifications
type NotificationFilter struct {
	Page   int    `url:"page"`
	Limit  int    `url:"limit"`
	Type   string `url:"type,omitempty"`
	IsRead *bool  `url:"isRead,omitempty"`
}

// TypeCount is the number of notifications of one type
type TypeCount struct {
	Type  string `json:"type"`
	Count Count  `json:"count"`
}

// NotificationStats are the notification counters
type NotificationStats struct {
	TotalNotifications  Count       `json:"totalNotifications"`
	UnreadNotifications Count       `json:"unreadNotifications"`
	NotificationsByType []TypeCount `json:"notificationsByType"`
	RecentNotifications Count       `json:"recentNotifications"`
}

// NotificationInput is the body for broadcasting a notification
type NotificationInput struct {
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=new_property property_update system promotion"`
	TargetUsers string `json:"targetUsers" validate:"required,oneof=all verified"`
}

// ListNotifications returns one page of notifications. Page defaults to 1 and limit to 20.
func (c *Client) ListNotifications(ctx context.Context, f NotificationFilter) (*Envelope[NotificationList], error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return call[NotificationList](ctx, c, "/admin/notifications", RequestOptions{Query: f})
}

// NotificationStats returns the notification counters
func (c *Client) NotificationStats(ctx context.Context) (*Envelope[NotificationStats], error) {
	return call[NotificationStats](ctx, c, "/admin/notifications-stats", RequestOptions{})
}

// CreateNotification broadcasts a notification
func (c *Client) CreateNotification(ctx context.Context, in NotificationInput) (*Envelope[Notification], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Notification](ctx, c, "/admin/notifications", RequestOptions{Method: http.MethodPost, Body: in})
}

// DeleteNotification deletes a notification
func (c *Client) DeleteNotification(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/notifications/"+url.PathEscape(id))
}

// MarkNotificationRead marks a notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Patch(ctx, "/admin/notifications/"+url.PathEscape(id)+"/read", nil)
}

// TestPushNotification sends a test push to the signed-in admin's devices
func (c *Client) TestPushNotification(ctx context.Context) (*RawEnvelope, error) {
	return c.Post(ctx, "/admin/test-push-notification", nil)
}
