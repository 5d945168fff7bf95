package api

import (
	"context"
	"net/http"
	"net/url"
)

// User is an end-user account of the Swift Stay app
type User struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Location        string `json:"location,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	IsPhoneVerified bool   `json:"isPhoneVerified"`
	IsActive        bool   `json:"isActive"`
	LastLoginAt     string `json:"lastLoginAt,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// UserList is one page of users
type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// UserFilter selects a page of users
type UserFilter struct {
	Page   int    `url:"page"`
	Limit  int    `url:"limit"`
	Search string `url:"search,omitempty"`
}

// UserStats are the user counters
type UserStats struct {
	TotalUsers        Count `json:"totalUsers"`
	ActiveUsers       Count `json:"activeUsers"`
	NewUsersThisWeek  Count `json:"newUsersThisWeek"`
	NewUsersThisMonth Count `json:"newUsersThisMonth"`
}

// ListUsers returns one page of users. Page defaults to 1 and limit to 20.
func (c *Client) ListUsers(ctx context.Context, f UserFilter) (*Envelope[UserList], error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return call[UserList](ctx, c, "/admin/users", RequestOptions{Query: f})
}

// UserStats returns the user counters
func (c *Client) UserStats(ctx context.Context) (*Envelope[UserStats], error) {
	return call[UserStats](ctx, c, "/admin/users/stats", RequestOptions{})
}

// GetUser returns one user
func (c *Client) GetUser(ctx context.Context, id string) (*Envelope[User], error) {
	return call[User](ctx, c, "/admin/users/"+url.PathEscape(id), RequestOptions{})
}

// UpdateUserStatus activates or deactivates a user
func (c *Client) UpdateUserStatus(ctx context.Context, id string, isActive bool) (*Envelope[User], error) {
	return call[User](ctx, c, "/admin/users/"+url.PathEscape(id)+"/status", RequestOptions{
		Method: http.MethodPatch,
		Body:   map[string]bool{"isActive": isActive},
	})
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/users/"+url.PathEscape(id))
}
