package api

import (
	"context"
	"net/http"
	"net/url"
)

// Owner application statuses
const (
	ApplicationPending   = "pending"
	ApplicationReviewing = "reviewing"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
)

// OwnerApplication is a request from a property owner to list with Swift Stay
type OwnerApplication struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	PropertyName   string  `json:"propertyName"`
	City           string  `json:"city"`
	Region         string  `json:"region"`
	PropertyType   *string `json:"propertyType"`
	UnitsAvailable *int    `json:"unitsAvailable"`
	Message        *string `json:"message"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}

// OwnerApplicationList is one page of owner applications
type OwnerApplicationList struct {
	Items []OwnerApplication `json:"items"`
	Total int                `json:"total"`
}

// OwnerApplicationFilter selects a page of owner applications
type OwnerApplicationFilter struct {
	Page   int    `url:"page"`
	Limit  int    `url:"limit"`
	Status string `url:"status,omitempty"`
}

type applicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending reviewing approved rejected"`
}

// ListOwnerApplications returns one page of owner applications. Page defaults to 1 and limit
// to 20. A status of "all" is the same as no status filter.
func (c *Client) ListOwnerApplications(ctx context.Context, f OwnerApplicationFilter) (*Envelope[OwnerApplicationList], error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Status == "all" {
		f.Status = ""
	}
	return call[OwnerApplicationList](ctx, c, "/admin/owner-applications", RequestOptions{Query: f})
}

// UpdateOwnerApplicationStatus moves an application to a new status
func (c *Client) UpdateOwnerApplicationStatus(ctx context.Context, id, status string) (*Envelope[OwnerApplication], error) {
	in := applicationStatusInput{Status: status}
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[OwnerApplication](ctx, c, "/admin/owner-applications/"+url.PathEscape(id)+"/status", RequestOptions{
		Method: http.MethodPatch,
		Body:   in,
	})
}
