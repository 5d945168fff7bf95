package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// ContactInfo is how guests reach a property
type ContactInfo struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Property is a listed accommodation
type Property struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	PropertyType        string       `json:"propertyType,omitempty"`
	Location            string       `json:"location"`
	City                string       `json:"city"`
	Region              string       `json:"region,omitempty"`
	Price               Amount       `json:"price"`
	Currency            string       `json:"currency,omitempty"`
	MainImageURL        string       `json:"mainImageUrl,omitempty"`
	AdditionalImageURLs []string     `json:"additionalImageUrls,omitempty"`
	Amenities           []string     `json:"amenities,omitempty"`
	ContactInfo         *ContactInfo `json:"contactInfo,omitempty"`
	Latitude            Amount       `json:"latitude,omitempty"`
	Longitude           Amount       `json:"longitude,omitempty"`
	CategoryID          string       `json:"categoryId,omitempty"`
	IsActive            bool         `json:"isActive"`
	IsFeatured          bool         `json:"isFeatured,omitempty"`
	CreatedAt           string       `json:"createdAt,omitempty"`
	UpdatedAt           string       `json:"updatedAt,omitempty"`
	RoomTypes           []RoomType   `json:"roomTypes,omitempty"`
}

// PropertyList is the property listing. The backend sends either a bare array or an object
// with a properties member; both decode to the same list.
type PropertyList []Property

func (l *PropertyList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []Property
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var wrapped struct {
		Properties []Property `json:"properties"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Properties
	return nil
}

// PropertyInput is the body for creating or updating a property
type PropertyInput struct {
	Name                string       `json:"name" validate:"required"`
	Description         string       `json:"description" validate:"required,min=10"`
	PropertyType        string       `json:"propertyType,omitempty"`
	MainImageURL        string       `json:"mainImageUrl" validate:"required"`
	AdditionalImageURLs []string     `json:"additionalImageUrls,omitempty"`
	Location            string       `json:"location" validate:"required"`
	City                string       `json:"city" validate:"required"`
	Region              string       `json:"region" validate:"required"`
	Price               float64      `json:"price" validate:"gt=0"`
	Currency            string       `json:"currency,omitempty"`
	CategoryID          string       `json:"categoryId" validate:"required"`
	Amenities           []string     `json:"amenities,omitempty"`
	ContactInfo         *ContactInfo `json:"contactInfo,omitempty"`
	Latitude            *float64     `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude           *float64     `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	IsActive            *bool        `json:"isActive,omitempty"`
	IsFeatured          *bool        `json:"isFeatured,omitempty"`
}

// Category groups properties
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// CategoryInput is the body for creating or updating a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon" validate:"required"`
	Color       string `json:"color" validate:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// RoomType is a bookable room configuration of a property
type RoomType struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          Amount   `json:"price"`
	Currency       string   `json:"currency,omitempty"`
	GenderType     string   `json:"genderType"`
	Capacity       int      `json:"capacity"`
	Amenities      []string `json:"amenities,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	PropertyID     string   `json:"propertyId"`
	AvailableRooms int      `json:"availableRooms"`
	TotalRooms     int      `json:"totalRooms"`
	IsAvailable    bool     `json:"isAvailable"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	UpdatedAt      string   `json:"updatedAt,omitempty"`
}

// RoomTypeInput is the body for creating or updating a room type
type RoomTypeInput struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description" validate:"required,min=10"`
	Capacity       int      `json:"capacity" validate:"gt=0"`
	Price          float64  `json:"price" validate:"gt=0"`
	Currency       string   `json:"currency,omitempty"`
	GenderType     string   `json:"genderType" validate:"required,oneof=MALE FEMALE MIXED ANY"`
	PropertyID     string   `json:"propertyId" validate:"required"`
	Amenities      []string `json:"amenities,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	TotalRooms     int      `json:"totalRooms,omitempty" validate:"gte=0"`
	AvailableRooms int      `json:"availableRooms,omitempty" validate:"gte=0"`
}

// RegionalSection is a curated grouping of properties shown by region
type RegionalSection struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DisplayOrder int        `json:"displayOrder"`
	IsActive     bool       `json:"isActive"`
	Properties   []Property `json:"properties,omitempty"`
	CreatedAt    string     `json:"createdAt,omitempty"`
	UpdatedAt    string     `json:"updatedAt,omitempty"`
}

// RegionalSectionInput is the body for creating or updating a regional section
type RegionalSectionInput struct {
	Name         string `json:"name,omitempty" validate:"required"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// ListProperties returns all properties
func (c *Client) ListProperties(ctx context.Context) (*Envelope[PropertyList], error) {
	return call[PropertyList](ctx, c, "/admin/properties", RequestOptions{})
}

// GetProperty returns one property
func (c *Client) GetProperty(ctx context.Context, id string) (*Envelope[Property], error) {
	return call[Property](ctx, c, "/admin/properties/"+url.PathEscape(id), RequestOptions{})
}

// CreateProperty creates a property
func (c *Client) CreateProperty(ctx context.Context, in PropertyInput) (*Envelope[Property], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Property](ctx, c, "/admin/properties", RequestOptions{Method: http.MethodPost, Body: in})
}

// UpdateProperty replaces the editable fields of a property
func (c *Client) UpdateProperty(ctx context.Context, id string, in PropertyInput) (*Envelope[Property], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Property](ctx, c, "/admin/properties/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: in})
}

// DeleteProperty deletes a property
func (c *Client) DeleteProperty(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/properties/"+url.PathEscape(id))
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context) (*Envelope[[]Category], error) {
	return call[[]Category](ctx, c, "/admin/categories", RequestOptions{})
}

// GetCategory returns one category
func (c *Client) GetCategory(ctx context.Context, id string) (*Envelope[Category], error) {
	return call[Category](ctx, c, "/admin/categories/"+url.PathEscape(id), RequestOptions{})
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Envelope[Category], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Category](ctx, c, "/admin/categories", RequestOptions{Method: http.MethodPost, Body: in})
}

// UpdateCategory updates a category
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Envelope[Category], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Category](ctx, c, "/admin/categories/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: in})
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/categories/"+url.PathEscape(id))
}

// ListRoomTypes returns all room types
func (c *Client) ListRoomTypes(ctx context.Context) (*Envelope[[]RoomType], error) {
	return call[[]RoomType](ctx, c, "/admin/room-types", RequestOptions{})
}

// GetRoomType returns one room type
func (c *Client) GetRoomType(ctx context.Context, id string) (*Envelope[RoomType], error) {
	return call[RoomType](ctx, c, "/admin/room-types/"+url.PathEscape(id), RequestOptions{})
}

// CreateRoomType creates a room type
func (c *Client) CreateRoomType(ctx context.Context, in RoomTypeInput) (*Envelope[RoomType], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[RoomType](ctx, c, "/admin/room-types", RequestOptions{Method: http.MethodPost, Body: in})
}

// UpdateRoomType updates a room type
func (c *Client) UpdateRoomType(ctx context.Context, id string, in RoomTypeInput) (*Envelope[RoomType], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[RoomType](ctx, c, "/admin/room-types/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: in})
}

// DeleteRoomType deletes a room type
func (c *Client) DeleteRoomType(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/room-types/"+url.PathEscape(id))
}

// ListRegionalSections returns all regional sections
func (c *Client) ListRegionalSections(ctx context.Context) (*Envelope[[]RegionalSection], error) {
	return call[[]RegionalSection](ctx, c, "/admin/regional-sections", RequestOptions{})
}

// GetRegionalSection returns one regional section
func (c *Client) GetRegionalSection(ctx context.Context, id string) (*Envelope[RegionalSection], error) {
	return call[RegionalSection](ctx, c, "/admin/regional-sections/"+url.PathEscape(id), RequestOptions{})
}

// CreateRegionalSection creates a regional section
func (c *Client) CreateRegionalSection(ctx context.Context, in RegionalSectionInput) (*Envelope[RegionalSection], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[RegionalSection](ctx, c, "/admin/regional-sections", RequestOptions{Method: http.MethodPost, Body: in})
}

// UpdateRegionalSection updates a regional section. All fields are optional.
func (c *Client) UpdateRegionalSection(ctx context.Context, id string, in RegionalSectionInput) (*Envelope[RegionalSection], error) {
	return call[RegionalSection](ctx, c, "/admin/regional-sections/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: in})
}

// DeleteRegionalSection deletes a regional section
func (c *Client) DeleteRegionalSection(ctx context.Context, id string) (*RawEnvelope, error) {
	return c.Delete(ctx, "/admin/regional-sections/"+url.PathEscape(id))
}

// AssignPropertyToRegionalSection adds a property to a regional section
func (c *Client) AssignPropertyToRegionalSection(ctx context.Context, propertyID, regionalSectionID string) (*RawEnvelope, error) {
	return c.Post(ctx, "/admin/assign-property-to-regional-section", map[string]string{
		"propertyId":        propertyID,
		"regionalSectionId": regionalSectionID,
	})
}
