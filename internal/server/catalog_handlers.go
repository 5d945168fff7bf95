package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PropertyRequest creates or replaces a property
type PropertyRequest struct {
	Name                string         `json:"name" validate:"required"`
	Description         string         `json:"description" validate:"required,min=10"`
	PropertyType        string         `json:"propertyType,omitempty"`
	MainImageURL        string         `json:"mainImageUrl" validate:"required"`
	AdditionalImageURLs []string       `json:"additionalImageUrls,omitempty"`
	Location            string         `json:"location" validate:"required"`
	City                string         `json:"city" validate:"required"`
	Region              string         `json:"region" validate:"required"`
	Price               float64        `json:"price" validate:"gt=0"`
	Currency            string         `json:"currency,omitempty"`
	CategoryID          string         `json:"categoryId" validate:"required"`
	Amenities           []string       `json:"amenities,omitempty"`
	ContactInfo         map[string]any `json:"contactInfo,omitempty"`
	Latitude            *float64       `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude           *float64       `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	IsActive            *bool          `json:"isActive,omitempty"`
	IsFeatured          *bool          `json:"isFeatured,omitempty"`
}

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon" validate:"required"`
	Color       string `json:"color" validate:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// RoomTypeRequest creates or replaces a room type
type RoomTypeRequest struct {
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

// RegionalSectionRequest creates a regional section
type RegionalSectionRequest struct {
	Name         string `json:"name" validate:"required"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// RegionalSectionUpdateRequest changes a regional section. All fields are optional.
type RegionalSectionUpdateRequest struct {
	Name         string `json:"name,omitempty"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// AssignPropertyRequest adds a property to a regional section
type AssignPropertyRequest struct {
	PropertyID        string `json:"propertyId" validate:"required"`
	RegionalSectionID string `json:"regionalSectionId" validate:"required"`
}

// resource describes a collection served with list/get/create/update/delete routes
type resource struct {
	table    string
	noun     string
	defaults doc

	newCreate func() any
	newUpdate func() any

	// wrapList names the member the list is wrapped in; empty returns a bare array
	wrapList string

	// validate checks references between collections; it returns a message on failure
	validate func(d doc) string
}

func (s *Server) registerCatalog(g *gin.RouterGroup) {
	s.registerResource(g, "/properties", resource{
		table:     tableProperties,
		noun:      "Property",
		defaults:  doc{"currency": "GHS", "isActive": true, "isFeatured": false, "likeCount": 0},
		newCreate: func() any { return &PropertyRequest{} },
		newUpdate: func() any { return &PropertyRequest{} },
		wrapList:  "properties",
		validate: func(d doc) string {
			if _, ok := s.docs.get(tableCategories, str(d, "categoryId")); !ok {
				return "Category not found"
			}
			return ""
		},
	})

	s.registerResource(g, "/categories", resource{
		table:     tableCategories,
		noun:      "Category",
		defaults:  doc{"isActive": true},
		newCreate: func() any { return &CategoryRequest{} },
		newUpdate: func() any { return &CategoryRequest{} },
	})

	s.registerResource(g, "/room-types", resource{
		table:     tableRoomTypes,
		noun:      "Room type",
		defaults:  doc{"currency": "GHS", "isActive": true, "isAvailable": true},
		newCreate: func() any { return &RoomTypeRequest{} },
		newUpdate: func() any { return &RoomTypeRequest{} },
		validate: func(d doc) string {
			if _, ok := s.docs.get(tableProperties, str(d, "propertyId")); !ok {
				return "Property not found"
			}
			return ""
		},
	})

	s.registerResource(g, "/regional-sections", resource{
		table:     tableRegionalSections,
		noun:      "Regional section",
		defaults:  doc{"isActive": true, "displayOrder": 0, "propertyIds": []any{}},
		newCreate: func() any { return &RegionalSectionRequest{} },
		newUpdate: func() any { return &RegionalSectionUpdateRequest{} },
	})

	g.POST("/assign-property-to-regional-section", s.assignPropertyToRegionalSection)
}

func (s *Server) registerResource(g *gin.RouterGroup, path string, r resource) {
	g.GET(path, func(c *gin.Context) {
		items := s.docs.list(r.table)
		if items == nil {
			items = []doc{}
		}
		if r.wrapList != "" {
			respondOK(c, http.StatusOK, "", gin.H{r.wrapList: items})
			return
		}
		respondOK(c, http.StatusOK, "", items)
	})

	g.GET(path+"/:id", func(c *gin.Context) {
		d, ok := s.docs.get(r.table, c.Param("id"))
		if !ok {
			respondError(c, http.StatusNotFound, r.noun+" not found")
			return
		}
		respondOK(c, http.StatusOK, "", d)
	})

	g.POST(path, func(c *gin.Context) {
		req := r.newCreate()
		if !s.bind(c, req) {
			return
		}
		fields, err := toDoc(req)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if r.validate != nil {
			if msg := r.validate(fields); msg != "" {
				respondError(c, http.StatusBadRequest, msg)
				return
			}
		}
		for k, v := range r.defaults {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}

		d, err := s.docs.insert(r.table, fields)
		if err != nil {
			s.logger.Error().Err(err).Str("table", r.table).Msg("Failed to create document")
			respondError(c, http.StatusInternalServerError, "Failed to create "+r.noun)
			return
		}
		s.logger.Info().Str("table", r.table).Str("id", str(d, "id")).Msg("Document created")
		respondOK(c, http.StatusCreated, r.noun+" created successfully", d)
	})

	g.PUT(path+"/:id", func(c *gin.Context) {
		req := r.newUpdate()
		if !s.bind(c, req) {
			return
		}
		fields, err := toDoc(req)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if r.validate != nil {
			if msg := r.validate(fields); msg != "" {
				respondError(c, http.StatusBadRequest, msg)
				return
			}
		}

		d, ok, err := s.docs.update(r.table, c.Param("id"), fields)
		if err != nil {
			s.logger.Error().Err(err).Str("table", r.table).Msg("Failed to update document")
			respondError(c, http.StatusInternalServerError, "Failed to update "+r.noun)
			return
		}
		if !ok {
			respondError(c, http.StatusNotFound, r.noun+" not found")
			return
		}
		respondOK(c, http.StatusOK, r.noun+" updated successfully", d)
	})

	g.DELETE(path+"/:id", func(c *gin.Context) {
		ok, err := s.docs.delete(r.table, c.Param("id"))
		if err != nil {
			s.logger.Error().Err(err).Str("table", r.table).Msg("Failed to delete document")
			respondError(c, http.StatusInternalServerError, "Failed to delete "+r.noun)
			return
		}
		if !ok {
			respondError(c, http.StatusNotFound, r.noun+" not found")
			return
		}
		s.logger.Info().Str("table", r.table).Str("id", c.Param("id")).Msg("Document deleted")
		respondOK(c, http.StatusOK, r.noun+" deleted successfully", nil)
	})
}

// @Summary Assign property to regional section
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignPropertyRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/assign-property-to-regional-section [post]
func (s *Server) assignPropertyToRegionalSection(c *gin.Context) {
	var req AssignPropertyRequest
	if !s.bind(c, &req) {
		return
	}

	property, ok := s.docs.get(tableProperties, req.PropertyID)
	if !ok {
		respondError(c, http.StatusNotFound, "Property not found")
		return
	}
	section, ok := s.docs.get(tableRegionalSections, req.RegionalSectionID)
	if !ok {
		respondError(c, http.StatusNotFound, "Regional section not found")
		return
	}

	ids, _ := section["propertyIds"].([]any)
	for _, id := range ids {
		if id == req.PropertyID {
			respondOK(c, http.StatusOK, "Property already assigned to regional section", section)
			return
		}
	}
	ids = append(append([]any{}, ids...), req.PropertyID)

	updated, _, err := s.docs.update(tableRegionalSections, req.RegionalSectionID, doc{"propertyIds": ids})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to assign property")
		respondError(c, http.StatusInternalServerError, "Failed to assign property")
		return
	}

	s.logger.Info().
		Str("property_id", req.PropertyID).
		Str("regional_section_id", req.RegionalSectionID).
		Str("property", str(property, "name")).
		Msg("Property assigned to regional section")
	respondOK(c, http.StatusOK, "Property assigned to regional section successfully", updated)
}
