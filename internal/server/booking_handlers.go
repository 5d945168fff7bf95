package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// BookingStatusRequest moves a booking to a new status
type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Notes  string `json:"notes,omitempty"`
}

// withBookingRefs embeds property, room type and guest summaries into a booking
func (s *Server) withBookingRefs(b doc) doc {
	if p, ok := s.docs.get(tableProperties, str(b, "propertyId")); ok {
		b["property"] = gin.H{"id": p["id"], "name": p["name"], "location": p["location"], "city": p["city"]}
	}
	if rt, ok := s.docs.get(tableRoomTypes, str(b, "roomTypeId")); ok {
		b["roomType"] = gin.H{"id": rt["id"], "name": rt["name"], "price": rt["price"], "currency": rt["currency"], "capacity": rt["capacity"]}
	}
	if u, ok := s.docs.get(tableUsers, str(b, "userId")); ok {
		b["user"] = gin.H{"id": u["id"], "fullName": u["fullName"], "email": u["email"], "phoneNumber": u["phoneNumber"]}
	}
	return b
}

// @Summary List bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status"
// @Param propertyId query string false "Property ID"
// @Param search query string false "Guest name, email or payment reference"
// @Param sortBy query string false "createdAt or totalAmount"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} map[string]interface{}
// @Router /api/bookings/admin/all [get]
func (s *Server) listBookings(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	status := c.Query("status")
	propertyID := c.Query("propertyId")
	search := strings.TrimSpace(c.Query("search"))

	var matched []doc
	for _, b := range s.docs.list(tableBookings) {
		if status != "" && str(b, "status") != status {
			continue
		}
		if propertyID != "" && str(b, "propertyId") != propertyID {
			continue
		}
		b = s.withBookingRefs(b)
		if search != "" {
			user, _ := b["user"].(gin.H)
			name, _ := user["fullName"].(string)
			email, _ := user["email"].(string)
			if !containsFold(name, search) && !containsFold(email, search) && !containsFold(str(b, "paymentReference"), search) {
				continue
			}
		}
		matched = append(matched, b)
	}

	desc := !strings.EqualFold(c.Query("sortOrder"), "ASC")
	less := func(a, b doc) bool { return str(a, "createdAt") < str(b, "createdAt") }
	if c.Query("sortBy") == "totalAmount" {
		less = func(a, b doc) bool { return num(a, "totalAmount") < num(b, "totalAmount") }
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	bookings, pages := paginate(matched, page, limit)
	respondOK(c, http.StatusOK, "", gin.H{
		"bookings": bookings,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      len(matched),
			"totalPages": pages,
		},
	})
}

// @Summary Booking statistics
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/bookings/admin/stats [get]
func (s *Server) getBookingStats(c *gin.Context) {
	bookings := s.docs.list(tableBookings)
	byStatus := func(status string) func(doc) bool {
		return func(d doc) bool { return str(d, "status") == status }
	}

	revenue := 0.0
	for _, b := range bookings {
		if st := str(b, "status"); st == "confirmed" || st == "completed" {
			revenue += num(b, "totalAmount")
		}
	}

	// Revenue is a DECIMAL column upstream and arrives as a string
	respondOK(c, http.StatusOK, "", gin.H{
		"totalBookings":     len(bookings),
		"confirmedBookings": countDocs(bookings, byStatus("confirmed")),
		"pendingBookings":   countDocs(bookings, byStatus("pending")),
		"cancelledBookings": countDocs(bookings, byStatus("cancelled")),
		"totalRevenue":      formatAmount(revenue),
	})
}

// @Summary Update booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body BookingStatusRequest true "Status"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/bookings/admin/{id}/status [patch]
func (s *Server) updateBookingStatus(c *gin.Context) {
	var req BookingStatusRequest
	if !s.bind(c, &req) {
		return
	}

	patch := doc{"status": req.Status}
	if req.Notes != "" {
		patch["notes"] = req.Notes
	}
	if req.Status == "confirmed" || req.Status == "completed" {
		patch["isPaid"] = true
	}

	booking, ok, err := s.docs.update(tableBookings, c.Param("id"), patch)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Booking not found")
		return
	}

	s.logger.Info().Str("booking_id", c.Param("id")).Str("status", req.Status).Msg("Booking status updated")
	respondOK(c, http.StatusOK, "Booking status updated successfully", s.withBookingRefs(booking))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/bookings/{id} [get]
func (s *Server) getBooking(c *gin.Context) {
	booking, ok := s.docs.get(tableBookings, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Booking not found")
		return
	}
	respondOK(c, http.StatusOK, "", s.withBookingRefs(booking))
}
