package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// UserStatusRequest activates or deactivates a user
type UserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// NotificationRequest broadcasts a notification
type NotificationRequest struct {
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=new_property property_update system promotion"`
	TargetUsers string `json:"targetUsers" validate:"required,oneof=all verified"`
}

// ApplicationStatusRequest moves an owner application to a new status
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewing approved rejected"`
}

func pagination(page, limit, total, pages int) gin.H {
	return gin.H{"page": page, "limit": limit, "total": total, "pages": pages}
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Name or email substring"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	search := strings.TrimSpace(c.Query("search"))

	var matched []doc
	for _, u := range s.docs.list(tableUsers) {
		if search != "" && !containsFold(str(u, "fullName"), search) && !containsFold(str(u, "email"), search) {
			continue
		}
		matched = append(matched, u)
	}

	users, pages := paginate(matched, page, limit)
	respondOK(c, http.StatusOK, "", gin.H{
		"users":      users,
		"pagination": pagination(page, limit, len(matched), pages),
	})
}

// @Summary User statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users/stats [get]
func (s *Server) getUserStats(c *gin.Context) {
	now := s.docs.now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	respondOK(c, http.StatusOK, "", gin.H{
		"totalUsers":        s.docs.count(tableUsers, nil),
		"activeUsers":       s.docs.count(tableUsers, func(d doc) bool { return flag(d, "isActive") }),
		"newUsersThisWeek":  s.docs.count(tableUsers, createdSince(weekAgo)),
		"newUsersThisMonth": s.docs.count(tableUsers, createdSince(monthAgo)),
	})
}

// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	user, ok := s.docs.get(tableUsers, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, http.StatusOK, "", user)
}

// @Summary Activate or deactivate user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UserStatusRequest true "Status"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id}/status [patch]
func (s *Server) updateUserStatus(c *gin.Context) {
	var req UserStatusRequest
	if !s.bind(c, &req) {
		return
	}

	user, ok, err := s.docs.update(tableUsers, c.Param("id"), doc{"isActive": *req.IsActive})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	message := "User deactivated successfully"
	if *req.IsActive {
		message = "User activated successfully"
	}
	respondOK(c, http.StatusOK, message, user)
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	ok, err := s.docs.delete(tableUsers, c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("user_id", c.Param("id")).
		Str("deleted_by", sessionData.AdminID).
		Msg("User deleted")
	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param type query string false "Notification type"
// @Param isRead query string false "true or false"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/notifications [get]
func (s *Server) listNotifications(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	typ := c.Query("type")
	isRead := c.Query("isRead")

	var matched []doc
	for _, n := range s.docs.list(tableNotifications) {
		if typ != "" && str(n, "type") != typ {
			continue
		}
		if isRead != "" && (isRead == "true") != flag(n, "isRead") {
			continue
		}
		matched = append(matched, n)
	}

	notifications, pages := paginate(matched, page, limit)
	respondOK(c, http.StatusOK, "", gin.H{
		"notifications": notifications,
		"pagination":    pagination(page, limit, len(matched), pages),
	})
}

// @Summary Notification statistics
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/notifications-stats [get]
func (s *Server) getNotificationStats(c *gin.Context) {
	byType := map[string]int{}
	var order []string
	for _, n := range s.docs.list(tableNotifications) {
		typ := str(n, "type")
		if _, seen := byType[typ]; !seen {
			order = append(order, typ)
		}
		byType[typ]++
	}

	// Counts are strings, as SQL aggregates come back from the production backend
	grouped := make([]gin.H, 0, len(order))
	for _, typ := range order {
		grouped = append(grouped, gin.H{"type": typ, "count": strconv.Itoa(byType[typ])})
	}

	dayAgo := s.docs.now().Add(-24 * time.Hour)
	respondOK(c, http.StatusOK, "", gin.H{
		"totalNotifications":  s.docs.count(tableNotifications, nil),
		"unreadNotifications": s.docs.count(tableNotifications, func(d doc) bool { return !flag(d, "isRead") }),
		"notificationsByType": grouped,
		"recentNotifications": s.docs.count(tableNotifications, createdSince(dayAgo)),
	})
}

// @Summary Broadcast notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NotificationRequest true "Notification"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/notifications [post]
func (s *Server) createNotification(c *gin.Context) {
	var req NotificationRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = "system"
	}

	recipients := s.docs.count(tableUsers, func(d doc) bool {
		return req.TargetUsers == "all" || flag(d, "isEmailVerified")
	})

	n, err := s.docs.insert(tableNotifications, doc{
		"title":       req.Title,
		"message":     req.Message,
		"type":        req.Type,
		"targetUsers": req.TargetUsers,
		"isRead":      false,
		"data":        gin.H{"recipients": recipients},
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	s.logger.Info().Str("type", req.Type).Int("recipients", recipients).Msg("Notification sent")
	respondOK(c, http.StatusCreated, "Notification sent successfully", n)
}

// @Summary Delete notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/notifications/{id} [delete]
func (s *Server) deleteNotification(c *gin.Context) {
	ok, err := s.docs.delete(tableNotifications, c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}
	respondOK(c, http.StatusOK, "Notification deleted successfully", nil)
}

// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/notifications/{id}/read [patch]
func (s *Server) markNotificationRead(c *gin.Context) {
	n, ok, err := s.docs.update(tableNotifications, c.Param("id"), doc{"isRead": true})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}
	respondOK(c, http.StatusOK, "Notification marked as read", n)
}

// @Summary Send a test push notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/test-push-notification [post]
func (s *Server) testPushNotification(c *gin.Context) {
	respondOK(c, http.StatusOK, "Test push notification sent", gin.H{
		"sentAt": s.docs.timestamp(),
	})
}

// @Summary List owner applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/owner-applications [get]
func (s *Server) listOwnerApplications(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	status := c.Query("status")

	var matched []doc
	for _, a := range s.docs.list(tableOwnerApplications) {
		if status != "" && str(a, "status") != status {
			continue
		}
		matched = append(matched, a)
	}

	items, _ := paginate(matched, page, limit)
	respondOK(c, http.StatusOK, "", gin.H{"items": items, "total": len(matched)})
}

// @Summary Update owner application status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body ApplicationStatusRequest true "Status"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/owner-applications/{id}/status [patch]
func (s *Server) updateOwnerApplicationStatus(c *gin.Context) {
	var req ApplicationStatusRequest
	if !s.bind(c, &req) {
		return
	}

	app, ok, err := s.docs.update(tableOwnerApplications, c.Param("id"), doc{"status": req.Status})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update application")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Application not found")
		return
	}
	respondOK(c, http.StatusOK, "Application "+req.Status, app)
}
