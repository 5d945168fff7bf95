package server

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swiftstay/admin/internal/sysinfo"
)

// @Summary Dashboard counters and charts
// @Description Summary counters, recent activity, analytics series and system status
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/dashboard [get]
func (s *Server) getDashboard(c *gin.Context) {
	now := s.docs.now().UTC()
	weekAgo := now.AddDate(0, 0, -7)

	users := s.docs.list(tableUsers)
	properties := s.docs.list(tableProperties)
	categories := s.docs.list(tableCategories)

	totalLikes := 0
	for _, p := range properties {
		totalLikes += int(num(p, "likeCount"))
	}

	// SUM aggregates come back as strings from the production backend
	summary := gin.H{
		"totalUsers":          len(users),
		"totalAdmins":         1,
		"activeUsers":         countDocs(users, func(d doc) bool { return flag(d, "isActive") }),
		"totalProperties":     len(properties),
		"activeProperties":    countDocs(properties, func(d doc) bool { return flag(d, "isActive") }),
		"featuredProperties":  countDocs(properties, func(d doc) bool { return flag(d, "isFeatured") }),
		"totalCategories":     len(categories),
		"totalLikes":          strconv.Itoa(totalLikes),
		"totalNotifications":  s.docs.count(tableNotifications, nil),
		"unreadNotifications": s.docs.count(tableNotifications, func(d doc) bool { return !flag(d, "isRead") }),
	}

	recentActivity := gin.H{
		"recentUsers":      countDocs(users, createdSince(weekAgo)),
		"recentProperties": countDocs(properties, createdSince(weekAgo)),
	}

	byCategory := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		id := str(cat, "id")
		byCategory = append(byCategory, gin.H{
			"categoryName":  str(cat, "name"),
			"propertyCount": strconv.Itoa(countDocs(properties, func(d doc) bool { return str(d, "categoryId") == id })),
		})
	}

	registrations := map[string]int{}
	for _, u := range users {
		if created, ok := createdAt(u); ok && !created.Before(now.AddDate(0, 0, -30)) {
			registrations[created.Format("2006-01-02")]++
		}
	}
	days := make([]string, 0, len(registrations))
	for day := range registrations {
		days = append(days, day)
	}
	sort.Strings(days)
	daily := make([]gin.H, 0, len(days))
	for _, day := range days {
		daily = append(daily, gin.H{"date": day, "userCount": strconv.Itoa(registrations[day])})
	}

	ranked := append([]doc{}, properties...)
	sort.SliceStable(ranked, func(i, j int) bool { return num(ranked[i], "likeCount") > num(ranked[j], "likeCount") })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	topLiked := make([]gin.H, 0, len(ranked))
	for _, p := range ranked {
		topLiked = append(topLiked, gin.H{"propertyName": str(p, "name"), "likeCount": int(num(p, "likeCount"))})
	}

	metrics := sysinfo.GetMetrics()
	records := 0
	for _, table := range tables {
		records += s.docs.count(table, nil)
	}

	respondOK(c, http.StatusOK, "", gin.H{
		"summary":        summary,
		"recentActivity": recentActivity,
		"analytics": gin.H{
			"propertiesByCategory":   byCategory,
			"dailyUserRegistrations": daily,
			"topPropertiesByLikes":   topLiked,
		},
		"system": gin.H{
			"status":       "Online",
			"uptime":       math.Round(metrics.UptimeSeconds),
			"databaseSize": strconv.Itoa(records) + " records",
			"metrics":      metrics,
		},
	})
}

// periodStart returns the beginning of the reporting window ending at now
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "daily":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case "weekly":
		return now.AddDate(0, 0, -7), true
	case "monthly":
		return now.AddDate(0, -1, 0), true
	case "yearly":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// @Summary Property earnings report
// @Description Earnings per property from confirmed and completed bookings over a period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "daily, weekly, monthly or yearly"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/reports/property-earnings [get]
func (s *Server) getEarningsReport(c *gin.Context) {
	period := c.DefaultQuery("period", "monthly")
	now := s.docs.now().UTC()
	start, ok := periodStart(period, now)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid period. Use daily, weekly, monthly or yearly")
		return
	}

	pct := s.commissionPercentage()

	type totals struct {
		bookings   int
		revenue    float64
		commission float64
	}
	perProperty := map[string]*totals{}
	var order []string

	for _, b := range s.docs.list(tableBookings) {
		status := str(b, "status")
		if status != "confirmed" && status != "completed" {
			continue
		}
		if created, ok := createdAt(b); !ok || created.Before(start) {
			continue
		}

		id := str(b, "propertyId")
		t, seen := perProperty[id]
		if !seen {
			t = &totals{}
			perProperty[id] = t
			order = append(order, id)
		}
		amount := num(b, "totalAmount")
		t.bookings++
		t.revenue += amount
		// totalAmount already includes the commission added on top of the owner price
		t.commission += amount * pct / (100 + pct)
	}

	var sum totals
	rows := make([]gin.H, 0, len(order))
	for _, id := range order {
		t := perProperty[id]
		property, _ := s.docs.get(tableProperties, id)
		rows = append(rows, gin.H{
			"propertyId":       id,
			"propertyName":     str(property, "name"),
			"propertyLocation": str(property, "location"),
			"propertyCity":     str(property, "city"),
			"totalBookings":    t.bookings,
			"totalEarnings":    round2(t.revenue - t.commission),
			"totalCommission":  round2(t.commission),
			"totalRevenue":     round2(t.revenue),
		})
		sum.bookings += t.bookings
		sum.revenue += t.revenue
		sum.commission += t.commission
	}

	respondOK(c, http.StatusOK, "", gin.H{
		"period":     period,
		"startDate":  start.Format(time.RFC3339),
		"endDate":    now.Format(time.RFC3339),
		"properties": rows,
		"totals": gin.H{
			"totalBookings":   sum.bookings,
			"totalEarnings":   round2(sum.revenue - sum.commission),
			"totalCommission": round2(sum.commission),
			"totalRevenue":    round2(sum.revenue),
		},
	})
}

func countDocs(docs []doc, match func(doc) bool) int {
	n := 0
	for _, d := range docs {
		if match(d) {
			n++
		}
	}
	return n
}

func createdAt(d doc) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, str(d, "createdAt"))
	return t, err == nil
}

func createdSince(t time.Time) func(doc) bool {
	return func(d doc) bool {
		created, ok := createdAt(d)
		return ok && created.After(t)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
