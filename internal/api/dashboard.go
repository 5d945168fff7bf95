package api

import (
	"context"
	"encoding/json"
)

// DashboardSummary holds the headline counters
type DashboardSummary struct {
	TotalUsers          Count `json:"totalUsers"`
	TotalAdmins         Count `json:"totalAdmins"`
	ActiveUsers         Count `json:"activeUsers"`
	TotalProperties     Count `json:"totalProperties"`
	ActiveProperties    Count `json:"activeProperties"`
	FeaturedProperties  Count `json:"featuredProperties"`
	TotalCategories     Count `json:"totalCategories"`
	TotalLikes          Count `json:"totalLikes"`
	TotalNotifications  Count `json:"totalNotifications"`
	UnreadNotifications Count `json:"unreadNotifications"`
}

// RecentActivity counts what was created recently
type RecentActivity struct {
	NewUsers      Count `json:"newUsers"`
	NewProperties Count `json:"newProperties"`
}

// CategoryCount is one bar of the properties-by-category chart
type CategoryCount struct {
	CategoryName string `json:"categoryName"`
	Count        Count  `json:"count"`
}

// DateCount is one point of a trend chart
type DateCount struct {
	Date  string `json:"date"`
	Count Count  `json:"count"`
}

// PropertyLikes is one entry of the most liked properties chart
type PropertyLikes struct {
	PropertyName string `json:"propertyName"`
	LikeCount    Count  `json:"likeCount"`
}

// DashboardCharts holds chart series
type DashboardCharts struct {
	PropertiesByCategory  []CategoryCount `json:"propertiesByCategory"`
	UserRegistrationTrend []DateCount     `json:"userRegistrationTrend"`
	PropertyCreationTrend []DateCount     `json:"propertyCreationTrend"`
	TopPropertiesByLikes  []PropertyLikes `json:"topPropertiesByLikes"`
}

// SystemStatus describes backend health as reported on the dashboard
type SystemStatus struct {
	Status       string `json:"status"`
	LastBackup   string `json:"lastBackup,omitempty"`
	DatabaseSize string `json:"databaseSize,omitempty"`
	Uptime       Amount `json:"uptime,omitempty"`
}

// DashboardStats is the normalized dashboard payload
type DashboardStats struct {
	Summary        DashboardSummary `json:"summary"`
	RecentActivity RecentActivity   `json:"recentActivity"`
	Charts         DashboardCharts  `json:"charts"`
	System         SystemStatus     `json:"system"`
}

// dashboardWire is the shape the backend sends. Chart series live under analytics and use
// backend column names.
type dashboardWire struct {
	Summary        DashboardSummary `json:"summary"`
	RecentActivity struct {
		RecentUsers      Count `json:"recentUsers"`
		RecentProperties Count `json:"recentProperties"`
	} `json:"recentActivity"`
	Analytics struct {
		PropertiesByCategory []struct {
			CategoryName  string `json:"categoryName"`
			PropertyCount Count  `json:"propertyCount"`
		} `json:"propertiesByCategory"`
		DailyUserRegistrations []struct {
			Date      string `json:"date"`
			UserCount Count  `json:"userCount"`
		} `json:"dailyUserRegistrations"`
		TopPropertiesByLikes []PropertyLikes `json:"topPropertiesByLikes"`
	} `json:"analytics"`
	System *SystemStatus `json:"system"`
}

// UnmarshalJSON maps the backend wire shape onto DashboardStats
func (d *DashboardStats) UnmarshalJSON(b []byte) error {
	var w dashboardWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*d = DashboardStats{
		Summary: w.Summary,
		RecentActivity: RecentActivity{
			NewUsers:      w.RecentActivity.RecentUsers,
			NewProperties: w.RecentActivity.RecentProperties,
		},
		Charts: DashboardCharts{
			PropertiesByCategory:  []CategoryCount{},
			UserRegistrationTrend: []DateCount{},
			PropertyCreationTrend: []DateCount{},
			TopPropertiesByLikes:  []PropertyLikes{},
		},
		System: SystemStatus{Status: "Online"},
	}
	if w.System != nil {
		d.System = *w.System
	}

	for _, item := range w.Analytics.PropertiesByCategory {
		d.Charts.PropertiesByCategory = append(d.Charts.PropertiesByCategory, CategoryCount{
			CategoryName: item.CategoryName,
			Count:        item.PropertyCount,
		})
	}
	for _, item := range w.Analytics.DailyUserRegistrations {
		d.Charts.UserRegistrationTrend = append(d.Charts.UserRegistrationTrend, DateCount{
			Date:  item.Date,
			Count: item.UserCount,
		})
	}
	d.Charts.TopPropertiesByLikes = append(d.Charts.TopPropertiesByLikes, w.Analytics.TopPropertiesByLikes...)

	return nil
}

// DashboardStats fetches the dashboard counters and charts
func (c *Client) DashboardStats(ctx context.Context) (*Envelope[DashboardStats], error) {
	return call[DashboardStats](ctx, c, "/admin/dashboard", RequestOptions{})
}
