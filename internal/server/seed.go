package server

import (
	"time"
)

// seed loads a small, consistent data set so every console screen has something to show
func (s *Server) seed() error {
	now := s.docs.now().UTC()
	ago := func(days int) string { return now.AddDate(0, 0, -days).Format(time.RFC3339) }

	category, err := s.docs.insert(tableCategories, doc{
		"name":        "Hostels",
		"description": "Student hostels close to campus",
		"icon":        "building",
		"color":       "#3B82F6",
		"isActive":    true,
		"createdAt":   ago(60),
	})
	if err != nil {
		return err
	}
	if _, err := s.docs.insert(tableCategories, doc{
		"name":      "Apartments",
		"icon":      "home",
		"color":     "#10B981",
		"isActive":  true,
		"createdAt": ago(45),
	}); err != nil {
		return err
	}

	property, err := s.docs.insert(tableProperties, doc{
		"name":                "Legon Heights Hostel",
		"description":         "Secure hostel with study rooms and a shuttle to campus",
		"propertyType":        "hostel",
		"mainImageUrl":        "https://images.swiftstay.dev/legon-heights.jpg",
		"additionalImageUrls": []any{},
		"location":            "East Legon",
		"city":                "Accra",
		"region":              "Greater Accra",
		"price":               2500.0,
		"currency":            "GHS",
		"categoryId":          category["id"],
		"amenities":           []any{"wifi", "water", "security"},
		"isActive":            true,
		"isFeatured":          true,
		"likeCount":           12,
		"createdAt":           ago(30),
	})
	if err != nil {
		return err
	}

	roomType, err := s.docs.insert(tableRoomTypes, doc{
		"name":           "Two in a room",
		"description":    "Shared room with two beds and a private bathroom",
		"capacity":       2,
		"price":          2500.0,
		"currency":       "GHS",
		"genderType":     "MIXED",
		"propertyId":     property["id"],
		"amenities":      []any{"bathroom", "wardrobe"},
		"totalRooms":     20,
		"availableRooms": 8,
		"isActive":       true,
		"isAvailable":    true,
		"createdAt":      ago(30),
	})
	if err != nil {
		return err
	}

	if _, err := s.docs.insert(tableRegionalSections, doc{
		"name":         "Greater Accra",
		"displayOrder": 1,
		"isActive":     true,
		"propertyIds":  []any{property["id"]},
		"createdAt":    ago(30),
	}); err != nil {
		return err
	}

	guests := []doc{
		{"fullName": "Ama Mensah", "email": "ama@example.com", "phoneNumber": "+233201234567", "isActive": true, "isEmailVerified": true, "createdAt": ago(2)},
		{"fullName": "Kofi Boateng", "email": "kofi@example.com", "phoneNumber": "+233241234567", "isActive": true, "isEmailVerified": false, "createdAt": ago(20)},
		{"fullName": "Esi Owusu", "email": "esi@example.com", "phoneNumber": "+233501234567", "isActive": false, "isEmailVerified": true, "createdAt": ago(90)},
	}
	var users []doc
	for _, g := range guests {
		g["role"] = "user"
		u, err := s.docs.insert(tableUsers, g)
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	bookings := []doc{
		{"userId": users[0]["id"], "status": "confirmed", "isPaid": true, "totalAmount": 2625.0, "createdAt": ago(1)},
		{"userId": users[1]["id"], "status": "pending", "isPaid": false, "totalAmount": 2625.0, "createdAt": ago(3)},
		{"userId": users[2]["id"], "status": "completed", "isPaid": true, "totalAmount": 2625.0, "createdAt": ago(200)},
	}
	for i, b := range bookings {
		b["propertyId"] = property["id"]
		b["roomTypeId"] = roomType["id"]
		b["currency"] = "GHS"
		b["checkInDate"] = now.AddDate(0, 0, 14+i).Format("2006-01-02")
		b["paymentReference"] = "SS-" + string(rune('A'+i)) + "1001"
		if _, err := s.docs.insert(tableBookings, b); err != nil {
			return err
		}
	}

	if _, err := s.docs.insert(tableOwnerApplications, doc{
		"fullName":       "Yaw Asante",
		"email":          "yaw@example.com",
		"phone":          "+233271234567",
		"propertyName":   "Asante Lodge",
		"city":           "Kumasi",
		"region":         "Ashanti",
		"propertyType":   "lodge",
		"unitsAvailable": 12,
		"message":        nil,
		"status":         "pending",
		"createdAt":      ago(4),
	}); err != nil {
		return err
	}

	if _, err := s.docs.insert(tableNotifications, doc{
		"title":       "Welcome to Swift Stay",
		"message":     "New hostels have been added near your campus.",
		"type":        "new_property",
		"targetUsers": "all",
		"isRead":      false,
		"createdAt":   ago(0),
	}); err != nil {
		return err
	}

	s.logger.Debug().Int("users", len(users)).Int("bookings", len(bookings)).Msg("Seeded development data")
	return nil
}
