package auth

// SessionData represents the authenticated admin attached to a request
type SessionData struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}
