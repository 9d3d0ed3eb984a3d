package dashboard

import "time"

// Stats is the read-side projection for a user's dashboard.
type Stats struct {
	TotalSessions     int     `json:"total_sessions"`
	ActiveConnections int     `json:"active_connections"`
	TotalHours        float64 `json:"total_hours"`
	AverageRating     float64 `json:"average_rating"`
	Role              string  `json:"role"`
}

// Activity is one recent booking rendered for the dashboard feed.
type Activity struct {
	BookingID string    `json:"booking_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	With      string    `json:"with"`
}
