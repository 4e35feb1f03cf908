package domain

// Ad is an advertising banner shown as a pop-up on the public pages.
type Ad struct {
	ID        string `json:"id" firestore:"-"`
	Company   string `json:"company" firestore:"company"`
	ImageURL  string `json:"image_url" firestore:"imageUrl"`
	Link      string `json:"link,omitempty" firestore:"link"`
	IsActive  bool   `json:"is_active" firestore:"isActive"`
	CreatedAt string `json:"created_at" firestore:"createdAt"`
}

type PlatformStats struct {
	Clients        int32     `json:"clients"`
	Hosts          int32     `json:"hosts"`
	TotalCars      int32     `json:"total_cars"`
	TotalRevenue   int64     `json:"total_revenue"`
	RecentBookings []Booking `json:"recent_bookings"`
}
