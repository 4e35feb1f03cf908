package domain

type Review struct {
	ID         string `json:"id" firestore:"-"`
	CarID      string `json:"car_id" firestore:"carId"`
	BookingID  string `json:"booking_id" firestore:"bookingId"`
	Rating     int    `json:"rating" firestore:"rating"`
	Comment    string `json:"comment" firestore:"comment"`
	TenantName string `json:"tenant_name" firestore:"tenantName"`
	CreatedAt  string `json:"created_at" firestore:"createdAt"`
}
