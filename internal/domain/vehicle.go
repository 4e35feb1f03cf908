package domain

// Communes of Abidjan a vehicle can be listed in.
var Communes = []string{
	"Abobo", "Adjamé", "Attécoubé", "Bingerville", "Cocody", "Koumassi",
	"Marcory", "Plateau", "Port-Bouët", "Songon", "Treichville", "Yopougon", "Anyama",
}

var VehicleCategories = []string{
	"Voiture de luxe", "Berline", "Suv/4x4", "Citadine",
	"Van/Minibus", "Pick-up", "Coupé / Sport", "Utilitaire",
}

const (
	DefaultPriorityScore = 5
	MinGalleryPhotos     = 5
)

// Vehicle is a car listed by a host. Price is the daily rate in FCFA.
type Vehicle struct {
	ID            string   `json:"id" firestore:"-"`
	OwnerID       string   `json:"owner_id" firestore:"ownerId"`
	OwnerName     string   `json:"owner_name,omitempty" firestore:"-"`
	OwnerPhoto    string   `json:"owner_photo,omitempty" firestore:"-"`
	Name          string   `json:"name" firestore:"name"`
	Brand         string   `json:"brand" firestore:"brand"`
	Model         string   `json:"model,omitempty" firestore:"model,omitempty"`
	Year          int      `json:"year,omitempty" firestore:"year,omitempty"`
	Price         int64    `json:"price" firestore:"price"`
	Location      string   `json:"location" firestore:"location"`
	Category      string   `json:"category" firestore:"category"`
	ExactAddress  string   `json:"exact_address,omitempty" firestore:"exactAddress"`
	Transmission  string   `json:"transmission,omitempty" firestore:"transmission"`
	Fuel          string   `json:"fuel,omitempty" firestore:"fuel"`
	Seats         int      `json:"seats,omitempty" firestore:"seats,omitempty"`
	Color         string   `json:"color,omitempty" firestore:"color,omitempty"`
	Description   string   `json:"description,omitempty" firestore:"description"`
	Image         string   `json:"image" firestore:"image"`
	Gallery       []string `json:"gallery" firestore:"gallery"`
	IsAvailable   bool     `json:"is_available" firestore:"isAvailable"`
	IsValidated   bool     `json:"is_validated" firestore:"isValidated"`
	PriorityScore int64    `json:"priority_score" firestore:"priorityScore"`
	ReviewCount   int64    `json:"review_count" firestore:"reviewCount"`
	CreatedAt     string   `json:"created_at" firestore:"createdAt"`
}

// VehicleFilter narrows the public catalogue. Zero values mean "any".
type VehicleFilter struct {
	Commune  string
	Category string
	MaxPrice int64
	Limit    int
}
