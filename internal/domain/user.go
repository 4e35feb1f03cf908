package domain

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleHost   UserRole = "host"
	UserRoleAdmin  UserRole = "admin"
)

type DocumentKind string

const (
	DocumentKindPermis DocumentKind = "permis"
	DocumentKindCNI    DocumentKind = "cni"
)

// UserDocuments holds the storage keys of the identity documents a tenant uploads
// before renting (driving licence and national identity card).
type UserDocuments struct {
	Permis string `json:"permis,omitempty" firestore:"permis"`
	CNI    string `json:"cni,omitempty" firestore:"cni"`
}

type User struct {
	UID         string        `json:"uid" firestore:"uid"`
	FullName    string        `json:"full_name" firestore:"fullName"`
	Email       string        `json:"email" firestore:"email"`
	Phone       string        `json:"phone,omitempty" firestore:"phone,omitempty"`
	City        string        `json:"city,omitempty" firestore:"city,omitempty"`
	AccountType string        `json:"account_type,omitempty" firestore:"accountType,omitempty"`
	PhotoURL    string        `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role        UserRole      `json:"role" firestore:"role"`
	IsVerified  bool          `json:"is_verified" firestore:"isVerified"`
	Docs        UserDocuments `json:"docs" firestore:"docs"`
	CreatedAt   string        `json:"created_at" firestore:"createdAt"`
}

// DisplayName falls back to a generic label when the profile has no name.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.FullName == "" {
		return fallback
	}
	return u.FullName
}
