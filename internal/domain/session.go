package domain

// Session is the authenticated identity of the caller. It is built once per
// request by the auth middleware and handed to every protected operation.
type Session struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Role        UserRole `json:"role"`
	TokenID     string   `json:"-"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == UserRoleAdmin
}
