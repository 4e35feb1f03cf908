// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
	SecurityAdmin                        // Access token with admin role required
)

// EndpointSecurityConfig maps "METHOD /path-template" to the required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health and session
	"GET /api/v1/health":        SecurityPublic,
	"POST /api/v1/auth/session": SecurityPublic,
	"POST /api/v1/auth/refresh": SecurityRefresh,
	"POST /api/v1/auth/logout":  SecurityAccess,

	// Public catalogue
	"GET /api/v1/vehicles":              SecurityPublic,
	"GET /api/v1/vehicles/top":          SecurityPublic,
	"GET /api/v1/vehicles/{id}":         SecurityPublic,
	"GET /api/v1/vehicles/{id}/reviews": SecurityPublic,
	"POST /api/v1/vehicles/{id}/quote":  SecurityPublic,
	"GET /api/v1/ads/active":            SecurityPublic,

	// Mock storage transfer endpoints carry their own one-shot token
	"PUT /api/v1/upload/{token}": SecurityPublic,
	"GET /api/v1/download/{key}": SecurityPublic,

	// Admin
	"GET /api/v1/admin/ads":              SecurityAdmin,
	"POST /api/v1/admin/ads":             SecurityAdmin,
	"POST /api/v1/admin/ads/{id}/toggle": SecurityAdmin,
	"DELETE /api/v1/admin/ads/{id}":      SecurityAdmin,
	"GET /api/v1/admin/stats":            SecurityAdmin,

	"GET /api/v1/admin/users/{uid}/documents/{kind}": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access for unknown endpoints
	return SecurityAccess
}
