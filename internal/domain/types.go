package domain

// ID is used across domain entities.
type ID int64

// Role values assigned to principals.
const (
	RolePassenger = "PASSENGER"
	RoleConductor = "CONDUCTOR"
	RoleAdmin     = "ADMIN"
)

// RequestContext carries the authenticated principal for a request.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (rc RequestContext) IsAdmin() bool {
	return rc.Role == RoleAdmin
}
