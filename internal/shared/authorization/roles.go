package authorization

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleRestaurant UserRole = "restaurant"
	RoleDriver     UserRole = "driver"
	RoleClient     UserRole = "client"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// CanSubscribe reports whether this role is allowed to hold a paid
// subscription. Only restaurant and driver accounts go through checkout.
func (r UserRole) CanSubscribe() bool {
	return r == RoleRestaurant || r == RoleDriver
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleRestaurant, RoleDriver, RoleClient:
		return true
	}
	return false
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleClient
}
