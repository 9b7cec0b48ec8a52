package models

import "strconv"

// Role selects between the operator and administrator views.
type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// ParseRole returns the role for s, defaulting to [RoleOperator] for anything unrecognised.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleOperator
}

// Toggle returns the other role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleOperator
	}
	return RoleAdmin
}

// User is the logged in operator.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	Role      Role   `json:"role"`
	PhotoURL  string `json:"photoUrl,omitempty"`
}

// HostUser is the identity supplied by the messaging host.
type HostUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Placeholder identity used outside the messaging host.
const (
	PlaceholderUserID   = "user_dev_123"
	PlaceholderUserName = "keikiiiii"
)

// PlaceholderUser returns the fixed identity used when the host supplies none.
func PlaceholderUser() User {
	return User{ID: PlaceholderUserID, Username: PlaceholderUserName, FirstName: PlaceholderUserName, Role: RoleOperator}
}

// User converts a host identity into an operator with the default role.
func (h HostUser) User() User {
	first := h.FirstName
	if first == "" {
		first = h.Username
	}
	return User{
		ID:        strconv.FormatInt(h.ID, 10),
		Username:  h.Username,
		FirstName: first,
		Role:      RoleOperator,
		PhotoURL:  h.PhotoURL,
	}
}
