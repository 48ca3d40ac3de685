package models

import "time"

// PrincipalKind identifies who is currently driving the UI
type PrincipalKind int

const (
	KindSignedOut PrincipalKind = iota
	KindCustomer
	KindAdministrator
)

func (k PrincipalKind) String() string {
	switch k {
	case KindSignedOut:
		return "signed-out"
	case KindCustomer:
		return "customer"
	case KindAdministrator:
		return "administrator"
	default:
		return "unknown"
	}
}

// Role is the backend's numeric role code (0 = customer, 1 = administrator)
type Role int

const (
	RoleCustomer      Role = 0
	RoleAdministrator Role = 1
)

// Kind maps a backend role code onto a signed-in principal kind.
// Unknown codes are treated as the less privileged customer role.
func (r Role) Kind() PrincipalKind {
	if r == RoleAdministrator {
		return KindAdministrator
	}
	return KindCustomer
}

// Principal is the authenticated identity (or its absence) behind the session.
// AuthToken is non-empty exactly when Kind is not KindSignedOut.
type Principal struct {
	Kind        PrincipalKind `json:"kind"`
	UserID      int64         `json:"userId"`
	Username    string        `json:"username"`
	DisplayName string        `json:"displayName"`
	AuthToken   string        `json:"-"`

	// Profile fields mirrored from the login response
	AccountStatus int    `json:"accountStatus"`
	CreatedTime   string `json:"createdTime"`
	LastLoginTime string `json:"lastLoginTime"`

	// TokenExpiry is read from the token's exp claim when it has one; zero otherwise
	TokenExpiry time.Time `json:"-"`
}

// SignedOut returns the empty principal.
func SignedOut() Principal {
	return Principal{Kind: KindSignedOut}
}

// IsSignedIn reports whether the principal represents an authenticated user
func (p Principal) IsSignedIn() bool {
	return p.Kind != KindSignedOut
}

// IsAdministrator reports whether the principal holds the administrator role
func (p Principal) IsAdministrator() bool {
	return p.Kind == KindAdministrator
}

// Role returns the backend role code for a signed-in principal
func (p Principal) Role() Role {
	if p.Kind == KindAdministrator {
		return RoleAdministrator
	}
	return RoleCustomer
}

// Valid checks the token/kind invariant
func (p Principal) Valid() bool {
	if p.Kind == KindSignedOut {
		return p.AuthToken == ""
	}
	return p.AuthToken != ""
}

// TokenExpired reports whether the token carried an expiry that has passed
func (p Principal) TokenExpired(now time.Time) bool {
	return !p.TokenExpiry.IsZero() && !now.Before(p.TokenExpiry)
}

// PrincipalUpdate carries the mutable subset of principal fields.
// Nil fields are left untouched when merged.
type PrincipalUpdate struct {
	DisplayName   *string
	AccountStatus *int
	LastLoginTime *string
}

// Apply merges the non-nil fields into p and returns the result
func (u PrincipalUpdate) Apply(p Principal) Principal {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.AccountStatus != nil {
		p.AccountStatus = *u.AccountStatus
	}
	if u.LastLoginTime != nil {
		p.LastLoginTime = *u.LastLoginTime
	}
	return p
}

// IsEmpty reports whether the update would change nothing
func (u PrincipalUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.AccountStatus == nil && u.LastLoginTime == nil
}
