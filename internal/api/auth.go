package api

import (
	"context"
	"net/http"
)

// Endpoint paths
const (
	PathLogin  = "/auth/login"
	PathLogout = "/auth/logout"
	PathMe     = "/users/me"
)

// LoginType selects which identifier the credentials carry
type LoginType string

const (
	LoginByPhone    LoginType = "phone"
	LoginByUsername LoginType = "username"
)

// Credentials identify a user at login
type Credentials struct {
	Type       LoginType
	Identifier string
	Password   string
}

func (c Credentials) body() map[string]string {
	body := map[string]string{
		"login_type": string(c.Type),
		"password":   c.Password,
	}
	if c.Type == LoginByPhone {
		body["phone"] = c.Identifier
	} else {
		body["username"] = c.Identifier
	}
	return body
}

// UserProfile is the user record returned by login and /users/me
type UserProfile struct {
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Role          int    `json:"role"`
	AccountStatus int    `json:"accountStatus"`
	CreatedTime   string `json:"createdTime"`
	LastLoginTime string `json:"lastLoginTime"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	UserProfile
	Token string `json:"token"`
}

// Empty is the data of endpoints that return nothing useful
type Empty struct{}

// Login exchanges credentials for a token. A rejection wraps ErrAuthenticationFailed
// and never triggers the unauthorized hook.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	return call[LoginResponse](ctx, c, http.MethodPost, PathLogin, creds.body())
}

// Logout tells the backend the token is no longer in use
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[Empty](ctx, c, http.MethodPost, PathLogout, nil)
	return err
}

// Me fetches the signed-in user's profile
func (c *Client) Me(ctx context.Context) (UserProfile, error) {
	return call[UserProfile](ctx, c, http.MethodGet, PathMe, nil)
}
