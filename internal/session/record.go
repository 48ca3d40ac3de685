package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/willfong/bankfront/internal/models"
)

var errMalformedRecord = errors.New("malformed session record")

// Record is the persisted shape of a signed-in principal
type Record struct {
	UserID        int64       `json:"userId"`
	Username      string      `json:"username"`
	Name          string      `json:"name"`
	Role          models.Role `json:"role"`
	Token         string      `json:"token"`
	AccountStatus int         `json:"accountStatus"`
	CreatedTime   string      `json:"createdTime"`
	LastLoginTime string      `json:"lastLoginTime"`
}

func recordFromPrincipal(p models.Principal) Record {
	return Record{
		UserID:        p.UserID,
		Username:      p.Username,
		Name:          p.DisplayName,
		Role:          p.Role(),
		Token:         p.AuthToken,
		AccountStatus: p.AccountStatus,
		CreatedTime:   p.CreatedTime,
		LastLoginTime: p.LastLoginTime,
	}
}

func decodeRecord(raw []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", errMalformedRecord, err)
	}
	if r.Token == "" {
		return Record{}, fmt.Errorf("%w: missing token", errMalformedRecord)
	}
	if r.Role != models.RoleCustomer && r.Role != models.RoleAdministrator {
		return Record{}, fmt.Errorf("%w: role %d", errMalformedRecord, r.Role)
	}
	return r, nil
}

func (r Record) encode() ([]byte, error) {
	return json.Marshal(r)
}

// Principal converts the record back into a signed-in principal
func (r Record) Principal() models.Principal {
	return models.Principal{
		Kind:          r.Role.Kind(),
		UserID:        r.UserID,
		Username:      r.Username,
		DisplayName:   r.Name,
		AuthToken:     r.Token,
		AccountStatus: r.AccountStatus,
		CreatedTime:   r.CreatedTime,
		LastLoginTime: r.LastLoginTime,
		TokenExpiry:   tokenExpiry(r.Token),
	}
}

// tokenExpiry reads the exp claim of a JWT without verifying it. Tokens that
// are not JWTs, or carry no exp, report the zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
