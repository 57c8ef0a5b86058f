package core

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// User is an account holder in the identity provider.
//
// Requests never hold on to a User across the request boundary; sessions
// store the UserID only and the record is resolved fresh each time.
type User struct {
	UserID    string      `json:"userid"`
	FullName  string      `json:"fullname"`
	Email     string      `json:"email,omitempty"`
	External  *ExternalID `json:"external,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// EmailMD5 returns the lowercased md5 digest of the user's email, as used
// by gravatar-style avatar endpoints. Empty when the user has no email.
func (u *User) EmailMD5() string {
	if u.Email == "" {
		return ""
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return hex.EncodeToString(sum[:])
}

// ExternalID describes a linked identity at a federated login provider.
type ExternalID struct {
	Service  string `json:"service"`
	UserID   string `json:"userid"`
	Username string `json:"username,omitempty"`
}

// Client is a registered third-party application.
//
// The secret is never stored in a comparable form; SecretHash holds an
// argon2id digest and verification goes through crypto.SecretHasher.
type Client struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AuthToken is an opaque credential granting access to a bounded set of
// named scopes on behalf of a user. Issuance and revocation happen in
// administrative flows; this core only reads tokens.
type AuthToken struct {
	// TokenHash is the sha256 hex digest the store indexes by. The raw
	// token never touches storage.
	TokenHash string    `json:"-"`
	UserID    string    `json:"userid"`
	ClientKey string    `json:"clientKey,omitempty"`
	Scope     []string  `json:"scope"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasScope reports whether the token grants the named scope. Scopes are a
// flat membership set, no hierarchy.
func (t *AuthToken) HasScope(name string) bool {
	for _, s := range t.Scope {
		if s == name {
			return true
		}
	}
	return false
}
