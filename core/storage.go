package core

// Ports define interfaces for external dependencies

type UserStore interface {
	CreateUser(u *User) error

	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)

	UpdateUser(u *User) error

	DeleteUser(userID string) error
}

type ClientStore interface {
	CreateClient(c *Client) error

	GetClientByKey(key string) (*Client, error)

	UpdateClient(c *Client) error

	DeleteClient(key string) error
}

// TokenStore resolves bearer tokens. Lookup is by the sha256 hex digest of
// the presented token; the raw value is never stored.
type TokenStore interface {
	CreateToken(t *AuthToken) error

	GetTokenByHash(tokenHash string) (*AuthToken, error)

	DeleteToken(tokenHash string) error
}

// CredentialStorage is the combined persistence port the services consume.
// Implementations own their concurrency discipline; this core assumes safe
// concurrent reads.
type CredentialStorage interface {
	UserStore
	ClientStore
	TokenStore
}

// Cache defines token caching operations, keyed by token hash.
type Cache interface {
	Get(tokenHash string) (*AuthToken, error)
	Set(tokenHash string, token *AuthToken) error
	Delete(tokenHash string) error
	Clear() error
}
