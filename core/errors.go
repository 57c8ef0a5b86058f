package core

import "errors"

// Storage errors
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrClientNotFound = errors.New("client not found")
	ErrTokenNotFound  = errors.New("token not found")
	ErrCacheMiss      = errors.New("token not found in cache")
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired  = errors.New("storage adapter is required")
	ErrFullNameRequired = errors.New("full name is required")
)

// AuthError is an authentication or authorization failure. It always maps
// to HTTP 401 and carries the WWW-Authenticate challenge the response must
// include. The message never distinguishes which part of a credential was
// wrong.
type AuthError struct {
	Challenge string
	Message   string
}

func (e *AuthError) Error() string { return e.Message }

// ResourceError lets a resource handler control the error kind reported in
// the response envelope. Any other error is reported with a generic kind.
type ResourceError struct {
	Kind    string
	Message string
}

func (e *ResourceError) Error() string { return e.Message }
