package core

import "mime/multipart"

// Request is the framework-agnostic view of an inbound HTTP request. The
// services only ever see this interface; adapters wrap their framework's
// context into it.
type Request interface {
	// Method is the HTTP method, uppercase.
	Method() string

	// URL is the full request URL, including scheme and host.
	URL() string

	// Host is the request host, without port.
	Host() string

	// IsTLS reports whether the request arrived over an encrypted
	// transport.
	IsTLS() bool

	// Header returns the named request header, or "" when absent.
	Header(key string) string

	// Query returns the named query parameter, or "" when absent.
	Query(key string) string

	// Args returns the method-appropriate argument map: query parameters
	// for GET, submitted form parameters for POST, PUT and DELETE.
	Args() Values

	// Files returns any uploaded files.
	Files() []Upload

	// Referrer returns the Referer header, or "".
	Referrer() string

	// Session is the per-connection key/value store.
	Session() SessionStore
}

// Values is the argument map handed to resource handlers. String keys,
// string values; files travel separately as Uploads.
type Values map[string]string

func (v Values) Get(key string) string { return v[key] }

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Upload is a file submitted with a resource call.
type Upload struct {
	Field  string
	Header *multipart.FileHeader
}

// SessionStore is the per-connection session map. Implementations must be
// server-trusted (signed or server-side); values round-trip as-is.
type SessionStore interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(key string) any
	Set(key string, value any)
	Delete(key string)
}

// Session keys used by this core.
const (
	SessionUserID     = "userid"
	SessionNext       = "next"
	SessionAvatarURL  = "avatar_url"
	SessionExternalID = "userid_external"
)
