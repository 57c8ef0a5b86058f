// Package clavis is an embeddable identity-provider auth core: bearer-token
// resource authorization, HTTP Basic client authentication, session-to-user
// resolution, and an open-redirect-safe next-URL policy. Persistence and the
// web framework stay behind ports; see the adapters directory.
package clavis

import (
	"net/http"

	"github.com/avelis/clavis/core"
	"github.com/avelis/clavis/crypto"
	"github.com/avelis/clavis/services"
	"go.uber.org/zap"
)

// interfaces
type (
	CredentialStorage = core.CredentialStorage
	UserStore         = core.UserStore
	ClientStore       = core.ClientStore
	TokenStore        = core.TokenStore
	Cache             = core.Cache
	SessionStore      = core.SessionStore
	Request           = core.Request

	SecretHasher = crypto.SecretHasher
)

// structs
type (
	User       = core.User
	Client     = core.Client
	AuthToken  = core.AuthToken
	ExternalID = core.ExternalID

	Values          = core.Values
	Upload          = core.Upload
	ResourceHandler = core.ResourceHandler
	Registry        = core.Registry
	CacheConfig     = core.CacheConfig

	AuthError     = core.AuthError
	ResourceError = core.ResourceError

	Identity        = services.Identity
	Response        = services.Response
	RedirectOptions = services.RedirectOptions
)

const (
	defaultLoginPath = "/login"
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache = core.NewInMemoryCache
	NewRegistry      = core.NewRegistry
	NewArgon2        = crypto.NewArgon2

	GenerateHashedToken = crypto.GenerateHashedToken
	HashToken           = crypto.HashToken
)

var (
	ErrUserNotFound   = core.ErrUserNotFound
	ErrUserExists     = core.ErrUserExists
	ErrClientNotFound = core.ErrClientNotFound
	ErrTokenNotFound  = core.ErrTokenNotFound
	ErrCacheMiss      = core.ErrCacheMiss
)

var (
	ErrStorageRequired  = core.ErrStorageRequired
	ErrFullNameRequired = core.ErrFullNameRequired
)

// Session keys
const (
	SessionUserID     = core.SessionUserID
	SessionNext       = core.SessionNext
	SessionAvatarURL  = core.SessionAvatarURL
	SessionExternalID = core.SessionExternalID
)

type Config struct {
	Storage core.CredentialStorage

	// Optional config
	HTTP            HTTPAdapter
	CacheAdapter    core.Cache
	DisableCache    bool
	SecretHasher    crypto.SecretHasher
	Logger          *zap.Logger
	AvatarClient    *http.Client
	LoginPath       string
	DefaultNextPath string
}

// HTTPAdapter registers the web-framework routes and middleware for a
// Clavis instance.
type HTTPAdapter interface {
	RegisterRoutes(c *Clavis) error
}

// Clavis bundles the auth services around a shared resource registry.
type Clavis struct {
	Sessions  *services.SessionService
	Bearer    *services.BearerService
	Clients   *services.ClientAuthService
	Accounts  *services.AccountService
	Redirects services.RedirectPolicy
	Registry  *core.Registry
	LoginPath string
}

func New(config Config) (*Clavis, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = core.NewInMemoryCache(core.CacheConfig{})
	}

	secretHasher := config.SecretHasher
	if secretHasher == nil {
		secretHasher = crypto.NewArgon2()
	}

	loginPath := config.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}

	registry := core.NewRegistry()
	avatars := services.NewAvatarResolver(config.AvatarClient, logger)

	c := &Clavis{
		Sessions:  services.NewSessionService(config.Storage, avatars, logger),
		Bearer:    services.NewBearerService(config.Storage, cacheAdapter, registry, logger),
		Clients:   services.NewClientAuthService(config.Storage, secretHasher, logger),
		Accounts:  services.NewAccountService(config.Storage, logger),
		Redirects: services.RedirectPolicy{DefaultPath: config.DefaultNextPath},
		Registry:  registry,
		LoginPath: loginPath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Resource registers a named resource handler. The resource's required
// scope is its name. Registration belongs at process startup; a repeated
// name silently overwrites.
func (c *Clavis) Resource(name string, h core.ResourceHandler) {
	c.Registry.Register(name, h)
}

// ResourceDetails returns the registered handler for a name, or nil. Used
// for introspection and documentation.
func (c *Clavis) ResourceDetails(name string) core.ResourceHandler {
	return c.Registry.Get(name)
}

// NextURL computes the post-action redirect target for a request.
func (c *Clavis) NextURL(req core.Request, opts services.RedirectOptions) string {
	return c.Redirects.NextURL(req, opts)
}
