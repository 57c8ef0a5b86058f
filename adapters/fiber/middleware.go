package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/avelis/clavis"
	"github.com/avelis/clavis/core"
)

const (
	localsIdentity = "clavis_identity"
	localsClient   = "clavis_client"
)

// ResolveIdentity resolves the session's current user before any handler
// runs and stores the identity in the context for downstream handlers.
func (a *Adapter) ResolveIdentity(c fiber.Ctx) error {
	ident := a.clavis.Sessions.Resolve(newRequest(c))
	c.Locals(localsIdentity, ident)
	return c.Next()
}

// RequireLogin redirects anonymous requests to the login page, remembering
// the original URL in the session so the login flow can send the user back.
func (a *Adapter) RequireLogin(c fiber.Ctx) error {
	req := newRequest(c)
	if ident := IdentityFromCtx(c); ident == nil || ident.Anonymous() {
		req.Session().Set(core.SessionNext, req.URL())
		return c.Redirect().To(a.clavis.LoginPath)
	}
	return c.Next()
}

// RequireClient validates HTTP Basic client credentials and attaches the
// resolved client to the context.
func (a *Adapter) RequireClient(c fiber.Ctx) error {
	client, authErr := a.clavis.Clients.Authenticate(newRequest(c))
	if authErr != nil {
		c.Set(fiber.HeaderWWWAuthenticate, authErr.Challenge)
		return c.Status(fiber.StatusUnauthorized).SendString(authErr.Message)
	}
	c.Locals(localsClient, client)
	return c.Next()
}

// IdentityFromCtx returns the identity resolved by ResolveIdentity, or nil
// when the middleware did not run.
func IdentityFromCtx(c fiber.Ctx) *clavis.Identity {
	ident, _ := c.Locals(localsIdentity).(*clavis.Identity)
	return ident
}

// ClientFromCtx returns the client attached by RequireClient, or nil.
func ClientFromCtx(c fiber.Ctx) *core.Client {
	client, _ := c.Locals(localsClient).(*core.Client)
	return client
}
