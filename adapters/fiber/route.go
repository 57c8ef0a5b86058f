// Package fiber adapts clavis to the Fiber v3 web framework: it wraps the
// framework context into the core request abstraction, backs the session
// port with Fiber's session middleware, and exposes the auth services as
// Fiber middleware and handlers.
package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/avelis/clavis"
)

type Adapter struct {
	app    *fiber.App
	clavis *clavis.Clavis
}

var _ clavis.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes installs the session middleware and the identity
// resolution middleware on the app. Resource routes are mounted by the
// embedding application with Resource().
func (a *Adapter) RegisterRoutes(c *clavis.Clavis) error {
	a.clavis = c
	a.app.Use(session.New())
	a.app.Use(a.ResolveIdentity)
	return nil
}
