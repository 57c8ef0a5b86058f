package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/avelis/clavis/services"
)

// Resource returns a handler dispatching to the named registered resource
// through the bearer authorizer. Mount it on whichever routes should serve
// the resource:
//
//	cl.Resource("contacts", contactsHandler)
//	app.Get("/api/contacts", adapter.Resource("contacts"))
//	app.Post("/api/contacts", adapter.Resource("contacts"))
func (a *Adapter) Resource(name string) fiber.Handler {
	return func(c fiber.Ctx) error {
		resp := a.clavis.Bearer.Dispatch(newRequest(c), name)
		return writeResponse(c, resp)
	}
}

// NextURL computes the post-action redirect target for the request.
func (a *Adapter) NextURL(c fiber.Ctx, opts services.RedirectOptions) string {
	return a.clavis.NextURL(newRequest(c), opts)
}

// writeResponse writes a service response: string bodies as plain text,
// everything else as JSON.
func writeResponse(c fiber.Ctx, resp services.Response) error {
	for k, v := range resp.Header {
		c.Set(k, v)
	}
	c.Status(resp.Status)
	if body, ok := resp.Body.(string); ok {
		return c.SendString(body)
	}
	return c.JSON(resp.Body)
}
