package fiber

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/avelis/clavis/core"
)

func init() {
	// Session values are encoded by the session storage; the external
	// identity descriptor travels as a registered concrete type.
	gob.Register(core.ExternalID{})
}

// Request wraps a fiber context into the core request abstraction, for
// calling the services directly from application handlers.
func (a *Adapter) Request(c fiber.Ctx) core.Request {
	return newRequest(c)
}

// request adapts fiber.Ctx to core.Request.
type request struct {
	c    fiber.Ctx
	sess core.SessionStore
}

var _ core.Request = (*request)(nil)

func newRequest(c fiber.Ctx) *request {
	var sess core.SessionStore
	if m := session.FromContext(c); m != nil {
		sess = sessionStore{m}
	} else {
		// No session middleware on this route; fall back to request-local
		// state so the services still run.
		sess = &localSession{values: map[string]any{}}
	}
	return &request{c: c, sess: sess}
}

func (r *request) Method() string { return r.c.Method() }

func (r *request) URL() string { return r.c.BaseURL() + r.c.OriginalURL() }

func (r *request) Host() string { return r.c.Hostname() }

func (r *request) IsTLS() bool { return r.c.Scheme() == "https" }

func (r *request) Header(key string) string { return r.c.Get(key) }

func (r *request) Query(key string) string { return r.c.Query(key) }

// Args returns query parameters for GET requests and submitted form
// parameters for mutating requests, as the dispatch contract requires.
func (r *request) Args() core.Values {
	args := core.Values{}
	if r.c.Method() == fiber.MethodGet {
		for k, v := range r.c.Queries() {
			args[k] = v
		}
		return args
	}

	r.c.RequestCtx().PostArgs().VisitAll(func(key, value []byte) {
		args[string(key)] = string(value)
	})
	if form, err := r.c.MultipartForm(); err == nil && form != nil {
		for k, vs := range form.Value {
			if len(vs) > 0 {
				args[k] = vs[0]
			}
		}
	}
	return args
}

func (r *request) Files() []core.Upload {
	form, err := r.c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var uploads []core.Upload
	for field, headers := range form.File {
		for _, h := range headers {
			uploads = append(uploads, core.Upload{Field: field, Header: h})
		}
	}
	return uploads
}

func (r *request) Referrer() string { return r.c.Get(fiber.HeaderReferer) }

func (r *request) Session() core.SessionStore { return r.sess }

// sessionStore backs core.SessionStore with Fiber's session middleware.
type sessionStore struct {
	m *session.Middleware
}

func (s sessionStore) Get(key string) any { return s.m.Get(key) }

func (s sessionStore) Set(key string, value any) { s.m.Set(key, value) }

func (s sessionStore) Delete(key string) { s.m.Delete(key) }

// localSession is the degraded, request-scoped fallback used when no
// session middleware ran.
type localSession struct {
	values map[string]any
}

func (s *localSession) Get(key string) any {
	v, ok := s.values[key]
	if !ok {
		return nil
	}
	return v
}

func (s *localSession) Set(key string, value any) { s.values[key] = value }

func (s *localSession) Delete(key string) { delete(s.values, key) }
