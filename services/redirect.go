package services

import (
	"net/url"
	"strings"

	"github.com/avelis/clavis/core"
)

// RedirectOptions controls NextURL fallbacks.
type RedirectOptions struct {
	// UseReferrer falls back to the Referer header before the default.
	UseReferrer bool

	// AllowExternal skips the same-host filter on the next parameter.
	AllowExternal bool
}

// RedirectPolicy computes where to send the user after an action (login,
// logout, delete-confirmation). External URLs are never returned unless
// explicitly asked for, to keep the site from acting as an open redirector.
type RedirectPolicy struct {
	// DefaultPath is the well-known landing location, "/" when empty.
	DefaultPath string
}

// NextURL returns the post-action redirect target.
//
// A one-time "next" value in the session takes priority and is consumed on
// read regardless of outcome. A "next" query parameter comes second and is
// subject to the same-host filter. Fallback order: filtered candidate,
// Referer (when requested), default path.
func (p RedirectPolicy) NextURL(req core.Request, opts RedirectOptions) string {
	sess := req.Session()
	stored, _ := sess.Get(core.SessionNext).(string)
	sess.Delete(core.SessionNext)
	if stored != "" {
		return stored
	}

	next := req.Query("next")
	if !opts.AllowExternal && isExternal(next, req.URL()) {
		next = ""
	}

	if next != "" {
		return next
	}
	if opts.UseReferrer {
		if ref := req.Referrer(); ref != "" {
			return ref
		}
	}
	if p.DefaultPath != "" {
		return p.DefaultPath
	}
	return "/"
}

// isExternal reports whether candidate is an absolute URL pointing at a
// host other than the current request's. Relative URLs are never external;
// an unparseable absolute URL is treated as external.
func isExternal(candidate, requestURL string) bool {
	if !strings.HasPrefix(candidate, "http:") &&
		!strings.HasPrefix(candidate, "https:") &&
		!strings.HasPrefix(candidate, "//") {
		return false
	}
	cu, err := url.Parse(candidate)
	if err != nil {
		return true
	}
	ru, err := url.Parse(requestURL)
	if err != nil {
		return true
	}
	return cu.Hostname() != ru.Hostname()
}
