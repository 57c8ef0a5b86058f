package services

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/avelis/clavis/core"
	"github.com/avelis/clavis/crypto"
	"go.uber.org/zap"
)

// Bearer token, per the OAuth bearer-token draft: letters, digits, the
// characters _.~+/- and optional trailing = padding.
var authBearerRe = regexp.MustCompile(`^Bearer ([a-zA-Z0-9_.~+/-]+=*)$`)

// Response is a framework-agnostic HTTP response produced by the dispatch
// and authentication services. Adapters write it out verbatim: a string
// body as plain text, anything else as JSON.
type Response struct {
	Status int
	Header map[string]string
	Body   any
}

// BearerService authorizes and dispatches calls to named, registered
// resources.
type BearerService struct {
	tokens   core.TokenStore
	cache    core.Cache // optional, nil disables caching
	registry *core.Registry
	logger   *zap.Logger
}

func NewBearerService(tokens core.TokenStore, cache core.Cache, registry *core.Registry, logger *zap.Logger) *BearerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BearerService{tokens: tokens, cache: cache, registry: registry, logger: logger}
}

// Dispatch authenticates the request's bearer token, enforces that the
// token's scope includes the resource name, and invokes the registered
// handler. Authentication and authorization failures short-circuit with a
// 401 before the handler runs; handler failures are converted to the error
// envelope and reported over HTTP 200.
func (s *BearerService) Dispatch(req core.Request, name string) Response {
	args := req.Args()

	var token string
	if header := req.Header("Authorization"); header != "" {
		m := authBearerRe.FindStringSubmatch(header)
		if m == nil {
			// Unrecognized Authorization header
			return s.authError(name, "A Bearer token is required in the Authorization header.")
		}
		token = m[1]
		if args.Has("access_token") {
			return s.authError(name, "Access token specified in both header and body.")
		}
	} else {
		token = args.Get("access_token")
		if token == "" {
			// No token provided in Authorization header or in request parameters
			return s.authError(name, "An access token is required to access this resource.")
		}
	}

	authtoken := s.resolveToken(token)
	if authtoken == nil {
		return s.authError(name, "Unknown access token.")
	}
	if !authtoken.HasScope(name) {
		s.logger.Debug("scope check failed",
			zap.String("resource", name), zap.Strings("scope", authtoken.Scope))
		return s.authError(name, "Token does not provide access to this resource.")
	}

	handler := s.registry.Get(name)
	if handler == nil {
		return Response{
			Status: http.StatusNotFound,
			Header: noStoreHeaders(nil),
			Body:   "Unknown resource.",
		}
	}

	body := s.invoke(handler, authtoken, args, req.Files())
	return Response{
		Status: http.StatusOK,
		Header: noStoreHeaders(map[string]string{"Content-Type": "application/json"}),
		Body:   body,
	}
}

// resolveToken looks a presented token up through the cache and the store.
// Unknown tokens resolve to nil.
func (s *BearerService) resolveToken(token string) *core.AuthToken {
	tokenHash := crypto.HashToken(token)

	if s.cache != nil {
		if t, err := s.cache.Get(tokenHash); err == nil && t != nil {
			return t
		}
	}

	t, err := s.tokens.GetTokenByHash(tokenHash)
	if err != nil || t == nil {
		if err != nil && !errors.Is(err, core.ErrTokenNotFound) {
			s.logger.Warn("token lookup failed", zap.Error(err))
		}
		return nil
	}

	if ok, err := crypto.VerifyToken(token, t.TokenHash); err != nil || !ok {
		return nil
	}

	if s.cache != nil {
		// Best effort; a failed cache write must not fail the request
		_ = s.cache.Set(tokenHash, t)
	}
	return t
}

// invoke runs the handler and maps its outcome to the response envelope.
// No error or panic escapes the dispatch boundary.
func (s *BearerService) invoke(handler core.ResourceHandler, token *core.AuthToken, args core.Values, files []core.Upload) (body map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("resource handler panicked", zap.Any("panic", r))
			body = errorEnvelope("panic", fmt.Sprintf("%v", r))
		}
	}()

	result, err := handler(token, args, files)
	if err != nil {
		var re *core.ResourceError
		if errors.As(err, &re) {
			return errorEnvelope(re.Kind, re.Message)
		}
		return errorEnvelope("internal_error", err.Error())
	}
	return map[string]any{"status": "ok", "result": result}
}

func errorEnvelope(kind, description string) map[string]any {
	return map[string]any{
		"status":            "error",
		"error":             kind,
		"error_description": description,
	}
}

func (s *BearerService) authError(name, message string) Response {
	return Response{
		Status: http.StatusUnauthorized,
		Header: noStoreHeaders(map[string]string{
			"WWW-Authenticate": fmt.Sprintf("Bearer realm=%q scope=%q", "Token Required", name),
		}),
		Body: message,
	}
}

func noStoreHeaders(h map[string]string) map[string]string {
	if h == nil {
		h = map[string]string{}
	}
	h["Cache-Control"] = "no-store"
	h["Pragma"] = "no-cache"
	return h
}
