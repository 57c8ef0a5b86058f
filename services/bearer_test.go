package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/avelis/clavis/core"
	"github.com/avelis/clavis/crypto"
)

func seedToken(t *testing.T, storage *FakeStorage, token string, scope ...string) *core.AuthToken {
	t.Helper()
	at := &core.AuthToken{
		TokenHash: crypto.HashToken(token),
		UserID:    "user-1",
		Scope:     scope,
		CreatedAt: time.Now(),
	}
	if err := storage.CreateToken(at); err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}
	return at
}

func newTestRegistry() *core.Registry {
	registry := core.NewRegistry()
	registry.Register("contacts", func(token *core.AuthToken, args core.Values, files []core.Upload) (any, error) {
		return map[string]any{"owner": token.UserID}, nil
	})
	registry.Register("profile", func(token *core.AuthToken, args core.Values, files []core.Upload) (any, error) {
		return "profile of " + token.UserID, nil
	})
	registry.Register("broken", func(token *core.AuthToken, args core.Values, files []core.Upload) (any, error) {
		return nil, &core.ResourceError{Kind: "not_ready", Message: "resource is not ready"}
	})
	return registry
}

// Requirement: authentication failures short-circuit with 401 and the
// Bearer challenge naming the required scope.
func TestBearerService_Dispatch_AuthFailures(t *testing.T) {
	tests := []struct {
		name     string
		request  *FakeRequest
		resource string
		wantBody string
	}{
		{
			name:     "no token anywhere",
			request:  NewFakeRequest("GET", "http://example.com/api/contacts"),
			resource: "contacts",
			wantBody: "An access token is required to access this resource.",
		},
		{
			name: "malformed authorization header",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithHeader("Authorization", "Bearer not a token"),
			resource: "contacts",
			wantBody: "A Bearer token is required in the Authorization header.",
		},
		{
			name: "basic header on a resource call",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithHeader("Authorization", "Basic YWNtZTpzZWNyZXQ="),
			resource: "contacts",
			wantBody: "A Bearer token is required in the Authorization header.",
		},
		{
			name: "token in both header and query on GET",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithHeader("Authorization", "Bearer abc123").
				WithQuery("access_token", "abc123"),
			resource: "contacts",
			wantBody: "Access token specified in both header and body.",
		},
		{
			name: "token in both header and form on POST",
			request: NewFakeRequest("POST", "http://example.com/api/contacts").
				WithHeader("Authorization", "Bearer abc123").
				WithForm("access_token", "abc123"),
			resource: "contacts",
			wantBody: "Access token specified in both header and body.",
		},
		{
			name: "well-formed but unknown token",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithHeader("Authorization", "Bearer nosuchtoken"),
			resource: "contacts",
			wantBody: "Unknown access token.",
		},
		{
			name: "valid token without the resource scope",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithQuery("access_token", "abc123"),
			resource: "contacts",
			wantBody: "Token does not provide access to this resource.",
		},
		{
			name: "form token ignored on GET",
			request: NewFakeRequest("GET", "http://example.com/api/profile").
				WithForm("access_token", "abc123"),
			resource: "profile",
			wantBody: "An access token is required to access this resource.",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			seedToken(t, storage, "abc123", "profile")
			service := NewBearerService(storage, nil, newTestRegistry(), nil)

			resp := service.Dispatch(test.request, test.resource)

			if resp.Status != 401 {
				t.Fatalf("Dispatch() status = %d, want 401", resp.Status)
			}
			want := `Bearer realm="Token Required" scope="` + test.resource + `"`
			if got := resp.Header["WWW-Authenticate"]; got != want {
				t.Errorf("WWW-Authenticate = %q, want %q", got, want)
			}
			if resp.Body != test.wantBody {
				t.Errorf("body = %v, want %q", resp.Body, test.wantBody)
			}
		})
	}
}

// Requirement: a valid token with the right scope invokes the handler and
// wraps its result in the ok envelope, with caching disabled on the
// response.
func TestBearerService_Dispatch_Success(t *testing.T) {
	storage := NewFakeStorage()
	seedToken(t, storage, "abc123", "contacts", "profile")
	service := NewBearerService(storage, nil, newTestRegistry(), nil)

	tests := []struct {
		name    string
		request *FakeRequest
	}{
		{
			name: "token in authorization header",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithHeader("Authorization", "Bearer abc123"),
		},
		{
			name: "token in query parameters",
			request: NewFakeRequest("GET", "http://example.com/api/contacts").
				WithQuery("access_token", "abc123"),
		},
		{
			name: "token in form parameters on POST",
			request: NewFakeRequest("POST", "http://example.com/api/contacts").
				WithForm("access_token", "abc123"),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			resp := service.Dispatch(test.request, "contacts")

			if resp.Status != 200 {
				t.Fatalf("Dispatch() status = %d, want 200", resp.Status)
			}
			if resp.Header["Cache-Control"] != "no-store" || resp.Header["Pragma"] != "no-cache" {
				t.Errorf("missing no-store headers: %v", resp.Header)
			}
			want := map[string]any{
				"status": "ok",
				"result": map[string]any{"owner": "user-1"},
			}
			if !reflect.DeepEqual(resp.Body, want) {
				t.Errorf("body = %v, want %v", resp.Body, want)
			}
		})
	}
}

// Requirement: repeated GETs with the same valid token and an idempotent
// handler produce structurally identical envelopes.
func TestBearerService_Dispatch_Idempotent(t *testing.T) {
	storage := NewFakeStorage()
	seedToken(t, storage, "abc123", "profile")
	service := NewBearerService(storage, nil, newTestRegistry(), nil)

	request := NewFakeRequest("GET", "http://example.com/api/profile").
		WithHeader("Authorization", "Bearer abc123")

	first := service.Dispatch(request, "profile")
	second := service.Dispatch(request, "profile")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated dispatch differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

// Requirement: handler failures are reported in the error envelope over
// HTTP 200, never as a transport failure.
func TestBearerService_Dispatch_HandlerErrors(t *testing.T) {
	storage := NewFakeStorage()
	seedToken(t, storage, "abc123", "broken", "flaky", "jumpy")

	registry := newTestRegistry()
	registry.Register("flaky", func(token *core.AuthToken, args core.Values, files []core.Upload) (any, error) {
		return nil, errors.New("database temporarily unavailable")
	})
	registry.Register("jumpy", func(token *core.AuthToken, args core.Values, files []core.Upload) (any, error) {
		panic("handler went sideways")
	})
	service := NewBearerService(storage, nil, registry, nil)

	tests := []struct {
		name            string
		resource        string
		wantKind        string
		wantDescription string
	}{
		{
			name:            "typed resource error keeps its kind",
			resource:        "broken",
			wantKind:        "not_ready",
			wantDescription: "resource is not ready",
		},
		{
			name:            "plain error maps to internal_error",
			resource:        "flaky",
			wantKind:        "internal_error",
			wantDescription: "database temporarily unavailable",
		},
		{
			name:            "panic is contained at the dispatch boundary",
			resource:        "jumpy",
			wantKind:        "panic",
			wantDescription: "handler went sideways",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			request := NewFakeRequest("GET", "http://example.com/api/"+test.resource).
				WithHeader("Authorization", "Bearer abc123")

			resp := service.Dispatch(request, test.resource)

			if resp.Status != 200 {
				t.Fatalf("Dispatch() status = %d, want 200", resp.Status)
			}
			body, ok := resp.Body.(map[string]any)
			if !ok {
				t.Fatalf("body is %T, want map", resp.Body)
			}
			if body["status"] != "error" {
				t.Errorf("status = %v, want error", body["status"])
			}
			if body["error"] != test.wantKind {
				t.Errorf("error = %v, want %v", body["error"], test.wantKind)
			}
			if body["error_description"] != test.wantDescription {
				t.Errorf("error_description = %v, want %v", body["error_description"], test.wantDescription)
			}
		})
	}
}

// Requirement: a warm cache serves token resolution without another store
// hit.
func TestBearerService_Dispatch_UsesCache(t *testing.T) {
	storage := NewFakeStorage()
	seedToken(t, storage, "abc123", "profile")
	cache := core.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	service := NewBearerService(storage, cache, newTestRegistry(), nil)

	request := NewFakeRequest("GET", "http://example.com/api/profile").
		WithHeader("Authorization", "Bearer abc123")

	if resp := service.Dispatch(request, "profile"); resp.Status != 200 {
		t.Fatalf("first dispatch status = %d, want 200", resp.Status)
	}
	if got := storage.TokenLookups(); got != 1 {
		t.Fatalf("store lookups after first dispatch = %d, want 1", got)
	}

	if resp := service.Dispatch(request, "profile"); resp.Status != 200 {
		t.Fatalf("second dispatch status = %d, want 200", resp.Status)
	}
	if got := storage.TokenLookups(); got != 1 {
		t.Errorf("store lookups after second dispatch = %d, want 1 (cache should serve)", got)
	}
}

// Requirement: dispatching to a name nothing registered is not an auth
// error.
func TestBearerService_Dispatch_UnknownResource(t *testing.T) {
	storage := NewFakeStorage()
	seedToken(t, storage, "abc123", "ghost")
	service := NewBearerService(storage, nil, newTestRegistry(), nil)

	request := NewFakeRequest("GET", "http://example.com/api/ghost").
		WithHeader("Authorization", "Bearer abc123")

	resp := service.Dispatch(request, "ghost")
	if resp.Status != 404 {
		t.Fatalf("Dispatch() status = %d, want 404", resp.Status)
	}
}
