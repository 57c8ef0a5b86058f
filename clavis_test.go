package clavis

import (
	"errors"
	"testing"

	"github.com/avelis/clavis/services"
)

type recordingHTTP struct {
	registered *Clavis
	err        error
}

func (h *recordingHTTP) RegisterRoutes(c *Clavis) error {
	h.registered = c
	return h.err
}

func TestNewRequiresStorage(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, ErrStorageRequired) {
		t.Fatalf("New() error = %v, want ErrStorageRequired", err)
	}
}

func TestNewRegistersRoutes(t *testing.T) {
	adapter := &recordingHTTP{}
	c, err := New(Config{
		Storage: services.NewFakeStorage(),
		HTTP:    adapter,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if adapter.registered != c {
		t.Error("HTTP adapter was not handed the new instance")
	}
	if c.LoginPath != "/login" {
		t.Errorf("LoginPath = %q, want default /login", c.LoginPath)
	}
}

func TestNewPropagatesAdapterError(t *testing.T) {
	adapter := &recordingHTTP{err: errors.New("route conflict")}
	if _, err := New(Config{Storage: services.NewFakeStorage(), HTTP: adapter}); err == nil {
		t.Fatal("New() succeeded despite adapter failure")
	}
}

func TestResourceRegistration(t *testing.T) {
	c, err := New(Config{Storage: services.NewFakeStorage()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if c.ResourceDetails("email") != nil {
		t.Fatal("ResourceDetails() non-nil before registration")
	}

	c.Resource("email", func(token *AuthToken, args Values, files []Upload) (any, error) {
		return "alice@example.com", nil
	})

	h := c.ResourceDetails("email")
	if h == nil {
		t.Fatal("ResourceDetails() = nil after registration")
	}
	result, err := h(nil, nil, nil)
	if err != nil || result != "alice@example.com" {
		t.Errorf("handler returned %v, %v", result, err)
	}
}

func TestNextURLUsesConfiguredDefault(t *testing.T) {
	c, err := New(Config{Storage: services.NewFakeStorage(), DefaultNextPath: "/home"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	request := services.NewFakeRequest("GET", "http://example.com/login")
	if got := c.NextURL(request, RedirectOptions{}); got != "/home" {
		t.Errorf("NextURL() = %q, want /home", got)
	}
}
