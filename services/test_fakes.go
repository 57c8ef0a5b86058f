package services

import (
	"sync"

	"github.com/avelis/clavis/core"
)

// FakeStorage is a test-only fake implementing core.CredentialStorage.
// It stores records in maps and exposes error fields for behavior
// injection.
type FakeStorage struct {
	mu      sync.RWMutex
	users   map[string]*core.User
	clients map[string]*core.Client
	tokens  map[string]*core.AuthToken

	userErr   error
	clientErr error
	tokenErr  error

	tokenLookups int
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:   make(map[string]*core.User),
		clients: make(map[string]*core.Client),
		tokens:  make(map[string]*core.AuthToken),
	}
}

func (f *FakeStorage) CreateUser(u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return f.userErr
	}
	if _, ok := f.users[u.UserID]; ok {
		return core.ErrUserExists
	}
	f.users[u.UserID] = u
	return nil
}

func (f *FakeStorage) GetUserByID(userID string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (f *FakeStorage) GetUserByEmail(email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) UpdateUser(u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.UserID]; !ok {
		return core.ErrUserNotFound
	}
	f.users[u.UserID] = u
	return nil
}

func (f *FakeStorage) DeleteUser(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
	return nil
}

func (f *FakeStorage) CreateClient(c *core.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clientErr != nil {
		return f.clientErr
	}
	f.clients[c.Key] = c
	return nil
}

func (f *FakeStorage) GetClientByKey(key string) (*core.Client, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	c, ok := f.clients[key]
	if !ok {
		return nil, core.ErrClientNotFound
	}
	return c, nil
}

func (f *FakeStorage) UpdateClient(c *core.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c.Key]; !ok {
		return core.ErrClientNotFound
	}
	f.clients[c.Key] = c
	return nil
}

func (f *FakeStorage) DeleteClient(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, key)
	return nil
}

func (f *FakeStorage) CreateToken(t *core.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return f.tokenErr
	}
	f.tokens[t.TokenHash] = t
	return nil
}

func (f *FakeStorage) GetTokenByHash(tokenHash string) (*core.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenLookups++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	t, ok := f.tokens[tokenHash]
	if !ok {
		return nil, core.ErrTokenNotFound
	}
	return t, nil
}

func (f *FakeStorage) DeleteToken(tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, tokenHash)
	return nil
}

// TokenLookups reports how many times GetTokenByHash was hit, for cache
// tests.
func (f *FakeStorage) TokenLookups() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tokenLookups
}

// FakeSession is a test-only in-memory core.SessionStore.
type FakeSession struct {
	values map[string]any
}

func NewFakeSession() *FakeSession {
	return &FakeSession{values: make(map[string]any)}
}

func (s *FakeSession) Get(key string) any {
	v, ok := s.values[key]
	if !ok {
		return nil
	}
	return v
}

func (s *FakeSession) Set(key string, value any) { s.values[key] = value }

func (s *FakeSession) Delete(key string) { delete(s.values, key) }

// FakeRequest is a test-only core.Request with settable fields.
type FakeRequest struct {
	method   string
	url      string
	tls      bool
	headers  map[string]string
	query    map[string]string
	form     map[string]string
	files    []core.Upload
	referrer string
	session  *FakeSession
}

func NewFakeRequest(method, rawURL string) *FakeRequest {
	return &FakeRequest{
		method:  method,
		url:     rawURL,
		headers: make(map[string]string),
		query:   make(map[string]string),
		form:    make(map[string]string),
		session: NewFakeSession(),
	}
}

func (r *FakeRequest) WithHeader(key, value string) *FakeRequest {
	r.headers[key] = value
	return r
}

func (r *FakeRequest) WithQuery(key, value string) *FakeRequest {
	r.query[key] = value
	return r
}

func (r *FakeRequest) WithForm(key, value string) *FakeRequest {
	r.form[key] = value
	return r
}

func (r *FakeRequest) WithTLS() *FakeRequest {
	r.tls = true
	return r
}

func (r *FakeRequest) WithReferrer(ref string) *FakeRequest {
	r.referrer = ref
	return r
}

func (r *FakeRequest) Method() string { return r.method }

func (r *FakeRequest) URL() string { return r.url }

func (r *FakeRequest) Host() string {
	u := r.url
	for _, prefix := range []string{"https://", "http://"} {
		if len(u) > len(prefix) && u[:len(prefix)] == prefix {
			u = u[len(prefix):]
			break
		}
	}
	for i := 0; i < len(u); i++ {
		if u[i] == '/' || u[i] == ':' {
			return u[:i]
		}
	}
	return u
}

func (r *FakeRequest) IsTLS() bool { return r.tls }

func (r *FakeRequest) Header(key string) string { return r.headers[key] }

func (r *FakeRequest) Query(key string) string { return r.query[key] }

func (r *FakeRequest) Args() core.Values {
	args := core.Values{}
	if r.method == "GET" {
		for k, v := range r.query {
			args[k] = v
		}
	} else {
		for k, v := range r.form {
			args[k] = v
		}
	}
	return args
}

func (r *FakeRequest) Files() []core.Upload { return r.files }

func (r *FakeRequest) Referrer() string { return r.referrer }

func (r *FakeRequest) Session() core.SessionStore { return r.session }
