package core

// ResourceHandler implements a named resource. It receives the resolved
// token, the request arguments, and any uploaded files, and returns the
// value to wrap in the response envelope.
type ResourceHandler func(token *AuthToken, args Values, files []Upload) (any, error)

// Registry maps resource names to their handlers. A resource's required
// scope is its name.
//
// The registry is meant to be populated once at process startup and read
// concurrently afterwards without synchronization. Registering a name twice
// silently overwrites the earlier handler.
type Registry struct {
	resources map[string]ResourceHandler
	names     []string
}

func NewRegistry() *Registry {
	return &Registry{resources: map[string]ResourceHandler{}}
}

// Register associates a handler with a resource name.
func (r *Registry) Register(name string, h ResourceHandler) {
	if _, ok := r.resources[name]; !ok {
		r.names = append(r.names, name)
	}
	r.resources[name] = h
}

// Get returns the handler for a resource name, or nil when the name is not
// registered.
func (r *Registry) Get(name string) ResourceHandler {
	return r.resources[name]
}

// Names lists registered resource names in registration order, for
// introspection.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
