package workspace

import "fmt"

// Registry manages the available services in registration order.
type Registry struct {
	services map[string]Service
	order    []string
}

// NewRegistry creates a Registry holding services.
func NewRegistry(services ...Service) *Registry {
	r := &Registry{services: make(map[string]Service)}
	for _, s := range services {
		r.Register(s)
	}
	return r
}

// Register adds a service, replacing one with the same name.
func (r *Registry) Register(s Service) {
	if _, ok := r.services[s.Name()]; !ok {
		r.order = append(r.order, s.Name())
	}
	r.services[s.Name()] = s
}

// Get retrieves a service by name
func (r *Registry) Get(name string) (Service, error) {
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("service not found: %s", name)
	}
	return s, nil
}

// List returns all registered services
func (r *Registry) List() []Service {
	out := make([]Service, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.services[name])
	}
	return out
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	return len(r.order)
}

// Only returns a registry restricted to the named service.
func (r *Registry) Only(name string) (*Registry, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return NewRegistry(s), nil
}
