package mediaid

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"tubemeta/internal/services"
)

// Resolver extracts an ID from a parsed URL. Implementations return an error
// wrapping services.ErrIdentifierNotFound when the URL is not theirs or lacks
// the component they need.
type Resolver interface {
	Resolve(u *url.URL) (ID, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(u *url.URL) (ID, error)

// Resolve calls f(u).
func (f ResolverFunc) Resolve(u *url.URL) (ID, error) {
	return f(u)
}

// Registry tries its resolvers in installation order and stops at the first
// success.
type Registry struct {
	mu        sync.RWMutex
	resolvers []Resolver
}

// NewRegistry builds a registry with the supplied strategies in order.
func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{}
	for _, resolver := range resolvers {
		r.Register(resolver)
	}
	return r
}

// DefaultRegistry returns a registry that understands YouTube URLs.
func DefaultRegistry() *Registry {
	return NewRegistry(YouTube{})
}

// Register appends a strategy after the ones already installed. Nil
// resolvers are ignored.
func (r *Registry) Register(resolver Resolver) {
	if resolver == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = append(r.resolvers, resolver)
}

// Len reports how many strategies are installed.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resolvers)
}

// Resolve returns the ID produced by the first strategy that recognizes u.
func (r *Registry) Resolve(u *url.URL) (ID, error) {
	if u == nil {
		return "", services.Wrap(services.ErrIdentifierNotFound, "mediaid", "resolve", "nil url", nil)
	}
	r.mu.RLock()
	resolvers := append([]Resolver(nil), r.resolvers...)
	r.mu.RUnlock()

	for _, resolver := range resolvers {
		id, err := resolver.Resolve(u)
		if err == nil {
			return id, nil
		}
	}
	return "", services.Wrap(services.ErrIdentifierNotFound, "mediaid", "resolve", u.Redacted(), nil)
}

// ResolveString parses raw and resolves it. Malformed input fails with
// services.ErrURLParse.
func (r *Registry) ResolveString(raw string) (ID, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return "", err
	}
	return r.Resolve(u)
}

// ParseURL parses an absolute URL, tagging failures with services.ErrURLParse.
func ParseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrURLParse, "mediaid", "parse", "", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, services.Wrap(services.ErrURLParse, "mediaid", "parse", "", errors.New("url must be absolute: "+raw))
	}
	return u, nil
}
