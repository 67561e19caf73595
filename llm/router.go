package llm

import (
	"fmt"
	"strings"
)

type route struct {
	prefix   string
	provider Provider
}

// Router selects a provider from a model identifier's prefix. Resolution is a
// pure string match and happens before any network call, so an unknown model
// fails fast.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

// Register maps a model id prefix (e.g. "gpt", "claude") to a provider.
// Prefixes are matched in registration order.
func (r *Router) Register(prefix string, provider Provider) {
	r.routes = append(r.routes, route{prefix: prefix, provider: provider})
}

// Resolve returns the provider responsible for the given model identifier,
// or ErrUnsupportedModel when no registered prefix matches.
func (r *Router) Resolve(model string) (Provider, error) {
	for _, rt := range r.routes {
		if strings.HasPrefix(model, rt.prefix) {
			return rt.provider, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
}
