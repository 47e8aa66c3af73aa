package routes

import (
	"github.com/go-chi/chi/v5"
)

// Register mounts each group, and its children, on r.
func Register(r chi.Router, groups ...Group) {
	for _, g := range groups {
		r.Route(g.Prefix, func(sub chi.Router) {
			mount(sub, g)
		})
	}
}

func mount(r chi.Router, g Group) {
	for _, route := range g.Routes {
		pattern := route.Pattern
		if pattern == "" {
			pattern = "/"
		}
		r.MethodFunc(route.Method, pattern, route.Handler)
	}
	for _, child := range g.Children {
		r.Route(child.Prefix, func(sub chi.Router) {
			mount(sub, child)
		})
	}
}
