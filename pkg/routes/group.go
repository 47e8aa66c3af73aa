// Package routes declares HTTP route groups and mounts them on a chi router.
package routes

import "net/http"

// Route is a single method and pattern bound to a handler. Summary is
// optional and only feeds generated API documentation.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Summary string
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
	Children    []Group
}
