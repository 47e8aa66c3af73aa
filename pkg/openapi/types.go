// Package openapi builds an OpenAPI 3.1 document from declared route groups.
package openapi

// Spec represents a complete OpenAPI 3.1 specification document.
type Spec struct {
	OpenAPI string               `json:"openapi"`
	Info    *Info                `json:"info"`
	Servers []*Server            `json:"servers,omitempty"`
	Tags    []*Tag               `json:"tags,omitempty"`
	Paths   map[string]*PathItem `json:"paths"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server represents a server URL for the API.
type Server struct {
	URL string `json:"url"`
}

// Tag groups operations under a described heading.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PathItem describes operations available on a single path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation describes a single API operation on a path.
type Operation struct {
	Summary    string               `json:"summary,omitempty"`
	Tags       []string             `json:"tags,omitempty"`
	Parameters []*Parameter         `json:"parameters,omitempty"`
	Responses  map[string]*Response `json:"responses"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required,omitempty"`
	Schema   *Schema `json:"schema"`
}

// Response describes a single response from an API operation.
type Response struct {
	Description string `json:"description"`
}

// Schema defines the structure of input and output data.
type Schema struct {
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
}
