package openapi

import (
	"encoding/json"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/JaimeStill/reception-registry/pkg/routes"
)

var pathParam = regexp.MustCompile(`\{([^}/]+)\}`)

// Build walks groups and their children and returns a document describing
// every route. Chi path parameters share OpenAPI's {name} syntax and are
// declared as uuid path parameters. The group prefix, without its leading
// slash, becomes the operation tag.
func Build(cfg *Config, version, basePath string, groups ...routes.Group) *Spec {
	spec := &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:       cfg.Title,
			Version:     version,
			Description: cfg.Description,
		},
		Paths: make(map[string]*PathItem),
	}
	if basePath != "" {
		spec.Servers = []*Server{{URL: basePath}}
	}

	for _, g := range groups {
		tag := strings.TrimPrefix(g.Prefix, "/")
		spec.Tags = append(spec.Tags, &Tag{Name: tag, Description: g.Description})
		spec.addGroup(tag, "", g)
	}
	return spec
}

func (s *Spec) addGroup(tag, parent string, g routes.Group) {
	prefix := parent + g.Prefix

	for _, r := range g.Routes {
		p := prefix + r.Pattern
		if p == "" {
			p = "/"
		}

		item, ok := s.Paths[p]
		if !ok {
			item = &PathItem{}
			s.Paths[p] = item
		}

		op := &Operation{
			Summary:   r.Summary,
			Tags:      []string{tag},
			Responses: map[string]*Response{"default": {Description: "JSON body or error"}},
		}
		if op.Summary == "" {
			op.Summary = r.Method + " " + path.Clean(p)
		}
		for _, m := range pathParam.FindAllStringSubmatch(p, -1) {
			op.Parameters = append(op.Parameters, &Parameter{
				Name:     m[1],
				In:       "path",
				Required: true,
				Schema:   &Schema{Type: "string", Format: "uuid"},
			})
		}

		switch r.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodPut:
			item.Put = op
		case http.MethodDelete:
			item.Delete = op
		}
	}

	for _, child := range g.Children {
		s.addGroup(tag, prefix, child)
	}
}

// Handler serves spec as JSON. The document is encoded once.
func Handler(spec *Spec) (http.HandlerFunc, error) {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}, nil
}
