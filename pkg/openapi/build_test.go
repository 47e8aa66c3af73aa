package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/pkg/openapi"
	"github.com/JaimeStill/reception-registry/pkg/routes"
)

func noop(http.ResponseWriter, *http.Request) {}

func groups() []routes.Group {
	return []routes.Group{
		{
			Prefix:      "/documents",
			Description: "Received documents",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: noop},
				{Method: "POST", Pattern: "", Handler: noop, Summary: "Create a document"},
				{Method: "DELETE", Pattern: "/{id}/bindings/{bindingID}", Handler: noop},
			},
			Children: []routes.Group{
				{Prefix: "/{id}/qr", Routes: []routes.Route{{Method: "GET", Handler: noop}}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	cfg := &openapi.Config{}
	require.NoError(t, cfg.Finalize(nil))

	spec := openapi.Build(cfg, "1.0.0", "/api", groups()...)

	assert.Equal(t, "Reception Registry API", spec.Info.Title)
	assert.Equal(t, "/api", spec.Servers[0].URL)
	require.Len(t, spec.Tags, 1)
	assert.Equal(t, "documents", spec.Tags[0].Name)

	root := spec.Paths["/documents"]
	require.NotNil(t, root)
	assert.Equal(t, "GET /documents", root.Get.Summary)
	assert.Equal(t, "Create a document", root.Post.Summary)

	binding := spec.Paths["/documents/{id}/bindings/{bindingID}"]
	require.NotNil(t, binding)
	require.Len(t, binding.Delete.Parameters, 2)
	assert.Equal(t, "bindingID", binding.Delete.Parameters[1].Name)

	child := spec.Paths["/documents/{id}/qr"]
	require.NotNil(t, child)
	assert.Equal(t, []string{"documents"}, child.Get.Tags)
}

func TestHandler(t *testing.T) {
	spec := openapi.Build(&openapi.Config{Title: "T"}, "v", "", groups()...)
	h, err := openapi.Handler(spec)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
	assert.Nil(t, doc["servers"])
}
