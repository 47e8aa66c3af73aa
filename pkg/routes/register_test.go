package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/reception-registry/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	r := chi.NewRouter()

	routes.Register(r, routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: respond("list")},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("find " + chi.URLParam(r, "id")))
			}},
		},
		Children: []routes.Group{{
			Prefix: "/types",
			Routes: []routes.Route{{Method: http.MethodGet, Pattern: "", Handler: respond("types")}},
		}},
	})

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/documents", http.StatusOK, "list"},
		{http.MethodGet, "/documents/abc", http.StatusOK, "find abc"},
		{http.MethodGet, "/documents/types", http.StatusOK, "types"},
		{http.MethodPost, "/documents", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}
