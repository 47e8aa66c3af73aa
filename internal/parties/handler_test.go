package parties_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/JaimeStill/reception-registry/pkg/routes"
)

func newRouter(t *testing.T, sys parties.System) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	routes.Register(r, parties.NewHandler(sys, logger, pageCfg).Routes()...)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateFindList(t *testing.T) {
	sys := parties.NewMemory(nil, pageCfg)
	h := newRouter(t, sys)

	rec := do(h, "POST", "/parties", `{"name":"Acme","type":"organization"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created parties.Party
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, parties.Organization, created.Type)

	rec = do(h, "GET", "/parties/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	do(h, "POST", "/parties", `{"name":"Ana","type":"individual"}`)

	rec = do(h, "GET", "/parties?type=organization", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page pagination.PageResult[parties.Party]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Acme", page.Data[0].Name)
}

func TestHandler_Errors(t *testing.T) {
	refs := fixedRefs{}
	sys := parties.NewMemory(refs, pageCfg)
	h := newRouter(t, sys)

	p, err := sys.Create(t.Context(), parties.CreateCommand{Name: "Ana", Type: parties.Individual})
	require.NoError(t, err)
	refs[p.ID] = true

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad id", "GET", "/parties/nope", "", http.StatusBadRequest},
		{"missing", "GET", "/parties/" + uuid.NewString(), "", http.StatusNotFound},
		{"bad type", "POST", "/parties", `{"name":"X","type":"robot"}`, http.StatusBadRequest},
		{"type locked", "PUT", "/parties/" + p.ID.String(), `{"name":"Ana","type":"organization"}`, http.StatusConflict},
		{"referenced", "DELETE", "/parties/" + p.ID.String(), "", http.StatusConflict},
		{"position missing", "GET", "/positions/" + uuid.NewString(), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Positions(t *testing.T) {
	h := newRouter(t, parties.NewMemory(nil, pageCfg))

	rec := do(h, "POST", "/positions", `{"name":"Analyst"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, "POST", "/positions", `{"name":"ANALYST"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, "GET", "/positions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []parties.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}
