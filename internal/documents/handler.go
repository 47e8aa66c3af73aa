package documents

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/pkg/decode"
	"github.com/JaimeStill/reception-registry/pkg/handlers"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/JaimeStill/reception-registry/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger,
		pagination: pagination,
	}
}

func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix:      "/documents",
			Description: "Received documents",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.List},
				{Method: "POST", Pattern: "", Handler: h.Create},
				{Method: "GET", Pattern: "/{id}", Handler: h.Find},
				{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
				{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
				{Method: "GET", Pattern: "/{id}/bindings", Handler: h.Bindings},
				{Method: "POST", Pattern: "/{id}/bindings", Handler: h.AddBinding},
				{Method: "DELETE", Pattern: "/{id}/bindings/{bindingID}", Handler: h.RemoveBinding},
				{Method: "GET", Pattern: "/{id}/qr", Handler: h.Artifact},
				{Method: "POST", Pattern: "/{id}/qr", Handler: h.RefreshArtifact},
				{Method: "GET", Pattern: "/{id}/label", Handler: h.Label},
			},
		},
		{
			Prefix:      "/document-types",
			Description: "Document classifications",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListTypes},
				{Method: "POST", Pattern: "", Handler: h.CreateType},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	result, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[CreateCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	cmd, err := decode.JSON[UpdateCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Bindings lists a document's bindings, optionally narrowed by ?role=.
func (h *Handler) Bindings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	var role *bindings.Role
	if v := r.URL.Query().Get("role"); v != "" {
		parsed, err := bindings.ParseRole(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidBinding, err))
			return
		}
		role = &parsed
	}

	result, err := h.sys.Bindings(r.Context(), id, role)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) AddBinding(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	cmd, err := decode.JSON[BindingCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.AddBinding(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) RemoveBinding(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}
	bindingID, ok := h.param(w, r, "bindingID")
	if !ok {
		return
	}

	if err := h.sys.RemoveBinding(r.Context(), id, bindingID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	data, err := h.sys.Artifact(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBytes(w, http.StatusOK, "image/png", data)
}

func (h *Handler) RefreshArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	result, err := h.sys.RefreshArtifact(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Label(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}

	data, err := h.sys.Label(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "label_"+id.String()+".pdf"))
	handlers.RespondBytes(w, http.StatusOK, "application/pdf", data)
}

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.ListTypes(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[CreateTypeCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.CreateType(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) param(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid %s: %w", name, err))
		return uuid.Nil, false
	}
	return id, true
}
