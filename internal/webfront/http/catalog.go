package http

import (
	"net/http"

	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
)

// CatalogHandler relays the public service and package catalog. Catalog
// endpoints need no session; the backend serves them unauthenticated.
type CatalogHandler struct {
	API *backendapi.Client
}

// HandleServices relays GET /api/services.
func (h *CatalogHandler) HandleServices(w http.ResponseWriter, r *http.Request) {
	data, err := h.API.Services(r.Context())
	if err != nil {
		writeRelayError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// HandleService relays GET /api/services/{id}.
func (h *CatalogHandler) HandleService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Service ID is required",
			"error":   "bad_request",
		})
		return
	}

	data, err := h.API.ServiceByID(r.Context(), id)
	if err != nil {
		writeRelayError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// HandlePackages relays GET /api/packages.
func (h *CatalogHandler) HandlePackages(w http.ResponseWriter, r *http.Request) {
	data, err := h.API.Packages(r.Context())
	if err != nil {
		writeRelayError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}
