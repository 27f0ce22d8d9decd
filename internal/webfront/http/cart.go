package http

import (
	"encoding/json"
	"net/http"

	"github.com/veriport/webfront/internal/webfront/cart"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/httpx"
	"github.com/veriport/webfront/pkg/idx"
)

// CartHandler serves the per-session cart. The cart never leaves process
// memory; the cart_session cookie is the only handle the browser holds.
type CartHandler struct {
	Cookies session.Store
	Carts   *cart.Store
}

// cartView is the JSON shape returned by every cart endpoint, so the
// browser always has the full current state after a mutation.
type cartView struct {
	Items []cart.Line `json:"items"`
	Total int64       `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	lines := c.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{Items: lines, Total: c.Total()}
}

// ensureCart resolves the caller's cart, creating one and issuing the
// cart_session cookie when none exists or the cookie is stale.
func (h *CartHandler) ensureCart(w http.ResponseWriter, r *http.Request) *cart.Cart {
	if raw, ok := h.Cookies.CartID(r); ok {
		if id, err := idx.Parse(raw); err == nil {
			if c, found := h.Carts.Get(id); found {
				return c
			}
		}
	}

	id, c := h.Carts.Create()
	h.Cookies.SetCartID(w, id.String())
	return c
}

// HandleGet serves GET /api/cart.
func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c := h.ensureCart(w, r)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    viewOf(c),
	})
}

// HandleAddItem serves POST /api/cart/items. Re-adding a service that is
// already in the cart bumps its quantity rather than duplicating the line.
func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceID string `json:"serviceId"`
		Title     string `json:"title"`
		UnitPrice int64  `json:"unitPrice"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
			"error":   "bad_request",
		})
		return
	}
	if req.ServiceID == "" || req.Title == "" || req.UnitPrice < 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "serviceId, title and a non-negative unitPrice are required",
			"error":   "validation_error",
		})
		return
	}

	c := h.ensureCart(w, r)
	c.Add(req.ServiceID, req.Title, req.UnitPrice)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    viewOf(c),
	})
}

// HandleUpdateItem serves PATCH /api/cart/items/{id}. Quantities below one
// are clamped to one; removal is an explicit DELETE, never a zero quantity.
func (h *CartHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	serviceID := r.PathValue("id")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
			"error":   "bad_request",
		})
		return
	}

	c := h.ensureCart(w, r)
	c.UpdateQuantity(serviceID, req.Quantity)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    viewOf(c),
	})
}

// HandleRemoveItem serves DELETE /api/cart/items/{id}.
func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	serviceID := r.PathValue("id")

	c := h.ensureCart(w, r)
	c.Remove(serviceID)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    viewOf(c),
	})
}
