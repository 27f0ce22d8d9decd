package http

import (
	"encoding/json"
	"net/http"

	"github.com/veriport/webfront/internal/webfront/cart"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/claims"
	"github.com/veriport/webfront/pkg/httpx"
	"github.com/veriport/webfront/pkg/idx"
)

// OrdersHandler turns the local cart into a backend order and relays the
// caller's order history.
type OrdersHandler struct {
	Cookies session.Store
	API     *backendapi.Client
	Carts   *cart.Store
	Mailer  *mail.Mailer
}

// checkoutRequest is the browser's checkout submission. The cart contents
// come from the server-side cart, never from the request body.
type checkoutRequest struct {
	CouponCode string `json:"couponCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// orderPayload is the order submission sent to the backend.
type orderPayload struct {
	Items      []cart.Line `json:"items"`
	Total      int64       `json:"total"`
	CouponCode string      `json:"couponCode,omitempty"`
	Notes      string      `json:"notes,omitempty"`
}

// HandleCheckout serves POST /api/checkout. The order is built from the
// server-side cart; on backend acceptance the cart is cleared and a
// confirmation mail goes out best-effort.
func (h *OrdersHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
				"message": "Invalid request body",
				"error":   "bad_request",
			})
			return
		}
	}

	c, cartID, ok := h.callerCart(r)
	if !ok || c.Len() == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Your cart is empty",
			"error":   "empty_cart",
		})
		return
	}

	// Snapshot before the backend call: the confirmation mail needs the
	// lines even after the cart is cleared.
	lines, total := c.Lines(), c.Total()

	payload, err := json.Marshal(orderPayload{
		Items:      lines,
		Total:      total,
		CouponCode: req.CouponCode,
		Notes:      req.Notes,
	})
	if err != nil {
		writeRelayError(w, r, err)
		return
	}

	sess := boundSession(w, r, h.Cookies, h.API)
	data, err := sess.Post(r.Context(), "/orders", payload, http.StatusCreated)
	if err != nil {
		if isSessionExpired(err) {
			writeSessionExpired(w, h.Cookies)
			return
		}
		writeRelayError(w, r, err)
		return
	}

	c.Clear()
	h.Carts.Drop(cartID)
	h.Cookies.Clear(w, session.CartCookie)

	h.sendConfirmation(r, data, lines, total)

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"order":   data,
	})
}

// HandleListOrders serves GET /api/orders.
func (h *OrdersHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	sess := boundSession(w, r, h.Cookies, h.API)

	data, err := sess.Get(r.Context(), "/orders")
	if err != nil {
		if isSessionExpired(err) {
			writeSessionExpired(w, h.Cookies)
			return
		}
		writeRelayError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// HandleOrder serves GET /api/orders/{id}.
func (h *OrdersHandler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	sess := boundSession(w, r, h.Cookies, h.API)

	data, err := sess.Get(r.Context(), "/orders/"+r.PathValue("id"))
	if err != nil {
		if isSessionExpired(err) {
			writeSessionExpired(w, h.Cookies)
			return
		}
		writeRelayError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// callerCart resolves the caller's existing cart without creating one.
func (h *OrdersHandler) callerCart(r *http.Request) (*cart.Cart, idx.ID, bool) {
	raw, ok := h.Cookies.CartID(r)
	if !ok {
		return nil, idx.Zero, false
	}
	id, err := idx.Parse(raw)
	if err != nil {
		return nil, idx.Zero, false
	}
	c, found := h.Carts.Get(id)
	if !found {
		return nil, idx.Zero, false
	}
	return c, id, true
}

// sendConfirmation mails the checkout summary. The recipient comes from the
// token claims and the order reference from the backend response; missing
// either just skips the mail.
func (h *OrdersHandler) sendConfirmation(r *http.Request, order json.RawMessage, lines []cart.Line, total int64) {
	access, ok := h.Cookies.Get(r, session.AccessCookie)
	if !ok {
		return
	}
	cl, err := claims.Decode(access)
	if err != nil || cl.Email == "" {
		return
	}

	var ref struct {
		ID          string `json:"id"`
		OrderNumber string `json:"orderNumber"`
	}
	_ = json.Unmarshal(order, &ref)
	orderRef := ref.OrderNumber
	if orderRef == "" {
		orderRef = ref.ID
	}
	if orderRef == "" {
		return
	}

	h.Mailer.OrderConfirmation(r.Context(), cl.Email, orderRef, lines, total)
}
