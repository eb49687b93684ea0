package api

import (
	"net/http"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/handler"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/telemetry"
)

// SessionHeader carries the device session identifier on every cart request.
const SessionHeader = "X-Session-ID"

// sessionCartID resolves the request's device session to its cart, creating
// one on first use. A request without the session header is rejected before
// any store access; an empty session id must never reach the cart store.
func sessionCartID(r *http.Request, carts service.CartService) (string, error) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		return "", domain.Invalid("cart.session", "missing session ID")
	}
	cart, err := carts.GetOrCreateCart(r.Context(), sessionID)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

// CartHandler serves cart line CRUD, checkout selection and the summary.
type CartHandler struct {
	carts   service.CartService
	metrics *telemetry.BusinessMetrics
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, metrics *telemetry.BusinessMetrics) *CartHandler {
	return &CartHandler{carts: carts, metrics: metrics}
}

func (h *CartHandler) cartID(r *http.Request) (string, error) {
	return sessionCartID(r, h.carts)
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.GetSummary(r.Context(), cartID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

type addLineRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddLine handles POST /api/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.AddLine(r.Context(), cartID, req.VariantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CartLinesAdded.Inc()
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity handles PATCH /api/cart/lines/{lineID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.UpdateQuantity(r.Context(), cartID, r.PathValue("lineID"), req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

type changeVariantRequest struct {
	VariantID string `json:"variant_id"`
}

// ChangeVariant handles POST /api/cart/lines/{lineID}/variant
func (h *CartHandler) ChangeVariant(w http.ResponseWriter, r *http.Request) {
	var req changeVariantRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.ChangeVariant(r.Context(), cartID, r.PathValue("lineID"), req.VariantID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.VariantChanges.Inc()
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

// RemoveLine handles DELETE /api/cart/lines/{lineID}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.RemoveLine(r.Context(), cartID, r.PathValue("lineID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CartLinesRemoved.Inc()
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

// ToggleLine handles POST /api/cart/lines/{lineID}/toggle
func (h *CartHandler) ToggleLine(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.ToggleLine(r.Context(), cartID, r.PathValue("lineID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SelectionToggles.WithLabelValues("line").Inc()
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}

// ToggleBrand handles POST /api/cart/brands/{brandID}/toggle
func (h *CartHandler) ToggleBrand(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.ToggleBrand(r.Context(), cartID, r.PathValue("brandID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SelectionToggles.WithLabelValues("brand").Inc()
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}
