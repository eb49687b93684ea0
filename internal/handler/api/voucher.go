package api

import (
	"net/http"

	"github.com/emblashop/embla/internal/handler"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/telemetry"
)

// VoucherHandler serves voucher listing and choice for the cart screen.
type VoucherHandler struct {
	vouchers service.VoucherService
	carts    service.CartService
	metrics  *telemetry.BusinessMetrics
}

// NewVoucherHandler creates a new voucher handler.
func NewVoucherHandler(vouchers service.VoucherService, carts service.CartService, metrics *telemetry.BusinessMetrics) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers, carts: carts, metrics: metrics}
}

func (h *VoucherHandler) recordIneligible(annotated []service.AnnotatedVoucher) {
	if h.metrics == nil {
		return
	}
	for _, av := range annotated {
		if !av.Evaluation.Eligible {
			h.metrics.VoucherIneligible.WithLabelValues(string(av.Evaluation.Reason)).Inc()
		}
	}
}

func (h *VoucherHandler) cartID(r *http.Request) (string, error) {
	return sessionCartID(r, h.carts)
}

// ListBrand handles GET /api/cart/brands/{brandID}/vouchers
func (h *VoucherHandler) ListBrand(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	annotated, err := h.vouchers.ListForBrand(r.Context(), cartID, r.PathValue("brandID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.recordIneligible(annotated)
	handler.JSON(w, http.StatusOK, map[string]any{"vouchers": toVoucherViews(annotated)})
}

// ListPlatform handles GET /api/cart/vouchers
func (h *VoucherHandler) ListPlatform(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	annotated, err := h.vouchers.ListPlatform(r.Context(), cartID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.recordIneligible(annotated)
	handler.JSON(w, http.StatusOK, map[string]any{"vouchers": toVoucherViews(annotated)})
}

type chooseVoucherRequest struct {
	BrandID   string `json:"brand_id"`
	VoucherID string `json:"voucher_id"`
}

// Choose handles POST /api/cart/vouchers/choose
// An empty voucher_id clears the choice for the scope.
func (h *VoucherHandler) Choose(w http.ResponseWriter, r *http.Request) {
	var req chooseVoucherRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.vouchers.Choose(r.Context(), cartID, req.BrandID, req.VoucherID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil && req.VoucherID != "" {
		scope := "platform"
		if req.BrandID != "" {
			scope = "brand"
		}
		h.metrics.VoucherChosen.WithLabelValues(scope).Inc()
	}

	summary, err := h.carts.GetSummary(r.Context(), cartID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, toCartView(summary))
}
