package api

import (
	"net/http"

	"github.com/emblashop/embla/internal/handler"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/telemetry"
)

// CheckoutHandler serves the order total breakdown and payment initiation.
type CheckoutHandler struct {
	checkout service.CheckoutService
	carts    service.CartService
	metrics  *telemetry.BusinessMetrics
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, carts service.CartService, metrics *telemetry.BusinessMetrics) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, carts: carts, metrics: metrics}
}

func (h *CheckoutHandler) cartID(r *http.Request) (string, error) {
	return sessionCartID(r, h.carts)
}

type brandTotalView struct {
	BrandID         string  `json:"brand_id"`
	Subtotal        float64 `json:"subtotal"`
	VoucherID       string  `json:"voucher_id,omitempty"`
	VoucherDiscount float64 `json:"voucher_discount,omitempty"`
}

type orderTotalView struct {
	Brands            []brandTotalView `json:"brands"`
	Subtotal          float64          `json:"subtotal"`
	BrandDiscount     float64          `json:"brand_discount"`
	PlatformVoucherID string           `json:"platform_voucher_id,omitempty"`
	PlatformDiscount  float64          `json:"platform_discount"`
	Total             float64          `json:"total"`
}

func toOrderTotalView(total *service.OrderTotal) orderTotalView {
	view := orderTotalView{
		Subtotal:          round2(total.Subtotal),
		BrandDiscount:     round2(total.BrandDiscount),
		PlatformVoucherID: total.PlatformVoucherID,
		PlatformDiscount:  round2(total.PlatformDiscount),
		Total:             round2(total.Total),
	}
	for _, bt := range total.Brands {
		view.Brands = append(view.Brands, brandTotalView{
			BrandID:         bt.BrandID,
			Subtotal:        round2(bt.Subtotal),
			VoucherID:       bt.VoucherID,
			VoucherDiscount: round2(bt.VoucherDiscount),
		})
	}
	return view
}

// Total handles GET /api/checkout/total
func (h *CheckoutHandler) Total(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	total, err := h.checkout.CalculateTotal(r.Context(), cartID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CheckoutTotals.Inc()
		h.metrics.OrderValue.Observe(total.Total)
		if d := total.BrandDiscount + total.PlatformDiscount; d > 0 {
			h.metrics.DiscountValue.Observe(d)
		}
	}
	handler.JSON(w, http.StatusOK, toOrderTotalView(total))
}

type paymentIntentRequest struct {
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

type paymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// PaymentIntent handles POST /api/checkout/payment-intent
func (h *CheckoutHandler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, err := h.cartID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentAttempts.Inc()
	}
	intent, err := h.checkout.CreatePaymentIntent(r.Context(), service.PaymentIntentParams{
		CartID:         cartID,
		CustomerEmail:  req.Email,
		Currency:       req.Currency,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.PaymentFailed.Inc()
		}
		handler.ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PaymentSucceeded.Inc()
	}

	handler.JSON(w, http.StatusOK, paymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.AmountCents,
		Currency:     intent.Currency,
		Status:       intent.Status,
	})
}
