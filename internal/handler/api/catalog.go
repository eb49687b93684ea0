package api

import (
	"net/http"
	"time"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/handler"
	"github.com/emblashop/embla/internal/pricing"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/telemetry"
)

// ProductHandler serves product detail and classification resolution.
type ProductHandler struct {
	catalog service.CatalogService
	metrics *telemetry.BusinessMetrics
	now     func() time.Time
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService, metrics *telemetry.BusinessMetrics) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		metrics: metrics,
		now:     time.Now,
	}
}

type productDetailResponse struct {
	ID          string          `json:"id"`
	BrandID     string          `json:"brand_id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	Purchasable bool            `json:"purchasable"`
	Variants    []variantView   `json:"variants"`
	Options     []optionRowView `json:"options"`
}

// Detail handles GET /api/products/{id}
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetProductDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ProductViews.WithLabelValues(detail.Product.BrandID).Inc()
	}

	now := h.now()
	resp := productDetailResponse{
		ID:          detail.Product.ID,
		BrandID:     detail.Product.BrandID,
		Name:        detail.Product.Name,
		Status:      string(detail.Product.Status),
		Purchasable: detail.Purchasable,
		Options:     toOptionRows(detail.Options),
	}
	for _, v := range detail.Product.Variants {
		resp.Variants = append(resp.Variants, h.variantView(v, now))
	}

	handler.JSON(w, http.StatusOK, resp)
}

type resolveRequest struct {
	Color              string `json:"color"`
	Size               string `json:"size"`
	Other              string `json:"other"`
	CommittedVariantID string `json:"committed_variant_id"`
}

type resolveResponse struct {
	State       string          `json:"state"`
	Color       string          `json:"color,omitempty"`
	Size        string          `json:"size,omitempty"`
	Other       string          `json:"other,omitempty"`
	Variant     *variantView    `json:"variant,omitempty"`
	Purchasable bool            `json:"purchasable"`
	MaxQuantity int             `json:"max_quantity"`
	Options     []optionRowView `json:"options"`
}

// Resolve handles POST /api/products/{id}/resolve
func (h *ProductHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	selection := domain.Attributes{Color: req.Color, Size: req.Size, Other: req.Other}
	res, err := h.catalog.ResolveSelection(r.Context(), r.PathValue("id"), selection, req.CommittedVariantID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ResolutionRequests.WithLabelValues(string(res.State)).Inc()
	}

	resp := resolveResponse{
		State:       string(res.State),
		Color:       res.Selection.Color,
		Size:        res.Selection.Size,
		Other:       res.Selection.Other,
		Purchasable: res.Purchasable,
		MaxQuantity: res.MaxQuantity,
		Options:     toOptionRows(res.Options),
	}
	if res.Variant != nil {
		v := h.variantView(*res.Variant, h.now())
		resp.Variant = &v
	}

	handler.JSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) variantView(v domain.Variant, now time.Time) variantView {
	unitPrice := v.Price
	inDiscount := v.Discount.ActiveAt(now)
	if inDiscount {
		unitPrice = pricing.UnitPriceAfterDiscount(v.Price, v.Discount.DiscountValue, v.Discount.DiscountKind)
	}
	return toVariantView(v, unitPrice, inDiscount)
}
