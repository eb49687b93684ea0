package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/voucher"
)

// JSON views over the service types. The mobile clients consume these
// shapes directly, so field names are part of the API contract.

// round2 rounds an aggregated money amount to 2 decimal places for display.
// Unit prices and discount inputs pass through as stored.
func round2(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

type variantView struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	Color      string  `json:"color,omitempty"`
	Size       string  `json:"size,omitempty"`
	Other      string  `json:"other,omitempty"`
	Status     string  `json:"status"`
	Price      float64 `json:"price"`
	UnitPrice  float64 `json:"unit_price"`
	InDiscount bool    `json:"in_discount"`
}

type optionValueView struct {
	Value      string `json:"value"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected"`
}

type optionRowView struct {
	Key    string            `json:"key"`
	Values []optionValueView `json:"values"`
}

type lineView struct {
	ID            string  `json:"id"`
	BrandID       string  `json:"brand_id"`
	ProductID     string  `json:"product_id"`
	VariantID     string  `json:"variant_id"`
	Quantity      int     `json:"quantity"`
	Selected      bool    `json:"selected"`
	UnitPrice     float64 `json:"unit_price"`
	DiscountKind  string  `json:"discount_kind,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty"`
}

type bestVoucherView struct {
	VoucherID string  `json:"voucher_id"`
	Discount  float64 `json:"discount"`
}

type brandGroupView struct {
	BrandID         string           `json:"brand_id"`
	Selection       string           `json:"selection"`
	Lines           []lineView       `json:"lines"`
	Subtotal        float64          `json:"subtotal"`
	ChosenVoucherID string           `json:"chosen_voucher_id,omitempty"`
	BestVoucher     *bestVoucherView `json:"best_voucher,omitempty"`
}

type cartView struct {
	CartID              string           `json:"cart_id"`
	Brands              []brandGroupView `json:"brands"`
	SelectedCount       int              `json:"selected_count"`
	Subtotal            float64          `json:"subtotal"`
	PlatformVoucherID   string           `json:"platform_voucher_id,omitempty"`
	BestPlatformVoucher *bestVoucherView `json:"best_platform_voucher,omitempty"`
}

type voucherView struct {
	ID                string   `json:"id"`
	Scope             string   `json:"scope"`
	BrandID           string   `json:"brand_id,omitempty"`
	DiscountKind      string   `json:"discount_kind"`
	DiscountValue     float64  `json:"discount_value"`
	MaxDiscount       float64  `json:"max_discount,omitempty"`
	MinOrderValue     float64  `json:"min_order_value,omitempty"`
	ApplyType         string   `json:"apply_type"`
	ApplicableItemIDs []string `json:"applicable_item_ids,omitempty"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Eligible          bool     `json:"eligible"`
	Reason            string   `json:"reason,omitempty"`
	DiscountAmount    float64  `json:"discount_amount"`
	Best              bool     `json:"best"`
}

func toVariantView(v domain.Variant, unitPrice float64, inDiscount bool) variantView {
	return variantView{
		ID:         v.ID,
		ProductID:  v.ProductID,
		Title:      v.Title,
		Color:      v.Attributes.Color,
		Size:       v.Attributes.Size,
		Other:      v.Attributes.Other,
		Status:     string(v.Status),
		Price:      v.Price,
		UnitPrice:  unitPrice,
		InDiscount: inDiscount,
	}
}

func toOptionRows(options []service.AttributeOptions) []optionRowView {
	rows := make([]optionRowView, len(options))
	for i, row := range options {
		values := make([]optionValueView, len(row.Values))
		for j, v := range row.Values {
			values[j] = optionValueView(v)
		}
		rows[i] = optionRowView{Key: string(row.Key), Values: values}
	}
	return rows
}

func toLineViews(lines []domain.CartLine) []lineView {
	views := make([]lineView, len(lines))
	for i, ln := range lines {
		views[i] = lineView{
			ID:            ln.ID,
			BrandID:       ln.BrandID,
			ProductID:     ln.ProductID,
			VariantID:     ln.VariantID,
			Quantity:      ln.Quantity,
			Selected:      ln.Selected,
			UnitPrice:     ln.UnitPrice,
			DiscountKind:  string(ln.DiscountKind),
			DiscountValue: ln.DiscountValue,
		}
	}
	return views
}

func toBestVoucherView(best *voucher.Best) *bestVoucherView {
	if best == nil {
		return nil
	}
	return &bestVoucherView{
		VoucherID: best.Voucher.ID,
		Discount:  round2(best.Evaluation.DiscountAmount),
	}
}

func toCartView(summary *service.CartSummary) cartView {
	view := cartView{
		CartID:              summary.Cart.ID,
		SelectedCount:       summary.SelectedCount,
		Subtotal:            round2(summary.SubtotalPlatform),
		PlatformVoucherID:   summary.PlatformVoucherID,
		BestPlatformVoucher: toBestVoucherView(summary.BestPlatformVoucher),
	}
	for _, group := range summary.Brands {
		view.Brands = append(view.Brands, brandGroupView{
			BrandID:         group.BrandID,
			Selection:       string(group.Selection),
			Lines:           toLineViews(group.Lines),
			Subtotal:        round2(group.Subtotal),
			ChosenVoucherID: group.ChosenVoucherID,
			BestVoucher:     toBestVoucherView(group.BestVoucher),
		})
	}
	return view
}

func toVoucherViews(vouchers []service.AnnotatedVoucher) []voucherView {
	views := make([]voucherView, len(vouchers))
	for i, av := range vouchers {
		views[i] = voucherView{
			ID:                av.Voucher.ID,
			Scope:             string(av.Voucher.Scope),
			BrandID:           av.Voucher.BrandID,
			DiscountKind:      string(av.Voucher.DiscountKind),
			DiscountValue:     av.Voucher.DiscountValue,
			MaxDiscount:       av.Voucher.MaxDiscount,
			MinOrderValue:     av.Voucher.MinOrderValue,
			ApplyType:         string(av.Voucher.ApplyType),
			ApplicableItemIDs: av.Voucher.ApplicableItemIDs,
			StartTime:         av.Voucher.StartTime.UTC().Format(time.RFC3339),
			EndTime:           av.Voucher.EndTime.UTC().Format(time.RFC3339),
			Eligible:          av.Evaluation.Eligible,
			Reason:            string(av.Evaluation.Reason),
			DiscountAmount:    round2(av.Evaluation.DiscountAmount),
			Best:              av.Best,
		}
	}
	return views
}
