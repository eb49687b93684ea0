package routes

import (
	"github.com/emblashop/embla/internal/router"
)

// RegisterAPIRoutes registers the mobile storefront API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Catalog
	r.Get("/api/products/{id}", deps.Products.Detail)
	r.Post("/api/products/{id}/resolve", deps.Products.Resolve)

	// Cart
	r.Get("/api/cart", deps.Cart.Get)
	r.Post("/api/cart/lines", deps.Cart.AddLine)
	r.Patch("/api/cart/lines/{lineID}", deps.Cart.UpdateQuantity)
	r.Post("/api/cart/lines/{lineID}/variant", deps.Cart.ChangeVariant)
	r.Delete("/api/cart/lines/{lineID}", deps.Cart.RemoveLine)
	r.Post("/api/cart/lines/{lineID}/toggle", deps.Cart.ToggleLine)
	r.Post("/api/cart/brands/{brandID}/toggle", deps.Cart.ToggleBrand)

	// Vouchers
	r.Get("/api/cart/vouchers", deps.Vouchers.ListPlatform)
	r.Get("/api/cart/brands/{brandID}/vouchers", deps.Vouchers.ListBrand)
	r.Post("/api/cart/vouchers/choose", deps.Vouchers.Choose)

	// Checkout
	r.Get("/api/checkout/total", deps.Checkout.Total)
	r.Post("/api/checkout/payment-intent", deps.Checkout.PaymentIntent)
}
