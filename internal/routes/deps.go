package routes

import (
	"github.com/emblashop/embla/internal/handler/api"
)

// APIDeps contains the handlers the API routes dispatch to.
type APIDeps struct {
	Products *api.ProductHandler
	Cart     *api.CartHandler
	Vouchers *api.VoucherHandler
	Checkout *api.CheckoutHandler
}
