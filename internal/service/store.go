package service

import (
	"context"

	"github.com/emblashop/embla/internal/domain"
)

// Store interfaces consumed by the services. The postgres package provides
// the production implementations; tests use in-memory fakes.

// CatalogStore reads product and variant snapshots. The catalog is validated
// upstream; the engine treats malformed or duplicate attribute combinations
// as unmatched rather than rejecting them here.
type CatalogStore interface {
	// GetProduct returns a product with its full variant set.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)

	// GetVariant returns a single variant snapshot.
	GetVariant(ctx context.Context, variantID string) (*domain.Variant, error)
}

// VoucherStore reads voucher snapshots scoped to a brand or platform-wide,
// already annotated with server-side status where applicable.
type VoucherStore interface {
	ListBrandVouchers(ctx context.Context, brandID string) ([]domain.Voucher, error)
	ListPlatformVouchers(ctx context.Context) ([]domain.Voucher, error)
	GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error)
}

// CartStore persists carts, lines, selection flags, and voucher choices.
// This is the explicit get/set surface the engine reads from and writes to;
// the engine itself performs no I/O.
type CartStore interface {
	GetOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)

	ListLines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	GetLine(ctx context.Context, cartID, lineID string) (*domain.CartLine, error)

	// AddLine inserts a line, or increments quantity when the cart already
	// holds the same variant. Returns the resulting line.
	AddLine(ctx context.Context, line domain.CartLine) (*domain.CartLine, error)

	UpdateLine(ctx context.Context, line domain.CartLine) error
	RemoveLine(ctx context.Context, cartID, lineID string) error

	// SetSelection persists the selected flag for the given line ids.
	SetSelection(ctx context.Context, cartID string, lineIDs []string, selected bool) error

	ListChosenVouchers(ctx context.Context, cartID string) ([]domain.ChosenVoucher, error)

	// SetChosenVoucher stores the voucher choice for one scope; an empty
	// voucher id clears the choice.
	SetChosenVoucher(ctx context.Context, cartID, brandID, voucherID string) error
}
