package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/service"
)

// CartStore implements service.CartStore using PostgreSQL.
type CartStore struct {
	db *pgxpool.Pool
}

// Compile-time check that CartStore implements service.CartStore.
var _ service.CartStore = (*CartStore)(nil)

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(db *pgxpool.Pool) *CartStore {
	return &CartStore{db: db}
}

const getOrCreateCartSQL = `
INSERT INTO carts (id, session_id)
VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE SET updated_at = now()
RETURNING id, session_id, created_at, updated_at`

const getCartSQL = `
SELECT id, session_id, created_at, updated_at
FROM carts
WHERE id = $1`

const lineColumns = `
    id, cart_id, brand_id, product_id, variant_id,
    quantity, selected, unit_price, discount_kind, discount_value`

const listLinesSQL = `
SELECT` + lineColumns + `
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at, id`

const getLineSQL = `
SELECT` + lineColumns + `
FROM cart_lines
WHERE cart_id = $1 AND id = $2`

const addLineSQL = `
INSERT INTO cart_lines (
    id, cart_id, brand_id, product_id, variant_id,
    quantity, selected, unit_price, discount_kind, discount_value
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (cart_id, variant_id) DO UPDATE SET
    quantity       = cart_lines.quantity + EXCLUDED.quantity,
    selected       = EXCLUDED.selected,
    unit_price     = EXCLUDED.unit_price,
    discount_kind  = EXCLUDED.discount_kind,
    discount_value = EXCLUDED.discount_value,
    updated_at     = now()
RETURNING` + lineColumns

const updateLineSQL = `
UPDATE cart_lines SET
    variant_id     = $3,
    quantity       = $4,
    selected       = $5,
    unit_price     = $6,
    discount_kind  = $7,
    discount_value = $8,
    updated_at     = now()
WHERE cart_id = $1 AND id = $2`

const removeLineSQL = `
DELETE FROM cart_lines
WHERE cart_id = $1 AND id = $2`

const setSelectionSQL = `
UPDATE cart_lines SET selected = $3, updated_at = now()
WHERE cart_id = $1 AND id = ANY($2::uuid[])`

const listChosenVouchersSQL = `
SELECT cart_id, brand_id, voucher_id
FROM cart_vouchers
WHERE cart_id = $1`

const setChosenVoucherSQL = `
INSERT INTO cart_vouchers (cart_id, brand_id, voucher_id)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, brand_id) DO UPDATE SET voucher_id = EXCLUDED.voucher_id`

const clearChosenVoucherSQL = `
DELETE FROM cart_vouchers
WHERE cart_id = $1 AND brand_id = $2`

// GetOrCreateCart returns the cart for the session, creating it on first use.
func (s *CartStore) GetOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	id, err := pgUUID(newID())
	if err != nil {
		return nil, domain.Internal(err, "cart.get_or_create", "failed to generate cart ID")
	}

	var (
		cart     domain.Cart
		cartID   pgtype.UUID
	)
	err = s.db.QueryRow(ctx, getOrCreateCartSQL, id, sessionID).
		Scan(&cartID, &cart.SessionID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, domain.Internal(err, "cart.get_or_create", "failed to upsert cart")
	}
	cart.ID = uuidString(cartID)
	return &cart, nil
}

// GetCart returns a cart by ID.
func (s *CartStore) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	id, err := pgUUID(cartID)
	if err != nil {
		return nil, domain.Invalid("cart.get", "invalid cart ID")
	}

	var (
		cart domain.Cart
		cid  pgtype.UUID
	)
	err = s.db.QueryRow(ctx, getCartSQL, id).
		Scan(&cid, &cart.SessionID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.get", "failed to get cart")
	}
	cart.ID = uuidString(cid)
	return &cart, nil
}

// ListLines returns all lines in a cart in insertion order.
func (s *CartStore) ListLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	id, err := pgUUID(cartID)
	if err != nil {
		return nil, domain.Invalid("cart.list_lines", "invalid cart ID")
	}

	rows, err := s.db.Query(ctx, listLinesSQL, id)
	if err != nil {
		return nil, domain.Internal(err, "cart.list_lines", "failed to list lines")
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		ln, err := scanLine(rows)
		if err != nil {
			return nil, domain.Internal(err, "cart.list_lines", "failed to scan line")
		}
		lines = append(lines, *ln)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.list_lines", "failed to read lines")
	}
	return lines, nil
}

// GetLine returns one cart line.
func (s *CartStore) GetLine(ctx context.Context, cartID, lineID string) (*domain.CartLine, error) {
	cid, err := pgUUID(cartID)
	if err != nil {
		return nil, domain.Invalid("cart.get_line", "invalid cart ID")
	}
	lid, err := pgUUID(lineID)
	if err != nil {
		return nil, domain.Invalid("cart.get_line", "invalid line ID")
	}

	row := s.db.QueryRow(ctx, getLineSQL, cid, lid)
	ln, err := scanLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartLineNotFound
		}
		return nil, domain.Internal(err, "cart.get_line", "failed to get line")
	}
	return ln, nil
}

// AddLine inserts a line, or increments quantity when the cart already holds
// the same variant.
func (s *CartStore) AddLine(ctx context.Context, line domain.CartLine) (*domain.CartLine, error) {
	if line.ID == "" {
		line.ID = newID()
	}
	args, err := lineArgs(line)
	if err != nil {
		return nil, domain.Invalid("cart.add_line", err.Error())
	}

	row := s.db.QueryRow(ctx, addLineSQL, args...)
	ln, err := scanLine(row)
	if err != nil {
		return nil, domain.Internal(err, "cart.add_line", "failed to upsert line")
	}
	return ln, nil
}

// UpdateLine overwrites a line's variant, quantity, selection and pricing
// snapshot.
func (s *CartStore) UpdateLine(ctx context.Context, line domain.CartLine) error {
	cid, err := pgUUID(line.CartID)
	if err != nil {
		return domain.Invalid("cart.update_line", "invalid cart ID")
	}
	lid, err := pgUUID(line.ID)
	if err != nil {
		return domain.Invalid("cart.update_line", "invalid line ID")
	}
	vid, err := pgUUID(line.VariantID)
	if err != nil {
		return domain.Invalid("cart.update_line", "invalid variant ID")
	}

	tag, err := s.db.Exec(ctx, updateLineSQL,
		cid, lid, vid,
		line.Quantity, line.Selected,
		line.UnitPrice, pgText(string(line.DiscountKind)), line.DiscountValue,
	)
	if err != nil {
		return domain.Internal(err, "cart.update_line", "failed to update line")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

// RemoveLine deletes a line from the cart.
func (s *CartStore) RemoveLine(ctx context.Context, cartID, lineID string) error {
	cid, err := pgUUID(cartID)
	if err != nil {
		return domain.Invalid("cart.remove_line", "invalid cart ID")
	}
	lid, err := pgUUID(lineID)
	if err != nil {
		return domain.Invalid("cart.remove_line", "invalid line ID")
	}

	tag, err := s.db.Exec(ctx, removeLineSQL, cid, lid)
	if err != nil {
		return domain.Internal(err, "cart.remove_line", "failed to remove line")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

// SetSelection persists the selected flag for the given line IDs.
func (s *CartStore) SetSelection(ctx context.Context, cartID string, lineIDs []string, selected bool) error {
	if len(lineIDs) == 0 {
		return nil
	}
	cid, err := pgUUID(cartID)
	if err != nil {
		return domain.Invalid("cart.set_selection", "invalid cart ID")
	}

	_, err = s.db.Exec(ctx, setSelectionSQL, cid, lineIDs, selected)
	if err != nil {
		return domain.Internal(err, "cart.set_selection", "failed to set selection")
	}
	return nil
}

// ListChosenVouchers returns the cart's applied voucher choices.
func (s *CartStore) ListChosenVouchers(ctx context.Context, cartID string) ([]domain.ChosenVoucher, error) {
	cid, err := pgUUID(cartID)
	if err != nil {
		return nil, domain.Invalid("cart.list_vouchers", "invalid cart ID")
	}

	rows, err := s.db.Query(ctx, listChosenVouchersSQL, cid)
	if err != nil {
		return nil, domain.Internal(err, "cart.list_vouchers", "failed to list chosen vouchers")
	}
	defer rows.Close()

	var choices []domain.ChosenVoucher
	for rows.Next() {
		var (
			cv       domain.ChosenVoucher
			id, vid  pgtype.UUID
		)
		if err := rows.Scan(&id, &cv.BrandID, &vid); err != nil {
			return nil, domain.Internal(err, "cart.list_vouchers", "failed to scan chosen voucher")
		}
		cv.CartID = uuidString(id)
		cv.VoucherID = uuidString(vid)
		choices = append(choices, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.list_vouchers", "failed to read chosen vouchers")
	}
	return choices, nil
}

// SetChosenVoucher stores the voucher choice for one scope. An empty voucher
// ID clears the choice. BrandID is "" for the platform scope.
func (s *CartStore) SetChosenVoucher(ctx context.Context, cartID, brandID, voucherID string) error {
	cid, err := pgUUID(cartID)
	if err != nil {
		return domain.Invalid("cart.set_voucher", "invalid cart ID")
	}

	if voucherID == "" {
		_, err = s.db.Exec(ctx, clearChosenVoucherSQL, cid, brandID)
		if err != nil {
			return domain.Internal(err, "cart.set_voucher", "failed to clear chosen voucher")
		}
		return nil
	}

	vid, err := pgUUID(voucherID)
	if err != nil {
		return domain.Invalid("cart.set_voucher", "invalid voucher ID")
	}

	_, err = s.db.Exec(ctx, setChosenVoucherSQL, cid, brandID, vid)
	if err != nil {
		return domain.Internal(err, "cart.set_voucher", "failed to set chosen voucher")
	}
	return nil
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var (
		ln                 domain.CartLine
		id, cid, bid       pgtype.UUID
		pid, vid           pgtype.UUID
		discountKind       pgtype.Text
	)

	err := row.Scan(
		&id, &cid, &bid, &pid, &vid,
		&ln.Quantity, &ln.Selected,
		&ln.UnitPrice, &discountKind, &ln.DiscountValue,
	)
	if err != nil {
		return nil, err
	}

	ln.ID = uuidString(id)
	ln.CartID = uuidString(cid)
	ln.BrandID = uuidString(bid)
	ln.ProductID = uuidString(pid)
	ln.VariantID = uuidString(vid)
	ln.DiscountKind = domain.DiscountKind(discountKind.String)
	return &ln, nil
}

func lineArgs(line domain.CartLine) ([]any, error) {
	id, err := pgUUID(line.ID)
	if err != nil {
		return nil, err
	}
	cid, err := pgUUID(line.CartID)
	if err != nil {
		return nil, err
	}
	bid, err := pgUUID(line.BrandID)
	if err != nil {
		return nil, err
	}
	pid, err := pgUUID(line.ProductID)
	if err != nil {
		return nil, err
	}
	vid, err := pgUUID(line.VariantID)
	if err != nil {
		return nil, err
	}

	return []any{
		id, cid, bid, pid, vid,
		line.Quantity, line.Selected,
		line.UnitPrice, pgText(string(line.DiscountKind)), line.DiscountValue,
	}, nil
}
