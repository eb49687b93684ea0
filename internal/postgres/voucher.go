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

// VoucherStore implements service.VoucherStore using PostgreSQL.
type VoucherStore struct {
	db *pgxpool.Pool
}

// Compile-time check that VoucherStore implements service.VoucherStore.
var _ service.VoucherStore = (*VoucherStore)(nil)

// NewVoucherStore creates a new PostgreSQL-backed voucher store.
func NewVoucherStore(db *pgxpool.Pool) *VoucherStore {
	return &VoucherStore{db: db}
}

const voucherColumns = `
    v.id, v.scope, v.brand_id,
    v.kind, v.value, v.max_discount, v.min_order_value,
    v.apply_type, v.start_time, v.end_time,
    v.status, v.unavailable_reason,
    COALESCE(array_agg(i.variant_id::text) FILTER (WHERE i.variant_id IS NOT NULL), '{}')`

const listBrandVouchersSQL = `
SELECT` + voucherColumns + `
FROM vouchers v
LEFT JOIN voucher_items i ON i.voucher_id = v.id
WHERE v.scope = 'brand' AND v.brand_id = $1
GROUP BY v.id
ORDER BY v.end_time, v.id`

const listPlatformVouchersSQL = `
SELECT` + voucherColumns + `
FROM vouchers v
LEFT JOIN voucher_items i ON i.voucher_id = v.id
WHERE v.scope = 'platform'
GROUP BY v.id
ORDER BY v.end_time, v.id`

const getVoucherSQL = `
SELECT` + voucherColumns + `
FROM vouchers v
LEFT JOIN voucher_items i ON i.voucher_id = v.id
WHERE v.id = $1
GROUP BY v.id`

// ListBrandVouchers returns the vouchers scoped to one brand.
func (s *VoucherStore) ListBrandVouchers(ctx context.Context, brandID string) ([]domain.Voucher, error) {
	id, err := pgUUID(brandID)
	if err != nil {
		return nil, domain.Invalid("voucher.list_brand", "invalid brand ID")
	}

	rows, err := s.db.Query(ctx, listBrandVouchersSQL, id)
	if err != nil {
		return nil, domain.Internal(err, "voucher.list_brand", "failed to list brand vouchers")
	}
	defer rows.Close()

	return collectVouchers(rows, "voucher.list_brand")
}

// ListPlatformVouchers returns the platform-wide vouchers.
func (s *VoucherStore) ListPlatformVouchers(ctx context.Context) ([]domain.Voucher, error) {
	rows, err := s.db.Query(ctx, listPlatformVouchersSQL)
	if err != nil {
		return nil, domain.Internal(err, "voucher.list_platform", "failed to list platform vouchers")
	}
	defer rows.Close()

	return collectVouchers(rows, "voucher.list_platform")
}

// GetVoucher returns a single voucher by ID.
func (s *VoucherStore) GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	id, err := pgUUID(voucherID)
	if err != nil {
		return nil, domain.Invalid("voucher.get", "invalid voucher ID")
	}

	row := s.db.QueryRow(ctx, getVoucherSQL, id)
	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("voucher.get", "Voucher", voucherID)
		}
		return nil, domain.Internal(err, "voucher.get", "failed to get voucher")
	}
	return v, nil
}

func collectVouchers(rows pgx.Rows, op string) ([]domain.Voucher, error) {
	var vouchers []domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan voucher")
		}
		vouchers = append(vouchers, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read vouchers")
	}
	return vouchers, nil
}

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var (
		v        domain.Voucher
		id, bid  pgtype.UUID
		reason   pgtype.Text
		itemIDs  []string
	)

	err := row.Scan(
		&id, &v.Scope, &bid,
		&v.DiscountKind, &v.DiscountValue, &v.MaxDiscount, &v.MinOrderValue,
		&v.ApplyType, &v.StartTime, &v.EndTime,
		&v.Status, &reason,
		&itemIDs,
	)
	if err != nil {
		return nil, err
	}

	v.ID = uuidString(id)
	v.BrandID = uuidString(bid)
	v.UnavailableReason = domain.UnavailableReason(reason.String)
	v.ApplicableItemIDs = itemIDs

	return &v, nil
}
