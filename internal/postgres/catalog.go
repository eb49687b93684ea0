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

// CatalogStore implements service.CatalogStore using PostgreSQL.
type CatalogStore struct {
	db *pgxpool.Pool
}

// Compile-time check that CatalogStore implements service.CatalogStore.
var _ service.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore creates a new PostgreSQL-backed catalog store.
func NewCatalogStore(db *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{db: db}
}

const getProductSQL = `
SELECT id, brand_id, name, status
FROM products
WHERE id = $1`

const listProductVariantsSQL = `
SELECT
    v.id, v.product_id, v.title,
    v.color, v.size, v.other,
    v.type, v.status, v.price, v.quantity,
    d.id, d.kind, d.value, d.quantity, d.max_per_order, d.start_time, d.end_time,
    p.id, p.quantity, p.release_at, p.start_time, p.end_time
FROM variants v
LEFT JOIN variant_discounts d ON d.variant_id = v.id
LEFT JOIN variant_preorders p ON p.variant_id = v.id
WHERE v.product_id = $1
ORDER BY v.position, v.id`

const getVariantSQL = `
SELECT
    v.id, v.product_id, v.title,
    v.color, v.size, v.other,
    v.type, v.status, v.price, v.quantity,
    d.id, d.kind, d.value, d.quantity, d.max_per_order, d.start_time, d.end_time,
    p.id, p.quantity, p.release_at, p.start_time, p.end_time
FROM variants v
LEFT JOIN variant_discounts d ON d.variant_id = v.id
LEFT JOIN variant_preorders p ON p.variant_id = v.id
WHERE v.id = $1`

// GetProduct returns a product with its full variant set.
func (s *CatalogStore) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	id, err := pgUUID(productID)
	if err != nil {
		return nil, domain.Invalid("catalog.get_product", "invalid product ID")
	}

	var (
		pid, bid pgtype.UUID
		product  domain.Product
	)
	err = s.db.QueryRow(ctx, getProductSQL, id).Scan(&pid, &bid, &product.Name, &product.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("catalog.get_product", "Product", productID)
		}
		return nil, domain.Internal(err, "catalog.get_product", "failed to get product")
	}
	product.ID = uuidString(pid)
	product.BrandID = uuidString(bid)

	rows, err := s.db.Query(ctx, listProductVariantsSQL, id)
	if err != nil {
		return nil, domain.Internal(err, "catalog.get_product", "failed to list variants")
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, domain.Internal(err, "catalog.get_product", "failed to scan variant")
		}
		product.Variants = append(product.Variants, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.get_product", "failed to read variants")
	}

	return &product, nil
}

// GetVariant returns a single variant snapshot.
func (s *CatalogStore) GetVariant(ctx context.Context, variantID string) (*domain.Variant, error) {
	id, err := pgUUID(variantID)
	if err != nil {
		return nil, domain.Invalid("catalog.get_variant", "invalid variant ID")
	}

	row := s.db.QueryRow(ctx, getVariantSQL, id)
	v, err := scanVariant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariantNotFound
		}
		return nil, domain.Internal(err, "catalog.get_variant", "failed to get variant")
	}
	return v, nil
}

// scanVariant reads one row of the variant + discount + preorder join.
func scanVariant(row pgx.Row) (*domain.Variant, error) {
	var (
		v        domain.Variant
		vid, pid pgtype.UUID

		color, size, other pgtype.Text

		dID                 pgtype.UUID
		dKind               pgtype.Text
		dValue              pgtype.Float8
		dQuantity, dMaxPer  pgtype.Int4
		dStart, dEnd        pgtype.Timestamptz

		poID               pgtype.UUID
		poQuantity         pgtype.Int4
		poRelease, poStart pgtype.Timestamptz
		poEnd              pgtype.Timestamptz
	)

	err := row.Scan(
		&vid, &pid, &v.Title,
		&color, &size, &other,
		&v.Type, &v.Status, &v.Price, &v.Quantity,
		&dID, &dKind, &dValue, &dQuantity, &dMaxPer, &dStart, &dEnd,
		&poID, &poQuantity, &poRelease, &poStart, &poEnd,
	)
	if err != nil {
		return nil, err
	}

	v.ID = uuidString(vid)
	v.ProductID = uuidString(pid)
	v.Attributes = domain.Attributes{
		Color: color.String,
		Size:  size.String,
		Other: other.String,
	}

	if dID.Valid {
		v.Discount = &domain.ProductDiscount{
			ID:            uuidString(dID),
			DiscountKind:  domain.DiscountKind(dKind.String),
			DiscountValue: dValue.Float64,
			Quantity:      int(dQuantity.Int32),
			MaxPerOrder:   int(dMaxPer.Int32),
			StartTime:     dStart.Time,
			EndTime:       dEnd.Time,
		}
	}
	if poID.Valid {
		v.PreOrder = &domain.PreOrder{
			ID:        uuidString(poID),
			Quantity:  int(poQuantity.Int32),
			ReleaseAt: poRelease.Time,
			StartTime: poStart.Time,
			EndTime:   poEnd.Time,
		}
	}

	return &v, nil
}
