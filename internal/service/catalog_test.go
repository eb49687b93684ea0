package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emblashop/embla/internal/classification"
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/service"
)

func sneakerProduct() domain.Product {
	variant := func(id, color, size string, qty int) domain.Variant {
		return domain.Variant{
			ID:         id,
			ProductID:  "prod-sneaker",
			Attributes: domain.Attributes{Color: color, Size: size},
			Type:       domain.VariantTypeCustom,
			Status:     domain.VariantStatusActive,
			Price:      80,
			Quantity:   qty,
		}
	}
	return domain.Product{
		ID:      "prod-sneaker",
		BrandID: "brand-a",
		Name:    "Trail Sneaker",
		Status:  domain.ProductStatusActive,
		Variants: []domain.Variant{
			variant("v-black-40", "black", "40", 8),
			variant("v-black-41", "black", "41", 3),
			variant("v-white-40", "white", "40", 0),
		},
	}
}

func TestCatalogService_GetProductDetail(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore(sneakerProduct()))

	detail, err := svc.GetProductDetail(context.Background(), "prod-sneaker")
	require.NoError(t, err)

	assert.True(t, detail.Purchasable)
	require.Len(t, detail.Options, 2)

	byKey := map[domain.AttributeKey][]service.OptionValue{}
	for _, row := range detail.Options {
		byKey[row.Key] = row.Values
	}
	require.Len(t, byKey[domain.AttributeColor], 2)
	require.Len(t, byKey[domain.AttributeSize], 2)

	// Nothing is selected yet; every value with some in-stock variant behind
	// it is tappable.
	for _, v := range byKey[domain.AttributeColor] {
		assert.False(t, v.Selected)
		if v.Value == "black" {
			assert.True(t, v.Selectable)
		}
	}
}

func TestCatalogService_GetProductDetail_NotFound(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore())

	_, err := svc.GetProductDetail(context.Background(), "prod-missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestCatalogService_ResolveSelection_Matched(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore(sneakerProduct()))

	res, err := svc.ResolveSelection(context.Background(), "prod-sneaker",
		domain.Attributes{Color: "black", Size: "41"}, "")
	require.NoError(t, err)

	assert.Equal(t, classification.StateMatched, res.State)
	require.NotNil(t, res.Variant)
	assert.Equal(t, "v-black-41", res.Variant.ID)
	assert.True(t, res.Purchasable)
	assert.Equal(t, 3, res.MaxQuantity)
}

func TestCatalogService_ResolveSelection_Incomplete(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore(sneakerProduct()))

	res, err := svc.ResolveSelection(context.Background(), "prod-sneaker",
		domain.Attributes{Color: "black"}, "")
	require.NoError(t, err)

	assert.Equal(t, classification.StateIncomplete, res.State)
	assert.Nil(t, res.Variant)
	assert.Equal(t, 0, res.MaxQuantity)

	for _, row := range res.Options {
		if row.Key == domain.AttributeColor {
			for _, v := range row.Values {
				assert.Equal(t, v.Value == "black", v.Selected)
			}
		}
	}
}

func TestCatalogService_ResolveSelection_Unmatched(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore(sneakerProduct()))

	// No white size-41 variant exists in the catalog.
	res, err := svc.ResolveSelection(context.Background(), "prod-sneaker",
		domain.Attributes{Color: "white", Size: "41"}, "")
	require.NoError(t, err)

	assert.Equal(t, classification.StateUnmatched, res.State)
	assert.Nil(t, res.Variant)
	assert.False(t, res.Purchasable)
}

func TestCatalogService_ResolveSelection_OutOfStockNotSelectable(t *testing.T) {
	svc := service.NewCatalogService(newFakeCatalogStore(sneakerProduct()))

	res, err := svc.ResolveSelection(context.Background(), "prod-sneaker",
		domain.Attributes{Color: "white", Size: "40"}, "")
	require.NoError(t, err)

	// The combination exists but carries no stock.
	assert.Equal(t, classification.StateMatched, res.State)
	require.NotNil(t, res.Variant)
	assert.False(t, res.Purchasable)
	assert.Equal(t, 0, res.MaxQuantity)
}
