package voucher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/voucher"
)

func TestPickBest_MaxDiscountWins(t *testing.T) {
	percent := baseVoucher()
	percent.ID = "percent"
	percent.DiscountValue = 0.2
	percent.MaxDiscount = 50000
	percent.MinOrderValue = 100000

	flat := baseVoucher()
	flat.ID = "flat"
	flat.DiscountKind = domain.DiscountAmount
	flat.DiscountValue = 10000

	// 20% of 200k = 40k, under the 50k cap; beats the 10k flat voucher.
	best := voucher.PickBest([]domain.Voucher{percent, flat}, 200000, nil, now)

	require.NotNil(t, best)
	assert.Equal(t, "percent", best.Voucher.ID)
	assert.InDelta(t, 40000, best.Evaluation.DiscountAmount, 1e-9)
}

func TestPickBest_IneligibleFallsBack(t *testing.T) {
	percent := baseVoucher()
	percent.ID = "percent"
	percent.DiscountValue = 0.2
	percent.MinOrderValue = 100000

	flat := baseVoucher()
	flat.ID = "flat"
	flat.DiscountKind = domain.DiscountAmount
	flat.DiscountValue = 10000

	// Below the percent voucher's minimum order only the flat one is left.
	best := voucher.PickBest([]domain.Voucher{percent, flat}, 50000, nil, now)

	require.NotNil(t, best)
	assert.Equal(t, "flat", best.Voucher.ID)
}

func TestPickBest_TieBreaksToSoonestExpiring(t *testing.T) {
	a := baseVoucher()
	a.ID = "a"
	a.EndTime = now.Add(72 * time.Hour)

	b := baseVoucher()
	b.ID = "b"
	b.EndTime = now.Add(6 * time.Hour)

	best := voucher.PickBest([]domain.Voucher{a, b}, 1000, nil, now)

	require.NotNil(t, best)
	assert.Equal(t, "b", best.Voucher.ID)
}

func TestPickBest_TieBreaksToInputOrder(t *testing.T) {
	a := baseVoucher()
	a.ID = "a"
	b := baseVoucher()
	b.ID = "b"

	best := voucher.PickBest([]domain.Voucher{a, b}, 1000, nil, now)

	require.NotNil(t, best)
	assert.Equal(t, "a", best.Voucher.ID)
}

func TestPickBest_NoneEligible(t *testing.T) {
	a := baseVoucher()
	a.MinOrderValue = 100000

	b := baseVoucher()
	b.StartTime = now.Add(time.Hour)

	best := voucher.PickBest([]domain.Voucher{a, b}, 500, nil, now)
	assert.Nil(t, best)

	assert.Nil(t, voucher.PickBest(nil, 500, nil, now))
}
