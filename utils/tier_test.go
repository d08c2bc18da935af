package utils

import (
	"testing"

	"edupay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountForTier(t *testing.T) {
	t.Run("full tier collects the exact price", func(t *testing.T) {
		for _, price := range []uint{1, 99, 100, 1000, 99999} {
			amount, err := AmountForTier(price, TierFull)
			require.NoError(t, err)
			assert.Equal(t, price, amount)
		}
	})

	t.Run("rounds up so partial tiers never under-collect", func(t *testing.T) {
		// 30% of 999 is 299.7, must charge 300
		amount, err := AmountForTier(999, TierPartial30)
		require.NoError(t, err)
		assert.Equal(t, uint(300), amount)

		// 50% of 101 is 50.5, must charge 51
		amount, err = AmountForTier(101, TierPartial50)
		require.NoError(t, err)
		assert.Equal(t, uint(51), amount)
	})

	t.Run("monotonically non-decreasing in tier", func(t *testing.T) {
		for _, price := range []uint{1, 10, 999, 1000, 54321} {
			a30, err := AmountForTier(price, TierPartial30)
			require.NoError(t, err)
			a50, err := AmountForTier(price, TierPartial50)
			require.NoError(t, err)
			a100, err := AmountForTier(price, TierFull)
			require.NoError(t, err)

			assert.LessOrEqual(t, a30, a50)
			assert.LessOrEqual(t, a50, a100)
		}
	})

	t.Run("rejects percentages outside the tier set", func(t *testing.T) {
		for _, bad := range []int{0, -30, 25, 70, 99, 101} {
			_, err := AmountForTier(1000, bad)
			assert.ErrorIs(t, err, ErrInvalidTier)
		}
	})

	t.Run("scenario from the payment flow", func(t *testing.T) {
		amount, err := AmountForTier(1000, TierPartial30)
		require.NoError(t, err)
		assert.Equal(t, uint(300), amount)
	})
}

func TestVideoAccessForTier(t *testing.T) {
	access, err := VideoAccessForTier(TierPartial30)
	require.NoError(t, err)
	assert.Equal(t, VideoAccessFirst4, access)

	access, err = VideoAccessForTier(TierPartial50)
	require.NoError(t, err)
	assert.Equal(t, VideoAccessFirst8, access)

	access, err = VideoAccessForTier(TierFull)
	require.NoError(t, err)
	assert.Equal(t, VideoAccessAll, access)

	_, err = VideoAccessForTier(75)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestBalanceDue(t *testing.T) {
	due, err := BalanceDue(1000, 300)
	require.NoError(t, err)
	assert.Equal(t, uint(700), due)

	due, err = BalanceDue(1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint(0), due)

	_, err = BalanceDue(1000, 1001)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAccessLimit(t *testing.T) {
	assert.Equal(t, 4, AccessLimit(VideoAccessFirst4))
	assert.Equal(t, 8, AccessLimit(VideoAccessFirst8))
	assert.Equal(t, AccessAll, AccessLimit(VideoAccessAll))

	// no entitlement unlocks nothing
	assert.Equal(t, 0, AccessLimit(""))
	assert.Equal(t, 0, AccessLimit("12"))
}

func makeModules(n int) []models.CourseModule {
	modules := make([]models.CourseModule, n)
	for i := range modules {
		modules[i] = models.CourseModule{CourseID: 1, OrderIndex: i + 1}
	}
	return modules
}

func TestVisibleModules(t *testing.T) {
	modules := makeModules(10)

	t.Run("first-4 tier sees exactly four", func(t *testing.T) {
		visible := VisibleModules(modules, VideoAccessFirst4, false)
		require.Len(t, visible, 4)
		for i, m := range visible {
			assert.Equal(t, i+1, m.OrderIndex)
		}
	})

	t.Run("first-8 tier sees exactly eight", func(t *testing.T) {
		visible := VisibleModules(modules, VideoAccessFirst8, false)
		assert.Len(t, visible, 8)
	})

	t.Run("all tier sees the full ordered sequence", func(t *testing.T) {
		visible := VisibleModules(modules, VideoAccessAll, false)
		assert.Len(t, visible, 10)
	})

	t.Run("limit beyond course length returns everything", func(t *testing.T) {
		visible := VisibleModules(makeModules(3), VideoAccessFirst8, false)
		assert.Len(t, visible, 3)
	})

	t.Run("gates by order index, not slice position", func(t *testing.T) {
		gapped := []models.CourseModule{
			{CourseID: 1, OrderIndex: 2},
			{CourseID: 1, OrderIndex: 5},
			{CourseID: 1, OrderIndex: 7},
			{CourseID: 1, OrderIndex: 9},
		}

		visible := VisibleModules(gapped, VideoAccessFirst4, false)
		require.Len(t, visible, 1)
		assert.Equal(t, 2, visible[0].OrderIndex)

		visible = VisibleModules(gapped, VideoAccessFirst8, false)
		require.Len(t, visible, 3)
		assert.Equal(t, 7, visible[2].OrderIndex)
	})

	t.Run("no entitlement sees nothing", func(t *testing.T) {
		visible := VisibleModules(modules, "", false)
		assert.Empty(t, visible)
	})

	t.Run("admin bypasses gating regardless of entitlement", func(t *testing.T) {
		visible := VisibleModules(modules, "", true)
		assert.Len(t, visible, 10)
	})
}
