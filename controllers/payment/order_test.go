package paymentController

import (
	"testing"
	"time"

	"edupay/models"
	"edupay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceOrder(t *testing.T) {
	course := &models.Course{Price: 1000}

	t.Run("first purchase prices at the tier amount", func(t *testing.T) {
		amount, err := PriceOrder(course, nil, utils.TierPartial30)
		require.NoError(t, err)
		assert.Equal(t, uint(300), amount)

		amount, err = PriceOrder(course, nil, utils.TierFull)
		require.NoError(t, err)
		assert.Equal(t, uint(1000), amount)
	})

	t.Run("rejects invalid tiers", func(t *testing.T) {
		_, err := PriceOrder(course, nil, 45)
		assert.ErrorIs(t, err, utils.ErrInvalidTier)
	})

	t.Run("rejects duplicate purchase of the same tier", func(t *testing.T) {
		access := &models.CourseAccess{PaidPercentage: 50, AmountPaid: 500}
		_, err := PriceOrder(course, access, utils.TierPartial50)
		assert.ErrorIs(t, err, ErrDuplicatePurchase)
	})

	t.Run("rejects downgrade below held tier", func(t *testing.T) {
		access := &models.CourseAccess{PaidPercentage: 100, AmountPaid: 1000}
		_, err := PriceOrder(course, access, utils.TierPartial30)
		assert.ErrorIs(t, err, ErrDuplicatePurchase)
	})

	t.Run("balance payment to full prices the remainder", func(t *testing.T) {
		access := &models.CourseAccess{PaidPercentage: 30, AmountPaid: 300}
		amount, err := PriceOrder(course, access, utils.TierFull)
		require.NoError(t, err)
		assert.Equal(t, uint(700), amount)
	})

	t.Run("upgrade to mid tier prices the difference", func(t *testing.T) {
		access := &models.CourseAccess{PaidPercentage: 30, AmountPaid: 300}
		amount, err := PriceOrder(course, access, utils.TierPartial50)
		require.NoError(t, err)
		assert.Equal(t, uint(200), amount)
	})

	t.Run("paid beyond the course price is an invalid state", func(t *testing.T) {
		access := &models.CourseAccess{PaidPercentage: 50, AmountPaid: 1200}
		_, err := PriceOrder(course, access, utils.TierFull)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestBeginCheckout(t *testing.T) {
	db := setupTestDB(t)

	order := models.PaymentOrder{
		UserID:         1,
		CourseID:       1,
		DomainID:       1,
		PaidPercentage: 30,
		Amount:         300,
		Status:         models.OrderStatusCreated,
		Receipt:        "rcpt_chk_1",
		GatewayOrderID: "order_CHK1",
	}
	require.NoError(t, db.Create(&order).Error)

	expiresAt := time.Now().Add(30 * time.Minute)

	moved, err := BeginCheckout(db, order.ID, expiresAt)
	require.NoError(t, err)
	assert.True(t, moved)

	var stored models.PaymentOrder
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusAwaitingCallback, stored.Status)
	require.NotNil(t, stored.ExpiresAt)
	assert.WithinDuration(t, expiresAt, *stored.ExpiresAt, time.Second)

	t.Run("second checkout of the same order finds zero rows", func(t *testing.T) {
		moved, err := BeginCheckout(db, order.ID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, moved)

		// the original expiry must survive the rejected repeat
		var again models.PaymentOrder
		require.NoError(t, db.First(&again, order.ID).Error)
		assert.Equal(t, models.OrderStatusAwaitingCallback, again.Status)
		assert.WithinDuration(t, expiresAt, *again.ExpiresAt, time.Second)
	})

	t.Run("settled order cannot re-enter checkout", func(t *testing.T) {
		result, err := ReconcileCallback(db, successParams("order_CHK1", "pay_CHK1"))
		require.NoError(t, err)
		require.True(t, result.Verified)

		moved, err := BeginCheckout(db, order.ID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, moved)

		var settled models.PaymentOrder
		require.NoError(t, db.First(&settled, order.ID).Error)
		assert.Equal(t, models.OrderStatusVerified, settled.Status)
	})
}
