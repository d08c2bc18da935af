package paymentController

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"edupay/config"
	"edupay/database"
	"edupay/models"
	"edupay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test_gateway_secret"

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		RazorpayKeySecret:  testSecret,
		OrderExpiryMinutes: 30,
	}
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	return db
}

func sign(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func seedOrder(t *testing.T, db *gorm.DB, gatewayOrderID string, percentage int, amount uint) *models.PaymentOrder {
	t.Helper()

	order := models.PaymentOrder{
		UserID:         1,
		CourseID:       1,
		DomainID:       1,
		PaidPercentage: percentage,
		Amount:         amount,
		Status:         models.OrderStatusAwaitingCallback,
		Receipt:        "rcpt_" + gatewayOrderID,
		GatewayOrderID: gatewayOrderID,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func successParams(gatewayOrderID, paymentID string) CallbackParams {
	return CallbackParams{
		GatewayOrderID: gatewayOrderID,
		PaymentID:      paymentID,
		Signature:      sign(gatewayOrderID, paymentID),
		Outcome:        OutcomeSuccess,
	}
}

func TestReconcileCallbackSuccess(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, "order_A1", 30, 300)

	result, err := ReconcileCallback(db, successParams("order_A1", "pay_A1"))
	require.NoError(t, err)

	assert.True(t, result.Verified)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, utils.VideoAccessFirst4, result.VideoAccess)
	assert.Equal(t, 30, result.PaidPercentage)
	assert.Equal(t, uint(300), result.AmountPaid)

	var order models.PaymentOrder
	require.NoError(t, db.Where("gateway_order_id = ?", "order_A1").First(&order).Error)
	assert.Equal(t, models.OrderStatusVerified, order.Status)
	assert.Equal(t, "pay_A1", order.PaymentID)

	var access models.CourseAccess
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 1).First(&access).Error)
	assert.Equal(t, 30, access.PaidPercentage)
	assert.Equal(t, uint(300), access.AmountPaid)
	assert.Equal(t, utils.VideoAccessFirst4, access.VideoAccess)

	var event models.PaymentEvent
	require.NoError(t, db.Where("gateway_order_id = ?", "order_A1").First(&event).Error)
	assert.Equal(t, OutcomeSuccess, event.Outcome)
	assert.True(t, event.SignatureValid)
}

func TestReconcileCallbackIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, "order_B1", 30, 300)

	params := successParams("order_B1", "pay_B1")

	first, err := ReconcileCallback(db, params)
	require.NoError(t, err)
	require.True(t, first.Verified)

	// Redelivery of the identical callback returns the recorded result and
	// changes nothing.
	second, err := ReconcileCallback(db, params)
	require.NoError(t, err)
	assert.True(t, second.Verified)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, first.AmountPaid, second.AmountPaid)
	assert.Equal(t, first.PaidPercentage, second.PaidPercentage)

	var access models.CourseAccess
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 1).First(&access).Error)
	assert.Equal(t, uint(300), access.AmountPaid)

	var eventCount int64
	db.Model(&models.PaymentEvent{}).Where("gateway_order_id = ?", "order_B1").Count(&eventCount)
	assert.Equal(t, int64(1), eventCount)
}

func TestReconcileCallbackTamperedSignature(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, "order_C1", 100, 1000)

	params := CallbackParams{
		GatewayOrderID: "order_C1",
		PaymentID:      "pay_C1",
		Signature:      sign("order_C1", "pay_other"),
		Outcome:        OutcomeSuccess,
	}

	_, err := ReconcileCallback(db, params)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	// Order untouched, no entitlement created
	var order models.PaymentOrder
	require.NoError(t, db.Where("gateway_order_id = ?", "order_C1").First(&order).Error)
	assert.Equal(t, models.OrderStatusAwaitingCallback, order.Status)

	var accessCount int64
	db.Model(&models.CourseAccess{}).Count(&accessCount)
	assert.Equal(t, int64(0), accessCount)

	// The rejected attempt is still on the audit log
	var event models.PaymentEvent
	require.NoError(t, db.Where("gateway_order_id = ?", "order_C1").First(&event).Error)
	assert.False(t, event.SignatureValid)

	// A tampered failure callback is rejected the same way
	params.Outcome = OutcomeFailure
	_, err = ReconcileCallback(db, params)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	// The genuine callback still settles after rejected attempts
	result, err := ReconcileCallback(db, successParams("order_C1", "pay_C1"))
	require.NoError(t, err)
	assert.True(t, result.Verified)

	var events []models.PaymentEvent
	require.NoError(t, db.Where("gateway_order_id = ?", "order_C1").Order("id asc").Find(&events).Error)
	require.Len(t, events, 3)
	assert.False(t, events[0].SignatureValid)
	assert.False(t, events[1].SignatureValid)
	assert.True(t, events[2].SignatureValid)
}

func TestReconcileCallbackFailureOutcome(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, "order_D1", 50, 500)

	params := CallbackParams{
		GatewayOrderID: "order_D1",
		PaymentID:      "pay_D1",
		Signature:      sign("order_D1", "pay_D1"),
		Outcome:        OutcomeFailure,
	}

	result, err := ReconcileCallback(db, params)
	require.NoError(t, err)
	assert.False(t, result.Verified)

	var order models.PaymentOrder
	require.NoError(t, db.Where("gateway_order_id = ?", "order_D1").First(&order).Error)
	assert.Equal(t, models.OrderStatusFailed, order.Status)

	// Failure never grants entitlement
	var accessCount int64
	db.Model(&models.CourseAccess{}).Count(&accessCount)
	assert.Equal(t, int64(0), accessCount)

	// A later success callback for the failed order is a recorded no-op
	again, err := ReconcileCallback(db, successParams("order_D1", "pay_D1"))
	require.NoError(t, err)
	assert.False(t, again.Verified)
	assert.True(t, again.AlreadyProcessed)
}

func TestReconcileCallbackUnknownOrder(t *testing.T) {
	db := setupTestDB(t)

	_, err := ReconcileCallback(db, successParams("order_missing", "pay_X"))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReconcileCallbackExpiredOrder(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "order_E1", 30, 300)
	require.NoError(t, db.Model(order).Update("status", models.OrderStatusExpired).Error)

	_, err := ReconcileCallback(db, successParams("order_E1", "pay_E1"))
	assert.ErrorIs(t, err, ErrOrderExpired)

	// Expired orders never credit, even with a valid signature
	var accessCount int64
	db.Model(&models.CourseAccess{}).Count(&accessCount)
	assert.Equal(t, int64(0), accessCount)
}

func TestReconcileCallbackBalancePayment(t *testing.T) {
	db := setupTestDB(t)

	// Initial 30% purchase of a 1000-unit course
	seedOrder(t, db, "order_F1", 30, 300)
	result, err := ReconcileCallback(db, successParams("order_F1", "pay_F1"))
	require.NoError(t, err)
	assert.Equal(t, uint(300), result.AmountPaid)
	assert.Equal(t, utils.VideoAccessFirst4, result.VideoAccess)

	// Balance order to 100% for the remaining 700
	seedOrder(t, db, "order_F2", 100, 700)
	result, err = ReconcileCallback(db, successParams("order_F2", "pay_F2"))
	require.NoError(t, err)

	assert.Equal(t, 100, result.PaidPercentage)
	assert.Equal(t, uint(1000), result.AmountPaid)
	assert.Equal(t, utils.VideoAccessAll, result.VideoAccess)

	// Single entitlement row, folded monotonically
	var accessCount int64
	db.Model(&models.CourseAccess{}).Count(&accessCount)
	assert.Equal(t, int64(1), accessCount)
}

func TestReconcileCallbackTierNeverDecreases(t *testing.T) {
	db := setupTestDB(t)

	seedOrder(t, db, "order_G1", 100, 1000)
	result, err := ReconcileCallback(db, successParams("order_G1", "pay_G1"))
	require.NoError(t, err)
	require.Equal(t, 100, result.PaidPercentage)

	// A verified lower-tier order adds its amount but never lowers the tier
	seedOrder(t, db, "order_G2", 30, 300)
	result, err = ReconcileCallback(db, successParams("order_G2", "pay_G2"))
	require.NoError(t, err)

	assert.Equal(t, 100, result.PaidPercentage)
	assert.Equal(t, utils.VideoAccessAll, result.VideoAccess)
	assert.Equal(t, uint(1300), result.AmountPaid)
}

func TestRebuildCourseAccess(t *testing.T) {
	db := setupTestDB(t)

	seedOrder(t, db, "order_H1", 30, 300)
	seedOrder(t, db, "order_H2", 100, 700)
	_, err := ReconcileCallback(db, successParams("order_H1", "pay_H1"))
	require.NoError(t, err)
	_, err = ReconcileCallback(db, successParams("order_H2", "pay_H2"))
	require.NoError(t, err)

	// Corrupt the projection, then rebuild it from verified orders
	require.NoError(t, db.Model(&models.CourseAccess{}).
		Where("user_id = ? AND course_id = ?", 1, 1).
		Updates(map[string]interface{}{"paid_percentage": 30, "amount_paid": 1, "video_access": "4"}).Error)

	rebuilt, err := RebuildCourseAccess(db, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, rebuilt)

	assert.Equal(t, 100, rebuilt.PaidPercentage)
	assert.Equal(t, uint(1000), rebuilt.AmountPaid)
	assert.Equal(t, utils.VideoAccessAll, rebuilt.VideoAccess)
}

func TestRebuildCourseAccessIgnoresUnverifiedOrders(t *testing.T) {
	db := setupTestDB(t)

	seedOrder(t, db, "order_I1", 30, 300) // stays AWAITING_CALLBACK
	failed := seedOrder(t, db, "order_I2", 100, 1000)
	require.NoError(t, db.Model(failed).Update("status", models.OrderStatusFailed).Error)

	rebuilt, err := RebuildCourseAccess(db, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, rebuilt)
}

func TestExpirySweepRacesCallback(t *testing.T) {
	db := setupTestDB(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	overdue := seedOrder(t, db, "order_J1", 30, 300)
	require.NoError(t, db.Model(overdue).Update("expires_at", past).Error)
	fresh := seedOrder(t, db, "order_J2", 30, 300)
	require.NoError(t, db.Model(fresh).Update("expires_at", future).Error)

	// Verify the overdue order just before the sweep runs
	_, err := ReconcileCallback(db, successParams("order_J1", "pay_J1"))
	require.NoError(t, err)

	count, err := utils.ExpireOverdueOrders(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// The sweep skipped the verified order and the fresh one alike
	var order models.PaymentOrder
	require.NoError(t, db.Where("gateway_order_id = ?", "order_J1").First(&order).Error)
	assert.Equal(t, models.OrderStatusVerified, order.Status)

	// Once the fresh order goes overdue the sweep expires it
	require.NoError(t, db.Model(fresh).Update("expires_at", past).Error)
	count, err = utils.ExpireOverdueOrders(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	order = models.PaymentOrder{}
	require.NoError(t, db.Where("gateway_order_id = ?", "order_J2").First(&order).Error)
	assert.Equal(t, models.OrderStatusExpired, order.Status)

	// And its late callback is rejected
	_, err = ReconcileCallback(db, successParams("order_J2", "pay_J2"))
	assert.ErrorIs(t, err, ErrOrderExpired)
}
