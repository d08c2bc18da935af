package paymentController

import (
	"encoding/json"
	"errors"
	"log"

	"edupay/config"
	"edupay/database"
	"edupay/middleware"
	"edupay/models"
	"edupay/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Callback outcomes as recorded on PaymentEvent
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

var (
	ErrOrderNotFound    = errors.New("order not found for callback")
	ErrOrderExpired     = errors.New("order already expired")
	ErrSignatureInvalid = errors.New("gateway signature mismatch")
)

// CallbackParams carries one gateway callback, whether it arrived as a
// redirect or as a client re-post of the redirect parameters.
type CallbackParams struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	Outcome        string
}

// CallbackResult is what reconciliation settled on for an order. For a
// callback that hits an already settled order it carries the recorded
// outcome, so redelivery is a no-op for the caller too.
type CallbackResult struct {
	OrderID          uint   `json:"orderId"`
	Verified         bool   `json:"verified"`
	VideoAccess      string `json:"videoAccess,omitempty"`
	PaidPercentage   int    `json:"paidPercentage,omitempty"`
	AmountPaid       uint   `json:"amountPaid,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}

// ReconcileCallback is the only writer of CourseAccess. It settles one
// gateway callback against its order inside a single transaction: terminal
// orders short-circuit to their recorded result, the signature is checked
// before any mutation, and the status flip is a compare-and-set so two
// concurrent deliveries of the same callback cannot both credit the user.
// On success the order flip and the entitlement upsert commit or roll back
// together.
func ReconcileCallback(db *gorm.DB, params CallbackParams) (*CallbackResult, error) {
	var result *CallbackResult
	var rejectedOrderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.PaymentOrder
		if err := tx.Where("gateway_order_id = ? AND is_deleted = false", params.GatewayOrderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		// Idempotency under at-least-once delivery: a settled order returns
		// its recorded result without touching anything.
		if order.IsTerminal() {
			cached, err := terminalResult(tx, &order)
			if err != nil {
				return err
			}
			result = cached
			return nil
		}

		// Authenticity check before any state mutation
		if !utils.VerifyGatewaySignature(params.GatewayOrderID, params.PaymentID, params.Signature, config.AppConfig.RazorpayKeySecret) {
			log.Printf("[SECURITY] Invalid gateway signature for order %d (gateway order %s, payment %s)",
				order.ID, params.GatewayOrderID, params.PaymentID)
			rejectedOrderID = order.ID
			return ErrSignatureInvalid
		}

		newStatus := models.OrderStatusVerified
		if params.Outcome == OutcomeFailure {
			newStatus = models.OrderStatusFailed
		}

		// Compare-and-set on the status column. Zero rows means another
		// delivery settled (or the sweep expired) the order between our read
		// and this write; fall back to the recorded outcome.
		settle := tx.Model(&models.PaymentOrder{}).
			Where("id = ? AND status IN ?", order.ID, []string{models.OrderStatusCreated, models.OrderStatusAwaitingCallback}).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"payment_id": params.PaymentID,
			})
		if settle.Error != nil {
			return settle.Error
		}
		if settle.RowsAffected == 0 {
			if err := tx.Where("id = ?", order.ID).First(&order).Error; err != nil {
				return err
			}
			cached, err := terminalResult(tx, &order)
			if err != nil {
				return err
			}
			result = cached
			return nil
		}

		if err := recordEvent(tx, order.ID, params, true); err != nil {
			return err
		}

		if newStatus == models.OrderStatusFailed {
			result = &CallbackResult{OrderID: order.ID, Verified: false}
			return nil
		}

		// Success: entitlement moves in the same transaction as the order
		access, err := upsertAccess(tx, &order)
		if err != nil {
			return err
		}

		result = &CallbackResult{
			OrderID:        order.ID,
			Verified:       true,
			VideoAccess:    access.VideoAccess,
			PaidPercentage: access.PaidPercentage,
			AmountPaid:     access.AmountPaid,
		}
		return nil
	})
	if err != nil {
		// Rejected signatures still leave an audit trail; the event is
		// written outside the transaction so the rollback cannot erase it.
		if errors.Is(err, ErrSignatureInvalid) && rejectedOrderID != 0 {
			if auditErr := recordEvent(db, rejectedOrderID, params, false); auditErr != nil {
				log.Printf("[PAYMENT] Failed to record rejected callback for order %d: %v", rejectedOrderID, auditErr)
			}
		}
		return nil, err
	}
	return result, nil
}

// terminalResult maps a settled order onto the result its first callback
// produced. Expired orders are the exception: a late callback is a hard
// rejection, never a silent credit.
func terminalResult(tx *gorm.DB, order *models.PaymentOrder) (*CallbackResult, error) {
	switch order.Status {
	case models.OrderStatusVerified:
		cached, err := loadAccess(tx, order.UserID, order.CourseID)
		if err != nil {
			return nil, err
		}
		result := &CallbackResult{OrderID: order.ID, Verified: true, AlreadyProcessed: true}
		if cached != nil {
			result.VideoAccess = cached.VideoAccess
			result.PaidPercentage = cached.PaidPercentage
			result.AmountPaid = cached.AmountPaid
		}
		return result, nil
	case models.OrderStatusFailed:
		return &CallbackResult{OrderID: order.ID, Verified: false, AlreadyProcessed: true}, nil
	default:
		return nil, ErrOrderExpired
	}
}

// loadAccess fetches the entitlement row for a (user, course) pair, nil when absent
func loadAccess(tx *gorm.DB, userID, courseID uint) (*models.CourseAccess, error) {
	var access models.CourseAccess
	if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&access).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access, nil
}

// upsertAccess folds one newly verified order into the entitlement row:
// tier goes to the max of old and requested, amount paid accumulates, and
// the video access sentinel is always recomputed from the tier.
func upsertAccess(tx *gorm.DB, order *models.PaymentOrder) (*models.CourseAccess, error) {
	access, err := loadAccess(tx, order.UserID, order.CourseID)
	if err != nil {
		return nil, err
	}

	if access == nil {
		videoAccess, err := utils.VideoAccessForTier(order.PaidPercentage)
		if err != nil {
			return nil, err
		}
		access = &models.CourseAccess{
			UserID:         order.UserID,
			CourseID:       order.CourseID,
			DomainID:       order.DomainID,
			PaidPercentage: order.PaidPercentage,
			AmountPaid:     order.Amount,
			VideoAccess:    videoAccess,
		}
		if err := tx.Create(access).Error; err != nil {
			return nil, err
		}
		return access, nil
	}

	if order.PaidPercentage > access.PaidPercentage {
		access.PaidPercentage = order.PaidPercentage
	}
	access.AmountPaid += order.Amount

	videoAccess, err := utils.VideoAccessForTier(access.PaidPercentage)
	if err != nil {
		return nil, err
	}
	access.VideoAccess = videoAccess

	if err := tx.Save(access).Error; err != nil {
		return nil, err
	}
	return access, nil
}

// recordEvent writes a consumed or rejected callback as an audit marker
func recordEvent(tx *gorm.DB, orderID uint, params CallbackParams, signatureValid bool) error {
	payload, _ := json.Marshal(fiber.Map{
		"razorpay_order_id":   params.GatewayOrderID,
		"razorpay_payment_id": params.PaymentID,
		"razorpay_signature":  params.Signature,
		"outcome":             params.Outcome,
	})

	event := models.PaymentEvent{
		OrderID:        orderID,
		GatewayOrderID: params.GatewayOrderID,
		PaymentID:      params.PaymentID,
		Outcome:        params.Outcome,
		SignatureValid: signatureValid,
		PayloadRaw:     datatypes.JSON(payload),
	}
	return tx.Create(&event).Error
}

// RebuildCourseAccess recomputes the entitlement projection for a
// (user, course) pair purely from its VERIFIED orders. Returns nil when the
// pair has no verified orders.
func RebuildCourseAccess(db *gorm.DB, userID, courseID uint) (*models.CourseAccess, error) {
	var rebuilt *models.CourseAccess

	err := db.Transaction(func(tx *gorm.DB) error {
		var orders []models.PaymentOrder
		if err := tx.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = false",
			userID, courseID, models.OrderStatusVerified).
			Order("created_at asc").
			Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}

		highestTier := 0
		var totalPaid uint
		for _, order := range orders {
			if order.PaidPercentage > highestTier {
				highestTier = order.PaidPercentage
			}
			totalPaid += order.Amount
		}

		videoAccess, err := utils.VideoAccessForTier(highestTier)
		if err != nil {
			return err
		}

		access, err := loadAccess(tx, userID, courseID)
		if err != nil {
			return err
		}
		if access == nil {
			access = &models.CourseAccess{
				UserID:   userID,
				CourseID: courseID,
				DomainID: orders[0].DomainID,
			}
		}
		access.PaidPercentage = highestTier
		access.AmountPaid = totalPaid
		access.VideoAccess = videoAccess

		if err := tx.Save(access).Error; err != nil {
			return err
		}
		rebuilt = access
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rebuilt, nil
}

// respondCallback maps a reconciliation outcome onto the response envelope
func respondCallback(c *fiber.Ctx, result *CallbackResult, err error) error {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	case errors.Is(err, ErrOrderExpired):
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Order has expired. Please create a new order.", nil)
	case errors.Is(err, ErrSignatureInvalid):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Payment verification failed!", nil)
	case err != nil:
		log.Printf("[PAYMENT] Callback reconciliation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process payment callback!", nil)
	}

	if !result.Verified {
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Payment was not successful.", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", result)
}

// sendReceipt mails the payment receipt once per newly verified order
func sendReceipt(result *CallbackResult) {
	if result == nil || !result.Verified || result.AlreadyProcessed {
		return
	}

	db := database.Database.Db

	var order models.PaymentOrder
	if err := db.Where("id = ?", result.OrderID).First(&order).Error; err != nil {
		return
	}
	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", order.UserID).First(&user).Error; err != nil {
		return
	}
	var course models.Course
	if err := db.Where("id = ?", order.CourseID).First(&course).Error; err != nil {
		return
	}

	go utils.SendPaymentReceiptEmail(user.Email, user.Name, course.Title, order.Amount, result.VideoAccess)
}

// PaymentSuccess is the gateway redirect target for successful payments
func PaymentSuccess(c *fiber.Ctx) error {
	params := CallbackParams{
		GatewayOrderID: c.Query("razorpay_order_id"),
		PaymentID:      c.Query("razorpay_payment_id"),
		Signature:      c.Query("razorpay_signature"),
		Outcome:        OutcomeSuccess,
	}
	if params.GatewayOrderID == "" || params.PaymentID == "" || params.Signature == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment success callback.", nil)
	}

	result, err := ReconcileCallback(database.Database.Db, params)
	sendReceipt(result)
	return respondCallback(c, result, err)
}

// PaymentFailure is the gateway redirect target for failed payments
func PaymentFailure(c *fiber.Ctx) error {
	params := CallbackParams{
		GatewayOrderID: c.Query("razorpay_order_id"),
		PaymentID:      c.Query("razorpay_payment_id"),
		Signature:      c.Query("razorpay_signature"),
		Outcome:        OutcomeFailure,
	}
	if params.GatewayOrderID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment failure callback.", nil)
	}

	result, err := ReconcileCallback(database.Database.Db, params)
	return respondCallback(c, result, err)
}

// VerifyPayment handles the client re-posting the redirect parameters. It
// runs the same reconciliation, so a callback that already arrived via
// redirect turns this into a cached no-op.
func VerifyPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*VerifyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	params := CallbackParams{
		GatewayOrderID: reqData.RazorpayOrderID,
		PaymentID:      reqData.RazorpayPaymentID,
		Signature:      reqData.RazorpaySignature,
		Outcome:        OutcomeSuccess,
	}

	result, err := ReconcileCallback(database.Database.Db, params)
	sendReceipt(result)
	return respondCallback(c, result, err)
}

// VerifyRequest is the validated verifyPayment payload
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}
