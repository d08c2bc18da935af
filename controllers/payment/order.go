package paymentController

import (
	"errors"
	"log"
	"time"

	"edupay/config"
	"edupay/database"
	"edupay/middleware"
	"edupay/models"
	"edupay/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicatePurchase   = errors.New("user already holds equal or higher access for this course")
	ErrInsufficientBalance = errors.New("amount already paid exceeds the requested tier amount")
)

// OrderRequest is the validated createOrder payload
type OrderRequest struct {
	CourseID       uint `json:"courseId" validate:"required"`
	DomainID       uint `json:"domainId" validate:"required"`
	PaidPercentage int  `json:"paidPercentage" validate:"required,oneof=30 50 100"`
}

// PriceOrder computes the amount due for a tier purchase, accounting for
// what the user already paid on earlier verified orders. access may be nil.
func PriceOrder(course *models.Course, access *models.CourseAccess, percentage int) (uint, error) {
	if access == nil {
		return utils.AmountForTier(course.Price, percentage)
	}
	if access.PaidPercentage >= percentage {
		return 0, ErrDuplicatePurchase
	}
	if percentage == utils.TierFull {
		due, err := utils.BalanceDue(course.Price, access.AmountPaid)
		if err != nil {
			return 0, ErrInsufficientBalance
		}
		return due, nil
	}
	tierAmount, err := utils.AmountForTier(course.Price, percentage)
	if err != nil {
		return 0, err
	}
	if access.AmountPaid > tierAmount {
		return 0, ErrInsufficientBalance
	}
	return tierAmount - access.AmountPaid, nil
}

// CreateOrder opens a new settlement attempt for a course tier and registers
// it with the payment gateway.
func CreateOrder(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedOrder").(*OrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Course price is the single source for the amount; the client never sends it
	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false AND status = ?", reqData.CourseID, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// Reject redundant downgrade / duplicate purchase
	var access *models.CourseAccess
	var existing models.CourseAccess
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userId, reqData.CourseID).First(&existing).Error; err == nil {
		access = &existing
	}

	amount, err := PriceOrder(&course, access, reqData.PaidPercentage)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicatePurchase):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have equal or higher access to this course!", nil)
		case errors.Is(err, ErrInsufficientBalance):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Requested tier is below what you already paid!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment tier!", nil)
		}
	}

	receipt := uuid.NewString()

	// Register the order with the gateway before persisting anything local
	gatewayOrder, err := utils.CreateGatewayOrder(amount, receipt)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment order with gateway!", nil)
	}

	order := models.PaymentOrder{
		UserID:         userId,
		CourseID:       reqData.CourseID,
		DomainID:       reqData.DomainID,
		PaidPercentage: reqData.PaidPercentage,
		Amount:         amount,
		Status:         models.OrderStatusCreated,
		Receipt:        receipt,
		GatewayOrderID: gatewayOrder.ID,
	}

	if err := db.Create(&order).Error; err != nil {
		log.Printf("[PAYMENT] Failed to persist order for user %d course %d: %v", userId, reqData.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully!", fiber.Map{
		"orderId":        order.ID,
		"amount":         order.Amount,
		"gatewayOrderId": order.GatewayOrderID,
		"paidPercentage": order.PaidPercentage,
	})
}

// BeginCheckout moves a CREATED order to AWAITING_CALLBACK and stamps its
// expiry. The guarded update makes the transition happen exactly once; a
// repeat call or a terminal order finds zero rows and reports false.
func BeginCheckout(db *gorm.DB, orderID uint, expiresAt time.Time) (bool, error) {
	result := db.Model(&models.PaymentOrder{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusAwaitingCallback,
			"expires_at": expiresAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Checkout moves a CREATED order to AWAITING_CALLBACK and hands back the
// hosted checkout URL. Repeating the call or checking out a terminal order
// is rejected.
func Checkout(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID := c.Locals("orderID").(int)
	db := database.Database.Db

	var order models.PaymentOrder
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", orderID, userId).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	expiresAt := time.Now().Add(time.Duration(config.AppConfig.OrderExpiryMinutes) * time.Minute)

	moved, err := BeginCheckout(db, order.ID, expiresAt)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start checkout!", nil)
	}
	if !moved {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order is not awaiting checkout!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout started!", fiber.Map{
		"orderId":        order.ID,
		"gatewayOrderId": order.GatewayOrderID,
		"amount":         order.Amount,
		"checkoutUrl":    utils.CheckoutURL(order.GatewayOrderID, order.Amount, order.UserID, order.CourseID, order.DomainID),
		"expiresAt":      expiresAt,
	})
}

// GetCourseAccess returns the caller's entitlement for a course
func GetCourseAccess(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var access models.CourseAccess
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userId, courseID).First(&access).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No payment found for this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment details!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment details fetched!", fiber.Map{
		"payment": fiber.Map{
			"videoAccess":    access.VideoAccess,
			"paidPercentage": access.PaidPercentage,
			"amountPaid":     access.AmountPaid,
		},
	})
}

// RebuildAccess recomputes a (user, course) entitlement from its verified
// order history (Admin only). Repair tool for the rare case where the
// projection is suspected to have drifted.
func RebuildAccess(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)
	courseID := c.Locals("courseID").(int)

	access, err := RebuildCourseAccess(database.Database.Db, uint(targetUserID), uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to rebuild course access!", nil)
	}
	if access == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No verified orders for this user and course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course access rebuilt!", access)
}
