package paymentValidator

import (
	"strconv"
	"strings"

	paymentController "edupay/controllers/payment"
	"edupay/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateOrder validates the createOrder request. The tier percentage is a
// closed set; everything else is rejected here, before any pricing happens.
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(paymentController.OrderRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CourseID":
					errors["courseId"] = "Course ID is required!"
				case "DomainID":
					errors["domainId"] = "Domain ID is required!"
				case "PaidPercentage":
					errors["paidPercentage"] = "Payment percentage must be 30, 50 or 100!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

// Checkout validates the order id path parameter
func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderIDStr := strings.TrimSpace(c.Params("id"))
		orderID, err := strconv.Atoi(orderIDStr)
		if err != nil || orderID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Order ID!", nil)
		}

		c.Locals("orderID", orderID)
		return c.Next()
	}
}

// VerifyPayment validates the client-posted verification payload
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(paymentController.VerifyRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "RazorpayOrderID":
					errors["razorpay_order_id"] = "Gateway order ID is required!"
				case "RazorpayPaymentID":
					errors["razorpay_payment_id"] = "Payment ID is required!"
				case "RazorpaySignature":
					errors["razorpay_signature"] = "Signature is required!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}

// CourseAccess validates the course id path parameter
func CourseAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// RebuildAccess validates the user and course id path parameters
func RebuildAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.Atoi(strings.TrimSpace(c.Params("userId")))
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("courseId")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("targetUserID", userID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}
