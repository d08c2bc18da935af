package courseController

import (
	"errors"

	"edupay/database"
	"edupay/middleware"
	"edupay/models"
	"edupay/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateModule adds a content module to a course (Admin only)
func CreateModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"videoUrl"`
		OrderIndex  int    `json:"orderIndex"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// OrderIndex is unique per course; a clash means the slot is taken
	var existing models.CourseModule
	if err := database.Database.Db.Where("course_id = ? AND order_index = ? AND is_deleted = false", courseID, reqData.OrderIndex).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module already exists at this position!", nil)
	}

	module := models.CourseModule{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// GetCourseModules lists the modules the caller is entitled to see: those
// whose order index falls within their paid tier, everything for admins,
// nothing without a verified payment.
func GetCourseModules(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []models.CourseModule
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = false AND is_published = true", courseID).
		Order("order_index asc").
		Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	videoAccess := ""
	var access models.CourseAccess
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userId, courseID).First(&access).Error
	if err == nil {
		videoAccess = access.VideoAccess
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course access!", nil)
	}

	visible := utils.VisibleModules(modules, videoAccess, user.IsAdmin())

	effectiveAccess := videoAccess
	if user.IsAdmin() {
		effectiveAccess = utils.VideoAccessAll
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules":      visible,
		"videoAccess":  effectiveAccess,
		"totalModules": len(modules),
	})
}
