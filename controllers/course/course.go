package courseController

import (
	"edupay/database"
	"edupay/middleware"
	"edupay/models"

	"github.com/gofiber/fiber/v2"
)

// CreateDomain creates a subject domain (Admin only)
func CreateDomain(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedDomain").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	domain := models.Domain{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := database.Database.Db.Create(&domain).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create domain!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Domain created successfully!", domain)
}

// GetDomains lists all domains
func GetDomains(c *fiber.Ctx) error {
	var domains []models.Domain
	if err := database.Database.Db.Where("is_deleted = false").Order("name asc").Find(&domains).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch domains!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Domains fetched successfully!", domains)
}

// CreateCourse creates a course under a domain (Admin only). The price is
// fixed at creation; changing it later never reprices existing orders.
func CreateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		DomainID    uint   `json:"domainId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Author      string `json:"author"`
		Price       uint   `json:"price"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var domain models.Domain
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", reqData.DomainID).First(&domain).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Domain not found!", nil)
	}

	course := models.Course{
		DomainID:    reqData.DomainID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Author:      reqData.Author,
		Price:       reqData.Price,
		Status:      "ACTIVE",
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates course fields (Admin only)
func UpdateCourse(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Author      *string `json:"author"`
		Price       *uint   `json:"price"`
		Status      *string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Author != nil {
		updates["author"] = *reqData.Author
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}

	if len(updates) > 0 {
		if err := database.Database.Db.Model(&course).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// GetAllCourses lists active courses, optionally filtered by domain
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = false AND status = ? AND is_published = true", "ACTIVE")

	if domainID := c.QueryInt("domainId", 0); domainID > 0 {
		db = db.Where("domain_id = ?", domainID)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a single course with its module count
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var moduleCount int64
	database.Database.Db.Model(&models.CourseModule{}).
		Where("course_id = ? AND is_deleted = false AND is_published = true", courseID).
		Count(&moduleCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":      course,
		"moduleCount": moduleCount,
	})
}
