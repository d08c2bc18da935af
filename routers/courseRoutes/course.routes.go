package courseRoutes

import (
	controllers "edupay/controllers/course"
	"edupay/middleware"
	validators "edupay/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog routes: domains, courses and the gated
// module listing
func SetupCourseRoutes(app *fiber.App) {
	domainGroup := app.Group("/domain")
	domainGroup.Post("/create", middleware.JWTMiddleware, validators.CreateDomain(), controllers.CreateDomain)
	domainGroup.Get("/list", middleware.JWTMiddleware, controllers.GetDomains)

	courseGroup := app.Group("/course")
	courseGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Content, gated by the caller's paid tier
	courseGroup.Post("/:id/module", middleware.JWTMiddleware, validators.CreateModule(), controllers.CreateModule)
	courseGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.GetModules(), controllers.GetCourseModules)
}
