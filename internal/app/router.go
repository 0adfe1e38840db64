package app

import (
	"grade_predictor/docs"
	"grade_predictor/internal/config"
	"grade_predictor/internal/middleware"
	"grade_predictor/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	sessions := middleware.SessionMiddleware(a.Sessions, cfg.Session)

	// 1. Server-rendered page
	a.registerPageRoutes(router, c, sessions)

	// 2. Stateless API
	a.registerPublicRoutes(router, c)

	// 3. Session-backed form API
	a.registerFormRoutes(router, c, sessions)
}

func (a *App) registerPageRoutes(router *gin.Engine, c *controllers, sessions gin.HandlerFunc) {
	page := router.Group("/")
	page.Use(sessions)
	{
		page.GET("/", c.page.Index)
		page.POST("/form/fields", c.page.UpdateFields)
		page.POST("/form/submit", c.page.Submit)
		page.POST("/form/reset", c.page.Reset)
		page.POST("/theme", c.page.SetTheme)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/form/fields", c.form.ListFields)
		public.POST("/predict", c.prediction.Predict)
	}
}

func (a *App) registerFormRoutes(router *gin.Engine, c *controllers, sessions gin.HandlerFunc) {
	form := router.Group("/api")
	form.Use(sessions)
	{
		form.GET("/form", c.form.GetForm)
		form.PUT("/form/fields/:field", c.form.SetField)
		form.POST("/form/fields/:field/blur", c.form.BlurField)
		form.POST("/form/reset", c.form.ResetForm)
		form.POST("/form/submit", c.form.SubmitForm)
		form.PUT("/theme", c.form.SetTheme)
	}
}
