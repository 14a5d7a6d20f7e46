package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/config"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/geocode"
	"github.com/ertis-service/backend/internal/http/handlers"
	"github.com/ertis-service/backend/internal/http/middleware"
	"github.com/ertis-service/backend/internal/models"
	"github.com/ertis-service/backend/internal/service"
	"github.com/ertis-service/backend/internal/storage"

	_ "github.com/ertis-service/backend/docs"
)

type Deps struct {
	Store    *db.Store
	Triage   *service.TriageService
	Ratings  *service.RatingService
	Notifier *service.Notifier
	Geocoder geocode.Geocoder
	Files    *storage.FileStore
	Issuer   auth.TokenIssuer
	Logger   zerolog.Logger
}

func Router(cfg config.Config, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     d.Store,
		Triage:    d.Triage,
		Ratings:   d.Ratings,
		Notifier:  d.Notifier,
		Geocoder:  d.Geocoder,
		Files:     d.Files,
		Issuer:    d.Issuer,
		Validator: validator.New(),
		Logger:    d.Logger,
	}

	r.GET("/healthz", h.Healthz)
	r.Static("/uploads", d.Files.BaseDir)

	authed := middleware.Authenticate(d.Issuer)
	citizen := middleware.RequireRole(models.RoleCitizen, models.RoleAdmin)
	employee := middleware.RequireRole(models.RoleEmployee)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", authed, h.Me)

		api.GET("/requests/map", h.RequestsMap)
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:id", h.GetCategory)
		api.GET("/categories/:id/specialties", h.ListCategorySpecialties)
		api.GET("/organizations", h.ListOrganizations)
		api.GET("/organizations/:id", h.GetOrganization)
		api.GET("/addresses/suggest", h.SuggestAddresses)
		api.GET("/addresses/geocode", h.GeocodeAddress)
	}

	requests := api.Group("/requests", authed)
	{
		requests.POST("", citizen, h.CreateRequest)
		requests.GET("/my", citizen, h.MyRequests)
		requests.GET("/assigned", employee, h.AssignedRequests)
		requests.GET("", admin, h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PATCH("/:id/assign", admin, h.AssignRequest)
		requests.PATCH("/:id/start", employee, h.StartRequest)
		requests.PATCH("/:id/complete", employee, h.CompleteRequest)
		requests.PATCH("/:id/close", citizen, h.CloseRequest)
		requests.POST("/:id/rate", citizen, h.RateRequest)
	}

	employees := api.Group("/employees", authed)
	{
		employees.GET("/me", employee, h.EmployeeMe)
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.GET("/:id/ratings", h.EmployeeRatings)
		employees.POST("", admin, h.CreateEmployee)
		employees.PATCH("/:id", admin, h.UpdateEmployee)
		employees.DELETE("/:id", admin, h.DeleteEmployee)
	}

	directory := api.Group("", authed, admin)
	{
		directory.POST("/categories", h.CreateCategory)
		directory.PATCH("/categories/:id", h.UpdateCategory)
		directory.DELETE("/categories/:id", h.DeleteCategory)
		directory.POST("/specialties", h.CreateSpecialty)
		directory.POST("/organizations", h.CreateOrganization)
		directory.PATCH("/organizations/:id", h.UpdateOrganization)
		directory.DELETE("/organizations/:id", h.DeleteOrganization)
	}

	notifications := api.Group("/notifications", authed)
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}

	stats := api.Group("/statistics", authed, admin)
	{
		stats.GET("/overview", h.StatisticsOverview)
		stats.GET("/employees/:id", h.StatisticsEmployee)
		stats.GET("/requests/priority", h.StatisticsPriorities)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
