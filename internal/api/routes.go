package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/config"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/service"
)

// Services are the dependencies of the HTTP surface.
type Services struct {
	Tokens        service.TokenService
	Prescriptions service.PrescriptionService
	Learning      service.LearningService
	Catalog       service.CatalogService
	Cache         *cache.TieredCache
}

func SetupRoutes(router *gin.Engine, log *logger.Logger, corsCfg config.CORSConfig, svc Services) {
	prescriptionHandler := NewPrescriptionHandler(log, svc.Prescriptions)
	learningHandler := NewLearningHandler(log, svc.Learning)
	exerciseHandler := NewExerciseHandler(log, svc.Catalog)
	adminHandler := NewAdminHandler(log, svc.Cache)

	router.Use(RequestTrace(), RequestLogger(log))
	if len(corsCfg.AllowedOrigins) > 0 {
		router.Use(CORS(corsCfg))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(svc.Tokens))
	{
		protected.POST("/prescriptions", prescriptionHandler.Generate)
		protected.GET("/prescriptions/:id", prescriptionHandler.Get)

		protected.POST("/feedback", learningHandler.SubmitFeedback)
		protected.POST("/performance/sets", learningHandler.LogSet)
		protected.POST("/workouts/complete", learningHandler.CompleteWorkout)

		me := protected.Group("/me")
		{
			me.GET("/preferences", learningHandler.Preferences)
			me.GET("/weights", learningHandler.Weights)
		}

		protected.GET("/exercises", exerciseHandler.ListExercises)
		protected.GET("/exercises/:id", exerciseHandler.GetExercise)

		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.PUT("/exercises/:id", exerciseHandler.UpsertExercise)
			admin.POST("/exercises/:id/video-upload-url", exerciseHandler.RequestVideoUpload)
			admin.POST("/cache/events", adminHandler.FireCacheEvent)
		}
	}
}
