package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autocare/config"
	"autocare/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		workers := api.Group("/workers")
		{
			workers.GET("/", h.getWorkers)
			workers.GET("/search", h.searchWorkers)
			workers.GET("/me", h.authMiddleware(), h.workerMiddleware(), h.getMyWorkerProfile)
			workers.GET("/:id", h.getWorkerByID)

			admin := workers.Group("/", h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createWorker)
				admin.PUT("/:id", h.updateWorker)
				admin.DELETE("/:id", h.deleteWorker)

				admin.POST("/:id/photo", h.uploadWorkerPhoto)
				admin.DELETE("/:id/photo", h.deleteWorkerPhoto)
			}
		}

		serviceTypes := api.Group("/service-types")
		{
			serviceTypes.GET("/", h.getServiceTypes)
			serviceTypes.GET("/:id", h.getServiceTypeByID)

			admin := serviceTypes.Group("/", h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createServiceType)
				admin.PUT("/:id", h.updateServiceType)
				admin.DELETE("/:id", h.deleteServiceType)
			}
		}

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/mine", h.getMyAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id", h.updateAppointment)
			appointments.DELETE("/:id", h.deleteAppointment)

			appointments.PUT("/:id/accept-service", h.workerMiddleware(), h.acceptAppointment)

			admin := appointments.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/", h.getAppointments)
				admin.PUT("/:id/assign-worker", h.assignWorker)
				admin.PUT("/:id/unassign-worker", h.unassignWorker)
			}
		}
	}
}
