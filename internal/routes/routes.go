package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"todolist/internal/handlers"
	"todolist/internal/middleware"
	"todolist/internal/services"
)

// Handlers groups everything SetupRoutes mounts. Auth and AuthService are
// nil when authentication is disabled; Reports and Events may be nil too.
type Handlers struct {
	Todos       *handlers.TodoHandler
	Reports     *handlers.ReportHandler
	Events      *handlers.EventsHandler
	Auth        *handlers.AuthHandler
	AuthService services.AuthService
}

func SetupRoutes(r *gin.Engine, h Handlers) *gin.Engine {
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// ---- public
	r.GET("/healthz", handlers.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.Auth != nil {
		r.POST("/login", h.Auth.Login)
	}

	// ---- protected when auth is enabled
	api := r.Group("/api", middleware.AuthMiddleware(h.AuthService))

	todos := api.Group("/todos")
	{
		todos.GET("", h.Todos.List)
		todos.POST("", h.Todos.Create)
		todos.GET("/metrics", h.Todos.Metrics)
		todos.GET("/:id", h.Todos.GetByID)
		todos.PUT("/:id", h.Todos.Update)
		todos.DELETE("/:id", h.Todos.Delete)
		todos.POST("/:id/done", h.Todos.MarkDone)
		todos.PUT("/:id/undone", h.Todos.MarkUndone)
	}
	if h.Reports != nil {
		todos.GET("/metrics/report.pdf", h.Reports.MetricsPDF)
	}
	if h.Events != nil {
		todos.GET("/events", h.Events.Stream)
	}

	return r
}
