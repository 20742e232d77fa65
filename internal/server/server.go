package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/models"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/store"
	"taskflow/internal/view"
)

// Server provides the HTTP surface of the task application.
type Server struct {
	engine     *gin.Engine
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	view       *view.Coordinator
	feed       *notify.Feed
	logger     *zap.SugaredLogger
}

// New constructs the server with routes and middleware configured.
func New(tasks *repository.TaskRepository, categories *repository.CategoryRepository, coordinator *view.Coordinator, feed *notify.Feed, logger *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:     router,
		tasks:      tasks,
		categories: categories,
		view:       coordinator,
		feed:       feed,
		logger:     logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/overview", s.handleOverview)
		api.GET("/notifications", s.handleNotifications)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
			tasks.POST(":id/toggle", s.handleToggleTask)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.handleListCategories)
			categories.POST("", s.handleCreateCategory)
			categories.GET(":id", s.handleGetCategory)
			categories.PUT(":id", s.handleUpdateCategory)
			categories.DELETE(":id", s.handleDeleteCategory)
		}

		viewGroup := api.Group("/view")
		{
			viewGroup.GET("", s.handleViewState)
			viewGroup.GET("/data", s.handleViewData)
			viewGroup.POST("/select", s.handleViewSelect)
			viewGroup.POST("/search", s.handleViewSearch)
			viewGroup.POST("/filters", s.handleViewFilters)
			viewGroup.POST("/task-editor", s.handleOpenTaskEditor)
			viewGroup.POST("/category-editor", s.handleOpenCategoryEditor)
			viewGroup.POST("/delete", s.handleRequestDelete)
			viewGroup.POST("/close", s.handleCloseModal)
			viewGroup.POST("/tasks", s.handleSubmitTask)
			viewGroup.POST("/categories", s.handleSubmitCategory)
			viewGroup.POST("/confirm", s.handleConfirmDelete)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.feed.Drain()})
}

// respondRepoError maps the repository error taxonomy onto HTTP statuses:
// validation 400, not-found 404, anything else 500. Fail-soft store results
// never reach here; they arrive as empty payloads with a notification.
func (s *Server) respondRepoError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if s.logger != nil {
		s.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
