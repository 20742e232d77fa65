package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"taskflow/internal/filter"
	"taskflow/internal/models"
	"taskflow/internal/repository"
)

// handleListCategories returns categories with task counts derived from the
// current task set, so the sidebar renders in one request.
func (s *Server) handleListCategories(c *gin.Context) {
	var (
		categories []models.Category
		tasks      []models.Task
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": filter.AttachTaskCounts(categories, tasks)})
}

func (s *Server) handleGetCategory(c *gin.Context) {
	category, err := s.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var in repository.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid category payload")
		return
	}
	category, err := s.categories.Create(c.Request.Context(), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusOK, gin.H{"category": nil})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var in repository.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid category payload")
		return
	}
	category, err := s.categories.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusOK, gin.H{"category": nil})
		return
	}
	c.JSON(http.StatusOK, category)
}

// handleDeleteCategory removes only the category; tasks referencing it keep
// a stale id that resolves to no category on later reads.
func (s *Server) handleDeleteCategory(c *gin.Context) {
	found, err := s.categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found", "deleted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
