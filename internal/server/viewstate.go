package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/filter"
	"taskflow/internal/repository"
	"taskflow/internal/store"
	"taskflow/internal/view"
)

// View-state endpoints drive the single-user coordinator: selection,
// search, filters, modal lifecycle, and the write actions that bump the
// refresh counter.

func (s *Server) handleViewState(c *gin.Context) {
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleViewData(c *gin.Context) {
	data, err := s.view.Load(c.Request.Context())
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleViewSelect(c *gin.Context) {
	var body struct {
		Selection string `json:"selection"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid selection payload")
		return
	}
	s.view.SelectCategory(body.Selection)
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleViewSearch(c *gin.Context) {
	var body struct {
		Search string `json:"search"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid search payload")
		return
	}
	s.view.SetSearch(body.Search)
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleViewFilters(c *gin.Context) {
	var criteria filter.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		respondBadRequest(c, "invalid filter payload")
		return
	}
	s.view.SetFilters(criteria)
	c.JSON(http.StatusOK, s.view.State())
}

// handleOpenTaskEditor opens the task modal, pre-loading the task when an
// id is given, empty for create otherwise.
func (s *Server) handleOpenTaskEditor(c *gin.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid editor payload")
		return
	}
	if body.ID == "" {
		s.view.OpenTaskEditor(nil)
		c.JSON(http.StatusOK, s.view.State())
		return
	}
	task, err := s.tasks.GetByID(c.Request.Context(), body.ID)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	s.view.OpenTaskEditor(task)
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleOpenCategoryEditor(c *gin.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid editor payload")
		return
	}
	if body.ID == "" {
		s.view.OpenCategoryEditor(nil)
		c.JSON(http.StatusOK, s.view.State())
		return
	}
	category, err := s.categories.GetByID(c.Request.Context(), body.ID)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	s.view.OpenCategoryEditor(category)
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleRequestDelete(c *gin.Context) {
	var body struct {
		Kind  string `json:"kind"`
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid delete payload")
		return
	}
	kind := view.DeleteTask
	if body.Kind == string(view.DeleteCategory) {
		kind = view.DeleteCategory
	}
	s.view.RequestDelete(kind, body.ID, body.Label)
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleCloseModal(c *gin.Context) {
	s.view.CloseModal()
	c.JSON(http.StatusOK, s.view.State())
}

func (s *Server) handleSubmitTask(c *gin.Context) {
	var in repository.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid task payload")
		return
	}
	task, err := s.view.SubmitTask(c.Request.Context(), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"task": nil, "state": s.view.State()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(*task), "state": s.view.State()})
}

func (s *Server) handleSubmitCategory(c *gin.Context) {
	var in repository.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid category payload")
		return
	}
	category, err := s.view.SubmitCategory(c.Request.Context(), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "state": s.view.State()})
}

func (s *Server) handleConfirmDelete(c *gin.Context) {
	err := s.view.ConfirmDelete(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "state": s.view.State()})
		return
	}
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view.State())
}
