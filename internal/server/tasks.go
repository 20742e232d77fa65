package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/filter"
	"taskflow/internal/models"
	"taskflow/internal/repository"
)

// taskResponse decorates a task with the derived overdue flag the list UI
// renders as a badge.
type taskResponse struct {
	models.Task
	Overdue bool `json:"overdue"`
}

func newTaskResponse(task models.Task) taskResponse {
	return taskResponse{Task: task, Overdue: task.Overdue(time.Now())}
}

func taskResponses(tasks []models.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = newTaskResponse(task)
	}
	return out
}

// handleListTasks returns the task set narrowed by the query-string
// criteria. Absent parameters behave like "all".
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context())
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	criteria := filter.Criteria{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskResponses(filter.Apply(tasks, criteria))})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(*task))
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in repository.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid task payload")
		return
	}
	task, err := s.tasks.Create(c.Request.Context(), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if task == nil {
		// Fail-soft store; the failure is on the notification feed.
		c.JSON(http.StatusOK, gin.H{"task": nil})
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(*task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var in repository.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid task payload")
		return
	}
	task, err := s.tasks.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"task": nil})
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(*task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	found, err := s.tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found", "deleted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.view.ToggleTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"task": nil})
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// handleOverview returns the global counts shown above the category list.
func (s *Server) handleOverview(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context())
	if err != nil {
		s.respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter.Summarize(tasks))
}
