package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
	"todolist/internal/query"
	"todolist/internal/services"
)

type TodoHandler struct {
	service services.TodoService
}

func NewTodoHandler(service services.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List godoc
// @Summary      List todos
// @Description  Filters, sorts and paginates the list. Page is 1-based.
// @Tags         Todos
// @Produce      json
// @Param        text               query  string  false  "Case-insensitive substring of the text"
// @Param        status             query  bool    false  "true for done, false for undone"
// @Param        priority           query  int     false  "1 low, 2 medium, 3 high"
// @Param        sortBy             query  string  false  "priority, dueDate or priorityDueDate"
// @Param        directionPriority  query  string  false  "ascending or descending"
// @Param        directionDueDate   query  string  false  "ascending or descending"
// @Param        page               query  int     false  "Page number"
// @Param        size               query  int     false  "Page size"
// @Success      200  {object}  models.TodoPage
// @Failure      400  {object}  ErrorResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	filter, err := query.Decode(c.Request.URL.Query())
	if err != nil {
		respondError(c, "todo", "list", err)
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "todo", "list", err)
		return
	}
	log.Printf("[todo][list][ok] rid=%s total=%d returned=%d", requestID(c), page.Total, len(page.Todos))
	c.JSON(http.StatusOK, page)
}

// Create godoc
// @Summary  Create a todo
// @Tags     Todos
// @Accept   json
// @Produce  json
// @Param    todo  body      models.TodoInput  true  "New todo"
// @Success  201   {object}  models.Todo
// @Failure  400   {object}  ErrorResponse
// @Router   /api/todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var input models.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("[todo][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	todo, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, "todo", "create", err)
		return
	}
	log.Printf("[todo][create][ok] rid=%s id=%d priority=%d", requestID(c), todo.ID, todo.Priority)
	c.JSON(http.StatusCreated, todo)
}

// GetByID godoc
// @Summary  Get a todo
// @Tags     Todos
// @Produce  json
// @Param    id   path      int  true  "Todo ID"
// @Success  200  {object}  models.Todo
// @Failure  404  {object}  ErrorResponse
// @Router   /api/todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, "todo", "get", err)
		return
	}
	todo, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "todo", "get", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Update godoc
// @Summary      Update a todo
// @Description  Replaces text, due date and priority. An optional status applies done/undone bookkeeping.
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Todo ID"
// @Param        todo  body      models.TodoInput  true  "Todo fields"
// @Success      200   {object}  models.Todo
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, "todo", "update", err)
		return
	}
	var input models.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("[todo][update][bind][err] id=%d %v", id, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	todo, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, "todo", "update", err)
		return
	}
	log.Printf("[todo][update][ok] rid=%s id=%d", requestID(c), todo.ID)
	c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary  Delete a todo
// @Tags     Todos
// @Param    id  path  int  true  "Todo ID"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, "todo", "delete", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "todo", "delete", err)
		return
	}
	log.Printf("[todo][delete][ok] rid=%s id=%d", requestID(c), id)
	c.Status(http.StatusNoContent)
}

// MarkDone godoc
// @Summary  Mark a todo done
// @Tags     Todos
// @Produce  json
// @Param    id   path      int  true  "Todo ID"
// @Success  200  {object}  models.Todo
// @Failure  404  {object}  ErrorResponse
// @Router   /api/todos/{id}/done [post]
func (h *TodoHandler) MarkDone(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, "todo", "done", err)
		return
	}
	todo, err := h.service.MarkDone(c.Request.Context(), id)
	if err != nil {
		respondError(c, "todo", "done", err)
		return
	}
	log.Printf("[todo][done][ok] rid=%s id=%d", requestID(c), todo.ID)
	c.JSON(http.StatusOK, todo)
}

// MarkUndone godoc
// @Summary  Mark a todo undone
// @Tags     Todos
// @Produce  json
// @Param    id   path      int  true  "Todo ID"
// @Success  200  {object}  models.Todo
// @Failure  404  {object}  ErrorResponse
// @Router   /api/todos/{id}/undone [put]
func (h *TodoHandler) MarkUndone(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, "todo", "undone", err)
		return
	}
	todo, err := h.service.MarkUndone(c.Request.Context(), id)
	if err != nil {
		respondError(c, "todo", "undone", err)
		return
	}
	log.Printf("[todo][undone][ok] rid=%s id=%d", requestID(c), todo.ID)
	c.JSON(http.StatusOK, todo)
}

// Metrics godoc
// @Summary      Completion time metrics
// @Description  Average minutes from creation to done, overall and per priority. null means no data.
// @Tags         Todos
// @Produce      json
// @Success      200  {object}  models.Metrics
// @Router       /api/todos/metrics [get]
func (h *TodoHandler) Metrics(c *gin.Context) {
	m, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		respondError(c, "todo", "metrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}
