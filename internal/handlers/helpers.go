package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todolist/internal/middleware"
	"todolist/internal/query"
	"todolist/internal/repositories"
	"todolist/internal/services"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &query.DecodeError{Param: "id", Value: raw, Err: fmt.Errorf("must be a positive integer")}
	}
	return id, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		vErr *services.ValidationError
		dErr *query.DecodeError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &dErr):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrTodoNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, scope, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	log.Printf("[%s][%s][err] rid=%s status=%d %v", scope, op, requestID(c), status, err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.ContextRequestID)
}

// Health godoc
// @Summary  Liveness probe
// @Tags     Health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /healthz [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
