// Package web builds the uniform response envelope every HTTP endpoint
// returns: {status, message, data, errors}.
package web

import (
	"net/http"

	"github.com/festive-labs/santagames-backend/internal/pkg/reject"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type Envelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	Errors  []reject.Problem `json:"errors,omitempty"`
}

func Ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, problem reject.Problem) {
	status := problem.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Envelope{
		Status:  statusError,
		Message: problem.Title,
		Errors:  []reject.Problem{problem},
	})
}

// AbortWithProblem ends middleware chains with an error envelope.
func AbortWithProblem(c *gin.Context, problem reject.Problem) {
	status := problem.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, Envelope{
		Status:  statusError,
		Message: problem.Title,
		Errors:  []reject.Problem{problem},
	})
}
