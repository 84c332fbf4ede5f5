package handler

import (
	"net/http"

	"college-library/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// paramID parses a UUID path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperror.ErrInvalidInput.Error()})
		return uuid.Nil, false
	}
	return id, true
}
