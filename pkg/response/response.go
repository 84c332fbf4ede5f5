// Package response holds the helpers shared by every handler: pulling the
// authenticated caller out of the request context and translating service
// errors into the uniform JSON error envelope.
package response

import (
	"log"
	"net/http"

	"college-library/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserID returns the authenticated caller's ID that the auth middleware
// stored on the context.
func UserID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return id, nil
}

// Error writes the error envelope with the status mapped from the domain
// error. Unmapped errors surface as 500 and are logged with the request
// line, since their message may not be safe to act on client-side.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
