package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AbortError maps a taxonomy error onto an HTTP response. Unclassified
// errors become a 500 with a generic body; detail goes to the log only.
func AbortError(c *gin.Context, err error) {
	var he *Error
	if !errors.As(err, &he) {
		log.Printf("[error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(he.Kind, ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(he.Kind, ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(he.Kind, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(he.Kind, ErrUpstream):
		status = http.StatusBadGateway
	}

	body := gin.H{"ok": false, "error": he.Message}
	if len(he.Fields) > 0 {
		body["fields"] = he.Fields
	}
	c.AbortWithStatusJSON(status, body)
}
