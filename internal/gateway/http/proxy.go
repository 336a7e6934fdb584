package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// proxyResponse forwards a downstream HTTP response to the client unchanged:
// status code, headers and body pass through.
func proxyResponse(c *gin.Context, resp *http.Response) {
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if len(v) > 0 {
			c.Header(k, v[0])
		}
	}

	c.Status(resp.StatusCode)
	_, _ = io.Copy(c.Writer, resp.Body)
}

// transportError reports a failed downstream call: the service is configured
// but unreachable.
func transportError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
}
