package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/resto-orders/internal/ports"
	"github.com/Gunvolt24/resto-orders/pkg/ctxmeta"
)

// RequestLogger — логирование HTTP-запросов; /metrics и /ping не логируем.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		tr, _ := ctxmeta.TraceIDFromContext(c.Request.Context())

		log.Infof(
			c.Request.Context(),
			"request trace=%s method=%s path=%s status=%d ip=%s duration=%s",
			tr, c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start),
		)
	}
}
