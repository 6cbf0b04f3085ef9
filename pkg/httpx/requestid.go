package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/resto-orders/pkg/ctxmeta"
)

// RequestID — принимает X-Request-ID от клиента или генерирует UUID,
// кладёт его в контекст запроса и возвращает в заголовке ответа.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header("X-Request-ID", rid)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
