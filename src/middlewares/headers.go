package middlewares

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin")
	ctx.Header("X-XSS-Protection", "1; mode=block")
	ctx.Next()
}

// RequestID stamps every request with an id and logs it once done.
func RequestID(ctx *gin.Context) {
	id := ctx.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	ctx.Set("request_id", id)
	ctx.Header(RequestIDHeader, id)

	start := time.Now()
	ctx.Next()
	log.Printf("[http] %s %s %s %d %s\n", id, ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start))
}
