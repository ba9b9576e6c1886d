package middleware

import (
"net/http"

"presale-backend/pkg/apperror"
"presale-backend/pkg/response"

"github.com/gin-gonic/gin"
)

// MaxBodySize returns middleware that limits the request body size.
// A declared Content-Length over the limit is refused up front; otherwise
// the reader fails once the limit is crossed and binding rejects the body.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
return func(c *gin.Context) {
if c.Request.ContentLength > maxBytes {
response.Error(c, apperror.New(apperror.CodeValidation, "Request body too large", http.StatusRequestEntityTooLarge))
c.Abort()
return
}
if c.Request.Body != nil {
c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
}
c.Next()
}
}
