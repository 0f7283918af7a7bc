package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/bookshop/pkg/tracing"
)

// Tracing 请求级链路追踪中间件
// 每个请求创建一个根Span,Span名称使用路由模板;
// 替换Request的Context,使Handler内的子操作自动挂到同一调用树
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		spanName := c.FullPath()
		if spanName == "" {
			spanName = c.Request.URL.Path
		}

		ctx, span := tracing.StartSpan(c.Request.Context(), serviceName, c.Request.Method+" "+spanName)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", spanName),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		if c.Writer.Status() >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
