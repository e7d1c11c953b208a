package middleware

import (
	"bytes"
	"io"
	"time"

	"NFTNavBackend/src/logger/xzap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type BodyLogWrite struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *BodyLogWrite) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *BodyLogWrite) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RLog 请求响应日志打印处理
// 1、为每个请求生成request_id并注入context，后续日志自动携带
// 2、记录请求路径、参数、请求体、响应体和处理时间
func RLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		//1、生成request_id注入context
		reqID := uuid.NewString()
		ctx := xzap.WithRequestID(c.Request.Context(), reqID)
		c.Request = c.Request.WithContext(ctx)

		//2、获取原始请求路径和参数
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		//3、获取并保存请求体
		var buf bytes.Buffer
		reader := io.TeeReader(c.Request.Body, &buf)
		requestBody, _ := io.ReadAll(reader)
		c.Request.Body = io.NopCloser(&buf)
		bodyLogWriter := &BodyLogWrite{ResponseWriter: c.Writer, body: bytes.NewBufferString("")}
		c.Writer = bodyLogWriter

		//4、开始时间
		start := time.Now()

		//5、调用下一个处理器
		c.Next()

		//6、记录响应
		responseBody := bodyLogWriter.body.Bytes()
		logger := xzap.WithContext(c.Request.Context())

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				logger.Error(e)
			}
		} else {
			latency := float64(time.Since(start).Nanoseconds()) / 1e6
			fields := []zapcore.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("function", c.HandlerName()),
				zap.String("path", path),
				zap.String("query", query),
				zap.String("ip", c.ClientIP()),
				zap.String("user-agent", c.Request.UserAgent()),
				zap.String("content-type", c.Request.Header.Get("Content-Type")),
				zap.Float64("latency", latency),
				zap.String("request", string(requestBody)),
				zap.String("response", string(responseBody)),
			}
			logger.Info("NFTNav-End", fields...)
		}
	}
}
