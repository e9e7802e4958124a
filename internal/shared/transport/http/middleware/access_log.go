package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/logx"
	"Dawnforge/modules/kit/tracex"
)

// teeWriter 把响应体留一份，请求结束后从中读业务码。
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条访问日志，动作名取 "方法 路由模板"。
// 请求头带 X-Trace-Id 时沿用调用方的 trace。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		parent := c.Request.Context()
		if tid := c.GetHeader("X-Trace-Id"); tid != "" {
			parent = tracex.WithTraceID(parent, tid)
		}
		ctx := transport.NewContextWithParent(parent, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		tw := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tw
		c.Next()

		transport.Finish(ctx, log, codeOf(tw.buf.Bytes(), c.Writer.Status()))
	}
}

// codeOf 响应体是 {"code":n,...} 时取 n；否则按 HTTP 状态粗分成功或系统错误。
func codeOf(body []byte, status int) int {
	var env struct {
		Code *int `json:"code"`
	}
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Code != nil {
		return *env.Code
	}
	if status >= http.StatusBadRequest {
		return transport.SystemError
	}
	return transport.OK
}
