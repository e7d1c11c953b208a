package xhttp

import (
	"net/http"

	"NFTNavBackend/src/errcode"

	"github.com/gin-gonic/gin"
)

// Response 统一返回体
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson 成功返回
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

// Error 错误返回，业务错误码透传，其他错误统一返回unexpected
func Error(c *gin.Context, err error) {
	if e, ok := errcode.IsErr(err); ok {
		c.JSON(http.StatusOK, Response{
			Code: e.Code,
			Msg:  e.Msg,
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Code: errcode.CodeUnexpected,
		Msg:  errcode.ErrUnexpected.Msg,
	})
}
