package response

import (
	"Mall/pkg/log"
	"Mall/pkg/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 业务错误码
const (
	CodeValidation           = 100400
	CodeNotFound             = 100404
	CodeConflict             = 100409
	CodeInvalidState         = 100422
	CodeInsufficientResource = 100460
	CodeExternal             = 100502
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

// Is 按错误码比较，WithMsg 派生出的错误仍然和哨兵错误相等
func (e *BizError) Is(target error) bool {
	var t *BizError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMsg 复制错误码，替换提示文案
func (e *BizError) WithMsg(msg string) *BizError {
	return &BizError{Code: e.Code, Msg: msg}
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// ErrorMiddleware 兜底 panic，并把 c.Error 收集的错误转成统一响应
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("trace", utils.PanicTrace(r)))
				c.JSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			var be *BizError
			if errors.As(err, &be) {
				Fail(c, be.Code, be.Msg)
			} else {
				Fail(c, 500, err.Error())
			}
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
