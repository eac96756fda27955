package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBizError_Is(t *testing.T) {
	notFound := NewError(CodeNotFound, "资源不存在")
	detail := notFound.WithMsg("订单不存在")

	assert.True(t, errors.Is(detail, notFound))
	assert.Equal(t, "订单不存在", detail.Error())
	assert.False(t, errors.Is(detail, NewError(CodeConflict, "冲突")))

	wrapped := fmt.Errorf("pay: %w", detail)
	assert.True(t, errors.Is(wrapped, notFound))
}

func TestErrorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/biz", func(c *gin.Context) {
		_ = c.Error(NewError(CodeInvalidState, "状态不允许"))
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/biz", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":100422,"msg":"状态不允许"}`, w.Body.String())
}

func TestErrorMiddleware_Panic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/panic", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"msg":"系统异常"}`, w.Body.String())
}
