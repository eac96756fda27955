package middleware

import (
	"Mall/pkg/context"
	"Mall/pkg/jwt"
	"Mall/pkg/log"
	"Mall/pkg/response"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshBuffer = 5 * time.Minute

// Auth 用户 token
func Auth(secret []byte) gin.HandlerFunc {
	return authorize(secret, jwt.TypeAccess)
}

// AdminAuth 后台 token
func AdminAuth(secret []byte) gin.HandlerFunc {
	return authorize(secret, jwt.TypeAdmin)
}

func authorize(secret []byte, tokenType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, tokenType, parts[1])
		if err != nil {
			log.L.Debug("parse token failed", zap.String("type", tokenType), zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "登录已失效")
			return
		}
		if jwt.ShouldRotate(claims, refreshBuffer) {
			newToken, err := jwt.GenerateToken(secret, claims.UserID, claims.OpenID, tokenType, 2*time.Hour)
			if err == nil {
				c.Header("X-New-Access-Token", newToken)
			}
		}
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxOpenID, claims.OpenID)
		c.Set(context.CtxTokenType, claims.Type)

		c.Next()
	}
}
