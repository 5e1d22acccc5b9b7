package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// 登录系统在外部，这里只认配置里的静态令牌：
// STAFF_TOKENS 可读写分配，ADMIN_TOKENS 额外允许房间/学生管理。

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func contains(list []string, t string) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func AuthRequired(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := bearerToken(c)
		if t == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		switch {
		case contains(cfg.AdminTokens, t):
			c.Set("isAdmin", true)
		case contains(cfg.StaffTokens, t):
			c.Set("isAdmin", false)
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("isAdmin")
		if isAdmin, _ := v.(bool); !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
