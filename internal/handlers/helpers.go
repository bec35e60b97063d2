package handlers

import "github.com/gin-gonic/gin"

func getStringFromCtx(c *gin.Context, key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func getEmailAndRole(c *gin.Context) (email, role string) {
	return getStringFromCtx(c, "email"), getStringFromCtx(c, "role")
}
