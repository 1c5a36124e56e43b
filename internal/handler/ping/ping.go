package ping

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping 健康检查，服务启动自检也打这个接口
func Ping() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}
