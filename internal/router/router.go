package router

import (
	"github.com/gin-gonic/gin"

	"liqflow/internal/handler/alert"
	"liqflow/internal/handler/ping"
	"liqflow/internal/handler/signal"
	"liqflow/internal/middleware"
)

type ApiRouter struct {
	signalHandler *signal.SignalHandler
	signalGateway *alert.SignalGateway
}

func NewApiRouter(signalHandler *signal.SignalHandler, signalGateway *alert.SignalGateway) *ApiRouter {
	return &ApiRouter{signalHandler: signalHandler, signalGateway: signalGateway}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	g.GET("/ping", ping.Ping())

	base := g.Group("/api/v1")

	sg := base.Group("/signal")
	{
		// 触发扫描，防抖动避免同一IP重复触发
		sg.POST("/scan", middleware.AntiDuplicateMiddleware(), api.signalHandler.Scan())
		// 活跃信号列表
		sg.GET("/list", api.signalHandler.SignalGetList())
		// 信号详情
		sg.GET("/detail", api.signalHandler.GetSignalDetailByID())
	}

	a := base.Group("/alert")
	{
		// websocket实时接收扫描产出的信号
		a.GET("/ws", api.signalGateway.ServeWS)
	}
}
