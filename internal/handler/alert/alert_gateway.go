package alert

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"liqflow/internal/consts"
	"liqflow/pkg/kafka"
	"liqflow/pkg/logger"
	"liqflow/pkg/utils"
)

// keepalive的ping间隔
const pingPeriod = 30 * time.Second
const pongWait = 60 * time.Second

// client send buffer
const sendBufSize = 1024

// SignalGateway 管理信号推送的 websocket 连接并消费扫描广播
// 扫描服务把信号写进kafka，这里消费后推给在线客户端
type SignalGateway struct {
	consumer kafka.ConsumerService
	// 使用 RWMutex 保护普通 Map
	mu      sync.RWMutex
	clients map[string]*SignalClientConn // map[clientID]*SignalClientConn

	upgrader websocket.Upgrader
}

func NewSignalGateway(consumer kafka.ConsumerService) *SignalGateway {
	g := &SignalGateway{
		consumer: consumer,
		mu:       sync.RWMutex{},
		clients:  make(map[string]*SignalClientConn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	// 启动监听扫描广播
	go g.listenForScans()

	return g
}

// ServeWS 建立 websocket 连接
// client_id必填；symbol可选，填了只推该symbol的信号
func (g *SignalGateway) ServeWS(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.Writer.WriteHeader(http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("SignalGateway upgrade error: %v", err)
		return
	}

	client := &SignalClientConn{
		ClientID: clientID,
		Symbol:   utils.NormalizeSymbol(c.Query("symbol")),
		Conn:     conn,
		Send:     make(chan []byte, sendBufSize),
	}

	// 使用读写锁确保原子替换
	var oldClient *SignalClientConn
	g.mu.Lock()
	{
		// 1. 检查是否存在旧连接
		if existing, ok := g.clients[clientID]; ok {
			oldClient = existing
			oldClient.replaced = true // 标记旧连接
			logger.Infof("SignalGateway: client %s reconnected, marking old connection as replaced.", clientID)
		}

		// 2. 存入新连接
		g.clients[clientID] = client
	}
	g.mu.Unlock()

	// 3. 异步关闭旧连接，防止阻塞ServeWS
	if oldClient != nil {
		go oldClient.Close()
	}

	defer func() {
		// 从活跃 clients map 中移除（仅在未被替换时）
		g.mu.Lock()
		{
			if current, ok := g.clients[clientID]; ok && current == client {
				delete(g.clients, clientID)
			}
		}
		g.mu.Unlock()

		// 无论如何，确保本 client 的资源被关闭
		client.Close()
	}()

	// 启动 writePump
	go client.writePump()

	// readPump 阻塞直到客户端关闭
	client.readPump()
}

// listenForScans 消费信号广播topic，kafka key是symbol
func (g *SignalGateway) listenForScans() {
	ch, err := g.consumer.Consume(context.Background(), consts.TopicSignalScan, consts.SignalGatewayGroup)
	if err != nil {
		logger.Fatalf("SignalGateway 未能启动kafka消费者: %v", err)
	}

	for msg := range ch {
		g.broadcast(string(msg.Key), msg.Value)
	}
}

// broadcast 推给所有在线客户端，订阅了symbol的只收自己的
func (g *SignalGateway) broadcast(symbol string, data []byte) {
	g.mu.RLock()
	// 遍历 Map 需要在锁的保护下
	clientsCopy := make([]*SignalClientConn, 0, len(g.clients))
	for _, c := range g.clients {
		clientsCopy = append(clientsCopy, c)
	}
	g.mu.RUnlock()

	// 在解锁后对副本进行操作
	for _, c := range clientsCopy {
		if c.Symbol != "" && c.Symbol != symbol {
			continue
		}
		c.safeSend(data)
	}
}
