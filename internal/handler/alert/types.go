package alert

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"liqflow/pkg/logger"
)

// ======================== ClientConn ========================
type SignalClientConn struct {
	ClientID string
	// 只推这个symbol的信号，空表示全量
	Symbol string
	Conn   *websocket.Conn
	Send   chan []byte

	replaced  bool
	closeOnce sync.Once

	// 丢弃统计（可用于强制关闭慢消费者）
	DroppedCount int32
	LastSuccess  int64
}

func (c *SignalClientConn) Close() {
	c.closeOnce.Do(func() {
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
		// close send channel safely
		defer func() {
			if r := recover(); r != nil {
				// already closed
			}
		}()
		close(c.Send)
	})
}

// writePump 负责写入到 websocket （包括 ping）
func (c *SignalClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				// channel closed
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Errorf("writePump write error: %v", err)
				return
			}
			atomic.StoreInt64(&c.LastSuccess, time.Now().UnixNano())
			atomic.StoreInt32(&c.DroppedCount, 0)
		case <-ticker.C:
			// send ping
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Errorf("writePump ping error: %v", err)
				return
			}
		}
	}
}

// readPump 读取客户端消息（处理心跳/客户端动作）
func (c *SignalClientConn) readPump() {
	// 设置 Pong handler 和读 deadline
	c.Conn.SetReadLimit(1024 * 1024)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(appData string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			// 断开或 read error
			break
		}
		// 目前只做日志，可扩展为处理客户端命令（改订阅symbol/ACK 等）
		logger.Debugf("recv from %s: %s", c.ClientID, string(msg))
	}
}

// safeSend 非阻塞发送并在通道满时进行计数与保护
func (c *SignalClientConn) safeSend(data []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			// send on closed channel
		}
	}()

	select {
	case c.Send <- data:
		atomic.StoreInt32(&c.DroppedCount, 0)
		return true
	default:
		// channel full -> increase drop count
		cnt := atomic.AddInt32(&c.DroppedCount, 1)
		// 若超过阈值则主动关闭
		if cnt > 200 {
			logger.Warnf("SignalClientConn: client %s drop > threshold, closing", c.ClientID)
			go c.Close()
		}
		return false
	}
}
