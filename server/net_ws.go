package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ConnOptions 连接层参数
type ConnOptions struct {
	SendBuffer      int
	PongWait        time.Duration
	WriteWait       time.Duration
	MaxMessageBytes int64
}

// DefaultConnOptions 默认连接参数
func DefaultConnOptions() ConnOptions {
	return ConnOptions{
		SendBuffer:      64,
		PongWait:        60 * time.Second,
		WriteWait:       5 * time.Second,
		MaxMessageBytes: 1 << 16,
	}
}

// ClientConn 负责发送（写）数据到客户端的轻量包装
// send 队列只由事件循环写入与关闭；写协程独占底层写操作
type ClientConn struct {
	ws     *websocket.Conn
	send   chan []byte
	opts   ConnOptions
	kicked bool
}

func NewClientConn(ws *websocket.Conn, opts ConnOptions) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, opts.SendBuffer),
		opts: opts,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞），队列满返回 false
func (c *ClientConn) Enqueue(b []byte) bool {
	if c.send == nil || c.kicked {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Kick 关闭慢连接的底层 socket；只在首次调用时返回 true
func (c *ClientConn) Kick() bool {
	if c.kicked {
		return false
	}
	c.kicked = true
	_ = c.ws.Close()
	return true
}

// Close 关闭发送队列（写协程随之退出）与底层连接
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	_ = c.ws.Close()
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump(send <-chan []byte) {
	ping := time.NewTicker(c.opts.PongWait * 9 / 10)
	defer func() {
		ping.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端命令，按到达顺序投递给事件循环
func (c *ClientConn) readPump(room *Room, id PlayerID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在循环线程中移除该玩家
	defer room.RequestLeave(id)
	c.ws.SetReadLimit(c.opts.MaxMessageBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	ctx := context.Background()
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugw("read error", "player", id, "err", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil || env.Type == "" {
			room.metrics.IncInvalidFrames()
			continue
		}
		in := Input{Kind: inputCommand, PlayerID: id, Type: env.Type, Data: env.Data}
		if err := room.Submit(ctx, in); err != nil {
			return
		}
	}
}

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// 与原前端一致：允许所有来源（生产环境需严格限制）
			return true
		},
	}
}

// HandleWS WebSocket 接入：升级 → 加入房间 → 启动读写协程
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade error", "remote", r.RemoteAddr, "err", err)
		return
	}

	client := NewClientConn(ws, s.connOpts)
	// 写协程先启动：加入时的 gameState 已在队列中
	go client.writePump(client.send)

	id, err := s.room.Join(context.Background(), client)
	if err != nil {
		Log.Warnw("join failed", "remote", r.RemoteAddr, "err", err)
		// 关闭发送队列，写协程随之退出
		client.Close()
		return
	}
	go client.readPump(s.room, id)
}
