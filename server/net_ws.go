package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws    *websocket.Conn
	codec Codec
	send  chan []byte
	out   <-chan []byte // 写协程持有的只读端，Close 之后仍可读完剩余消息
}

func NewClientConn(ws *websocket.Conn, codec Codec) *ClientConn {
	send := make(chan []byte, 64)
	return &ClientConn{
		ws:    ws,
		codec: codec,
		send:  send,
		out:   send,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃新帧（防止阻塞 Tick）
	}
}

// Close 关闭发送队列，写协程随后关闭连接；只在 Tick 线程调用
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(c.codec.MessageType(), msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入，转换为 PlayerInput 注入会话
func (c *ClientConn) readPump(s *Session, id ClientID) {
	defer c.ws.Close()
	// 读泵退出时，通知会话在 Tick 线程中移除该连接
	defer s.RequestLeave(id)
	c.ws.SetReadLimit(1 << 16)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		msgType, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugf("ws read: session=%s client=%s err=%v", s.ID, id, err)
			}
			return
		}
		im, err := decodeInput(msgType, payload)
		if err != nil {
			continue
		}
		in, ok := im.ToInput()
		if !ok {
			continue
		}
		s.OnInput(PlayerInput{
			ClientID:    id,
			Input:       in,
			Seq:         im.Seq,
			CommandOnly: strings.ToLower(im.Type) == "command",
		})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?session=court-1&player=alice&role=player|spectator&codec=json|msgpack
func (m *SessionManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role, ok := ParseRole(q.Get("role"))
	if !ok {
		http.Error(w, "role must be player or spectator", http.StatusBadRequest)
		return
	}
	codec, err := CodecByName(q.Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	s := m.GetOrCreateSession(sessionID(r))
	id := m.nextClientID(q.Get("player"))
	client := NewClientConn(ws, codec)
	s.Join(id, role, client)
	Log.Infof("client joined: session=%s client=%s role=%s codec=%s", s.ID, id, role, codec.Name())

	go client.writePump()
	go client.readPump(s, id)
}
