package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Dawnforge/modules/kit/logx"
)

type Server struct {
	router     *Router
	log        logx.Logger
	needSecret bool
	upgrader   websocket.Upgrader
}

// NewServer needSecret 为 true 时握手下发 AES 密钥，之后双向帧都加密。
func NewServer(r *Router, l logx.Logger, needSecret bool) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router:     r,
		log:        l,
		needSecret: needSecret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}
	s.log.Debug("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	conn := NewWsServer(wsConn, s.log, s.needSecret)
	conn.Router(s.router)
	conn.handshake()
	conn.Run()
}
