package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-think/openssl"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Dawnforge/internal/shared/security"
	"Dawnforge/internal/shared/utils"
	"Dawnforge/modules/kit/logx"
)

const outQueueSize = 256

// WsServer 是一条连接：读循环分发，写循环串行发送。
// 帧格式：json -> (可选 AES-CBC) -> gzip，二进制帧。
type WsServer struct {
	conn       *websocket.Conn
	router     *Router
	outChan    chan *WsMsgResp
	needSecret bool
	property   map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, needSecret bool) *WsServer {
	return &WsServer{
		conn:       wsConn,
		outChan:    make(chan *WsMsgResp, outQueueSize),
		needSecret: needSecret,
		property:   make(map[string]any),
		done:       make(chan struct{}),
		log:        l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 非阻塞；队列满或连接已关闭时丢弃并记日志。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) {
	select {
	case <-s.done:
	case s.outChan <- msg:
	default:
		s.log.Warn("ws push dropped, queue full", zap.String("name", msg.Body.Name), zap.String("addr", s.Addr()))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws read msg", zap.Error(err))
			}
			return
		}

		plain, err := s.decode(data)
		if err != nil {
			s.log.Warn("ws decode frame", zap.Error(err))
			if s.needSecret {
				// 密钥可能不同步，重新握手
				s.handshake()
			}
			continue
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(plain, &reqBody); err != nil {
			s.log.Warn("ws unmarshal request", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// 响应 seq 与请求一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.router.Dispatch(&req, &resp)
		}
		s.enqueue(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) secret() string {
	if v, ok := s.GetProperty(SecretKey).(string); ok {
		return v
	}
	return ""
}

func (s *WsServer) decode(data []byte) ([]byte, error) {
	raw, err := security.UnZip(data)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	if !s.needSecret {
		return raw, nil
	}
	key := s.secret()
	if key == "" {
		return nil, fmt.Errorf("secret key not negotiated")
	}
	return security.AesCBCDecrypt(raw, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}

func (s *WsServer) encode(body *RespBody) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if s.needSecret && body.Name != HandshakeMsg {
		key := s.secret()
		if key == "" {
			return nil, fmt.Errorf("secret key not negotiated")
		}
		if data, err = security.AesCBCEncrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING); err != nil {
			return nil, fmt.Errorf("encrypt: %w", err)
		}
	}
	return security.Zip(data)
}

func (s *WsServer) write(msg *WsMsgResp) {
	frame, err := s.encode(msg.Body)
	if err != nil {
		s.log.Error("ws encode frame", zap.String("name", msg.Body.Name), zap.Error(err))
		return
	}
	// 压缩后是二进制
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.log.Warn("ws write", zap.Error(err))
	}
}

// handshake 下发密钥；不加密时 key 为空，客户端据此只做 gzip。
func (s *WsServer) handshake() {
	key := ""
	if s.needSecret {
		key = s.secret()
		if key == "" {
			key = utils.RandSeq(16)
			s.SetProperty(SecretKey, key)
		}
	}
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}}})
}
