package ws

// 客户端帧：{"seq":1,"name":"settlement.action","msg":{...}}。
// 服务端回同一个 seq；主动推送的 seq 为 0。
type (
	ReqBody struct {
		Seq  int64  `json:"seq"`
		Name string `json:"name"`
		Msg  any    `json:"msg"`
	}
	RespBody struct {
		Seq  int64  `json:"seq"`
		Name string `json:"name"`
		Code int    `json:"code"`
		Msg  any    `json:"msg"`
	}

	WsMsgReq struct {
		Body *ReqBody
		Conn WSConn
	}
	WsMsgResp struct {
		Body *RespBody
	}
)

// WSConn 是 handler 能看到的连接。属性表存订阅的存档和握手密钥。
type WSConn interface {
	Addr() string
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	// Push 异步下发，不等客户端回应
	Push(name string, data any)
	Close()
	Done() <-chan struct{}
}

// 内置帧
const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
)

// 连接属性键
const (
	SecretKey   = "secretKey"
	ConnKeySave = "save"
)

// Handshake 连接建立后服务端先发，Key 为空表示不加密。
type Handshake struct {
	Key string `json:"key"`
}

// Heartbeat 客户端带 ctime，服务端回填 stime。
type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}
