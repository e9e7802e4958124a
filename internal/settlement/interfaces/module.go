package interfaces

import (
	"time"

	"github.com/gin-gonic/gin"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/interfaces/handler"
	"Dawnforge/internal/settlement/interfaces/handler/http"
	ws2 "Dawnforge/internal/settlement/interfaces/handler/ws"
	"Dawnforge/internal/shared/session"
	transporthttp "Dawnforge/internal/shared/transport/http"
	"Dawnforge/internal/shared/transport/ws"
	"Dawnforge/modules/kit/logx"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(s handler.Settlements, repo app.SaveRepository, sessions session.Manager, tokenTTL time.Duration, l logx.Logger) *Module {
	return &Module{
		wsHandler:   ws2.NewWsHandler(s, sessions, l),
		httpHandler: http.NewHttpHandler(s, repo, tokenTTL, l),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
