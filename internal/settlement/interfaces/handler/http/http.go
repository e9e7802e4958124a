package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/interfaces/handler"
	"Dawnforge/internal/settlement/interfaces/handler/dto"
	"Dawnforge/internal/shared/security"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/logx"
)

type HttpHandler struct {
	settlements handler.Settlements
	repo        app.SaveRepository
	tokenTTL    time.Duration
	log         logx.Logger
}

func NewHttpHandler(s handler.Settlements, repo app.SaveRepository, tokenTTL time.Duration, l logx.Logger) *HttpHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &HttpHandler{settlements: s, repo: repo, tokenTTL: tokenTTL, log: l}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	saves := group.Group("/saves")
	saves.GET("", h.List)
	saves.POST("/:name", h.Create)
	saves.GET("/:name", h.State)
	saves.POST("/:name/actions", h.Dispatch)
	saves.GET("/:name/tasks", h.Tasks)
	saves.GET("/:name/items", h.Items)
}

func (h *HttpHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.repo.List(ctx)
	if err != nil {
		h.error(ctx, c, "list saves", err)
		return
	}
	h.ok(c, list)
}

// Create 开新局，返回绑定该存档的 token，ws 订阅时使用。
func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	view, err := h.settlements.Create(ctx, name)
	if err != nil {
		h.error(ctx, c, "create save", err)
		return
	}
	token, err := security.Award(name, h.tokenTTL)
	if err != nil {
		h.error(ctx, c, "award token", err)
		return
	}
	h.ok(c, dto.CreateResp{Token: token, State: view})
}

func (h *HttpHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.settlements.State(ctx, c.Param("name"))
	if err != nil {
		h.error(ctx, c, "get state", err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Dispatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ActionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" {
		h.fail(c, transport.InvalidParam, "invalid action body")
		return
	}
	reply, err := h.settlements.Dispatch(ctx, c.Param("name"), req.Request())
	if err != nil {
		h.error(ctx, c, "dispatch action", err)
		return
	}
	h.ok(c, reply)
}

func (h *HttpHandler) Tasks(c *gin.Context) {
	ctx := c.Request.Context()
	reply, err := h.settlements.Tasks(ctx, c.Param("name"))
	if err != nil {
		h.error(ctx, c, "list tasks", err)
		return
	}
	h.ok(c, reply)
}

func (h *HttpHandler) Items(c *gin.Context) {
	ctx := c.Request.Context()
	reply, err := h.settlements.Items(ctx, c.Param("name"))
	if err != nil {
		h.error(ctx, c, "list items", err)
		return
	}
	h.ok(c, reply)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, h.log, action, err)
	h.fail(c, code, msg)
}
