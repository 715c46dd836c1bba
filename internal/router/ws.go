package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/nmilosev/evalgate/internal/broadcast"
	"github.com/nmilosev/evalgate/internal/dto"
)

type WsRouter struct {
	e           *echo.Echo
	broadcaster *broadcast.Broadcaster
}

func NewWsRouter(e *echo.Echo, broadcaster *broadcast.Broadcaster) *WsRouter {
	return &WsRouter{e: e, broadcaster: broadcaster}
}

func (r *WsRouter) Bind() {
	r.e.GET("/api/v1/ws", r.streamHandler)
}

// streamHandler pushes every finished evaluation to the connected client.
// The feed starts at connection time; there is no replay.
func (r *WsRouter) streamHandler(c echo.Context) error {
	websocket.Handler(func(ws *websocket.Conn) {
		defer ws.Close()

		sub := r.broadcaster.Subscribe()
		defer sub.Close()

		for record := range sub.C {
			if err := websocket.JSON.Send(ws, dto.EvalUpdateFrom(record)); err != nil {
				slog.Debug("Websocket client gone", "error", err)
				return
			}
		}
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}
