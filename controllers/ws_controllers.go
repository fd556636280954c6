package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sigitdim/fortisapp-sub001/realtime"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

// WSController streams hpp_update, ingredient_price_changed and
// promo_update events to the owner's open sessions.
type WSController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWSController(hub *realtime.Hub, allowedOrigin string) *WSController {
	return &WSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (wc *WSController) Handle(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	wc.Hub.Register(ws, owner)
	utils.InfoLogger.Printf("Websocket client connected for owner %d", owner)

	// klien tidak mengirim apa-apa, baca hanya untuk mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(ws)
}
