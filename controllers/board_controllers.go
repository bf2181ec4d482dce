package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/table-reservation/kds"
	"github.com/yeremiapane/table-reservation/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type BoardController struct {
	Hub *kds.Hub
}

func NewBoardController(hub *kds.Hub) *BoardController {
	return &BoardController{Hub: hub}
}

// FloorBoard -> GET /admin/board/ws
func (bc *BoardController) FloorBoard(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("board upgrade failed: %v", err)
		return
	}

	bc.Hub.RegisterClient(ws)
	defer bc.Hub.UnregisterClient(ws)

	// The board is push-only; reads only detect the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

// Health -> GET /health
func Health(c *gin.Context) {
	c.String(http.StatusOK, "Restaurant API is running")
}
