package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roguedeck/internal/cards"
	"roguedeck/internal/game"
	"roguedeck/internal/logger"
	"roguedeck/internal/netinfo"
	"roguedeck/internal/server"
)

var upgrader = websocket.Upgrader{
	// LAN diagnostics server, same trust model as the TCP listener
	CheckOrigin: func(*http.Request) bool { return true },
}

// RegisterRoutes wires the admin/diagnostics endpoints and the WebSocket
// bridge into the game session.
func RegisterRoutes(r *gin.Engine, catalog *cards.Catalog, session *game.Session, srv *server.Server) {
	startTime := time.Now()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"phase":  session.Phase(),
			"uptime": time.Since(startTime).Round(time.Second).String(),
		})
	})

	r.GET("/cards", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cards": catalog.Definitions})
	})

	r.GET("/interfaces", func(c *gin.Context) {
		ifaces, err := netinfo.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"interfaces": ifaces,
			"best":       netinfo.Best(ifaces),
		})
	})

	// Sanitized session summary: no hand or pile contents, aggregate
	// counts only, same as what an opponent is allowed to see.
	r.GET("/state", func(c *gin.Context) {
		snap := session.Snapshot(-1)
		c.JSON(http.StatusOK, gin.H{
			"phase":          session.Phase(),
			"players":        session.Players(),
			"current_player": snap.CurrentPlayer,
			"market":         snap.Market,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "err", err)
			return
		}
		srv.Attach(server.NewWSConn(conn))
	})
}
