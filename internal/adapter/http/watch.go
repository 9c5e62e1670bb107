package httpadapter

import (
	"context"
	"encoding/json"
	"log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/websocket"
)

// upgrader accepts any origin: the view stream is read-only and carries
// nothing operator auth protects.
var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(_ *app.RequestContext) bool { return true },
}

// watchSession streams view snapshots over a websocket until the session
// closes or the client hangs up. Subscription happens before the upgrade so
// an unknown session id fails as a plain HTTP error.
func (h Handler) watchSession(_ context.Context, ctx *app.RequestContext) {
	sessionID := string(ctx.Param("id"))
	views, cancel, err := h.Sessions.Watch(sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	err = upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		defer cancel()

		// The read pump exists to notice the client going away; inbound
		// frames carry no meaning on this endpoint.
		clientGone := make(chan struct{})
		go func() {
			defer close(clientGone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case view, ok := <-views:
				if !ok {
					msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
					_ = conn.WriteMessage(websocket.CloseMessage, msg)
					return
				}
				payload, err := json.Marshal(view)
				if err != nil {
					log.Printf("http: marshal view for %s: %v", sessionID, err)
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-clientGone:
				return
			}
		}
	})
	if err != nil {
		cancel()
		log.Printf("http: websocket upgrade for %s: %v", sessionID, err)
	}
}
