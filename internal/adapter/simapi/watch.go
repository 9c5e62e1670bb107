package simapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"cropline/internal/app/simview"
)

// WatchStream delivers live view frames pushed by the server. Views is
// closed when the server ends the session or the connection drops.
type WatchStream struct {
	conn  *websocket.Conn
	views chan simview.View
}

// Watch opens the websocket for a session and starts decoding frames.
func (c Client) Watch(ctx context.Context, sessionID string) (*WatchStream, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.watchURL(sessionID), nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, decodeError(resp)
		}
		return nil, fmt.Errorf("dial watch stream: %w", err)
	}

	stream := &WatchStream{
		conn:  conn,
		views: make(chan simview.View, 16),
	}
	go stream.readPump()
	return stream, nil
}

func (c Client) watchURL(sessionID string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/sim/sessions/" + sessionID + "/watch"
}

func (s *WatchStream) Views() <-chan simview.View { return s.views }

func (s *WatchStream) Close() error {
	return s.conn.Close()
}

func (s *WatchStream) readPump() {
	defer close(s.views)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var view simview.View
		if err := json.Unmarshal(payload, &view); err != nil {
			continue
		}
		s.views <- view
	}
}
