package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message - event for subscribers of the websocket endpoint
type Message struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

var wsUp *websocket.Upgrader

var wsMu sync.Mutex
var wsClients = map[*wsClient]struct{}{}

type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func initWS(origin string) {
	wsUp = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}

	switch origin {
	case "":
		// same origin + ignore port
		wsUp.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header["Origin"]
			if len(origin) == 0 {
				return true
			}
			o, err := url.Parse(origin[0])
			if err != nil {
				return false
			}
			if o.Host == r.Host {
				return true
			}
			log.Trace().Msgf("[api] ws origin=%s, host=%s", o.Host, r.Host)
			if i := strings.IndexByte(o.Host, ':'); i > 0 {
				return o.Host[:i] == r.Host
			}
			return false
		}
	case "*":
		// any origin
		wsUp.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

func apiWS(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUp.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Caller().Msgf("host=%s origin=%s", r.Host, r.Header.Get("Origin"))
		return
	}

	client := &wsClient{conn: ws}

	wsMu.Lock()
	wsClients[client] = struct{}{}
	wsMu.Unlock()

	log.Trace().Str("addr", r.RemoteAddr).Msg("[api] ws connect")

	// subscribers only listen, the read loop just tracks liveness
	for {
		if _, _, err = ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
				log.Trace().Err(err).Caller().Send()
			}
			break
		}
	}

	wsMu.Lock()
	delete(wsClients, client)
	wsMu.Unlock()

	_ = ws.Close()
}

// Broadcast - send the event to every websocket subscriber
func Broadcast(typ string, value any) {
	data, err := json.Marshal(Message{Type: typ, Value: value})
	if err != nil {
		log.Warn().Err(err).Caller().Send()
		return
	}

	wsMu.Lock()
	clients := make([]*wsClient, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsMu.Unlock()

	for _, client := range clients {
		if err = client.write(data); err != nil {
			wsMu.Lock()
			delete(wsClients, client)
			wsMu.Unlock()
			_ = client.conn.Close()
		}
	}
}
