package relay

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The relay fronts a local capture client, not browsers on the
	// open internet.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleRelayWS returns the WebSocket endpoint handler. Each accepted
// connection gets its own session goroutine and registry entry.
func HandleRelayWS(cfg *config.Config, pipe *pipeline.Adapter, registry *Registry) http.HandlerFunc {
	log := observability.WithComponent("relay")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			observability.RecordError("upgrade_failed", "relay")
			return
		}

		session := NewSession(cfg, conn, pipe)
		registry.Add(session)

		go func() {
			defer func() {
				registry.Remove(session.ID)
				_ = conn.Close()
			}()
			session.Run()
		}()
	}
}

// SessionsHandler returns the /sessions introspection endpoint.
func SessionsHandler(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"count":    registry.Len(),
			"sessions": registry.Snapshot(),
		})
	}
}
