// Package handlers exposes the HTTP surface: account endpoints, the lobby
// query endpoint, and the websocket entry point feeding the event bus.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/davidritter-dotcom/webe-backend/internal/auth"
	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

// WSHandler upgrades the connection, authenticates the handshake token, and
// runs the read/write pumps. Every authenticated message is dispatched onto
// the bus; the game service's handlers do the rest.
func WSHandler(logger *logrus.Logger, registry *ws.Registry, bus *ws.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing credentials", http.StatusUnauthorized)
			return
		}
		identity, err := auth.AuthenticateJWT(token)
		if err != nil {
			logger.Warnf("ws handshake auth failed from %s: %v", r.RemoteAddr, err)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		ctx, cancel := context.WithCancel(r.Context())
		conn := ws.NewConn(identity, cancel, logger)
		registry.Register(conn)
		logger.Infof("user %s (%s) connected", identity, r.RemoteAddr)

		go writePump(ctx, c, conn, logger)
		readPump(ctx, c, conn, bus, logger)

		// A displaced connection must not tear down its replacement.
		registry.Unregister(conn)
		conn.Close()
		logger.Infof("user %s disconnected", identity)
	}
}

// bearerToken extracts the handshake credential from the Authorization
// header, the token query parameter, or the auth_token cookie, in that
// order.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func readPump(ctx context.Context, c *websocket.Conn, conn *ws.Conn, bus *ws.Bus, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("user %s: websocket closed normally", conn.Identity)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("user %s: read error: %v", conn.Identity, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("user %s: ignoring non-text message type %d", conn.Identity, typ)
			continue
		}

		var env ws.InboundEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			logger.Warnf("user %s: invalid json: %v", conn.Identity, err)
			conn.SendError("Invalid JSON format")
			continue
		}
		if env.Type == "" {
			conn.SendError("Missing event type")
			continue
		}
		if env.Type == ws.EventPing {
			conn.Send(ws.EventPong, nil)
			continue
		}

		bus.Dispatch(conn.Identity, env.Type, env.Data)
	}
}

func writePump(ctx context.Context, c *websocket.Conn, conn *ws.Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	defer c.Close(websocket.StatusGoingAway, "write pump stopping")

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-conn.Out():
			if !ok {
				return
			}
			data, err := json.Marshal(env)
			if err != nil {
				logger.Warnf("user %s: failed to marshal outgoing %s: %v", conn.Identity, env.Type, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("user %s: write failed: %v", conn.Identity, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("user %s: ping failed, assuming disconnect: %v", conn.Identity, err)
				return
			}
		}
	}
}
