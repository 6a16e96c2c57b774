package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades /ws requests into sessions served by m. An empty
// allowlist accepts every origin.
func WSHandler(m *Manager, allowlist []string, log slog.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: originChecker(allowlist),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("ws upgrade from %s: %v", r.RemoteAddr, err)
			return
		}
		session := NewSession(conn, log)
		log.Debugf("Session %s connected from %s", session.ID(), r.RemoteAddr)
		session.Serve(m)
		log.Debugf("Session %s disconnected", session.ID())
	}
}

func originChecker(allowlist []string) func(r *http.Request) bool {
	if len(allowlist) == 0 {
		return func(r *http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(allowlist))
	for _, o := range allowlist {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin.
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}
