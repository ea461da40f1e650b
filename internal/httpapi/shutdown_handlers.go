package httpapi

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"time"
)

// Shutdown stops srv when called from localhost with the matching
// X-Shutdown-Token header.
func Shutdown(token string, srv *http.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "POST only")
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr can sometimes be just a host
			host = r.RemoteAddr
		}
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			WriteError(w, r, http.StatusForbidden, CodeForbidden, "forbidden")
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
			return
		}

		// respond first, then shut down
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}
}
