package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/handler/http/response"
)

// SessionRequired rejects requests while no staff member is signed in
func SessionRequired(sessions session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			if !sessions.SignedIn() {
				response.HandleError(w, session.ErrNotSignedIn)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
