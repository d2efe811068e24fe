package web

import (
	"crypto/subtle"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// secretMiddleware guards a route with the shared cron secret. An empty secret disables the check.
func secretMiddleware(secret string, next http.HandlerFunc) http.HandlerFunc {
	if secret == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !isValidBearer(r.Header.Get("Authorization"), secret) {
			writeError(w, custom_errors.ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

func isValidBearer(header, secret string) bool {
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
