package middleware

import (
	"net/http"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/httputil"
)

const MsgStoreUnavailable = "Database connection failed. Please try again later."

// RequireStore answers 503 with an error envelope while available reports false.
func RequireStore(available func() bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !available() {
				httputil.RespondWithError(w, http.StatusServiceUnavailable, MsgStoreUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
