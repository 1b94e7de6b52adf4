package middleware

import "net/http"

// apiCSP allows nothing, responses are JSON or plain text only.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders hardens every response. hsts should only be set behind https.
func SecurityHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "no-referrer")
			headers.Set("Content-Security-Policy", apiCSP)
			// staff responses carry session bound data
			headers.Set("Cache-Control", "no-store")
			if hsts {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
