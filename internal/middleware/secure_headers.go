package middleware

import "net/http"

var secureHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "SAMEORIGIN",
	"Referrer-Policy":              "no-referrer",
	"Cross-Origin-Resource-Policy": "same-origin",
	"X-DNS-Prefetch-Control":       "off",
}

func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range secureHeaders {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}
