package middleware

import "net/http"

// CORS allows a single configured origin ("*" for any) to call the API
// from a browser and answers preflight requests.
type CORS struct {
	allowedOrigin string
}

func NewCORS(allowedOrigin string) *CORS {
	return &CORS{allowedOrigin: allowedOrigin}
}

func (c *CORS) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (c.allowedOrigin == "*" || origin == c.allowedOrigin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
