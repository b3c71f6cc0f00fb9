package middleware

import (
	"net/http"
	"os"
	"strings"
)

// corsPolicy holds the resolved origin allow-list. An empty list means any
// origin is accepted, which is the development default.
type corsPolicy struct {
	origins []string
}

func newCORSPolicy() corsPolicy {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return corsPolicy{}
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return corsPolicy{origins: origins}
}

func (p corsPolicy) allows(origin string) bool {
	if len(p.origins) == 0 {
		return true
	}
	for _, allowed := range p.origins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware adds CORS headers and answers preflight requests. The
// allow-list comes from ALLOWED_ORIGINS (comma separated); unset means any
// origin.
func CORSMiddleware(next http.Handler) http.Handler {
	policy := newCORSPolicy()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && policy.allows(origin) {
			if len(policy.origins) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
