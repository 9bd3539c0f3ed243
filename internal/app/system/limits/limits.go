// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits.
const (
	// MaxJSONBody bounds every API request body. Menu trees are the largest
	// payloads the service accepts.
	MaxJSONBody = 2 << 20 // 2 MB
)

// Body caps the request body at n bytes. Reads past the cap fail, which
// JSON decoding reports as a bad request.
func Body(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
