// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write sends v as a JSON body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK sends {success:true, ...extra} with status 200.
func OK(w http.ResponseWriter, extra map[string]any) {
	Status(w, http.StatusOK, extra)
}

// Status sends {success:true, ...extra} with the given status.
func Status(w http.ResponseWriter, status int, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	Write(w, status, body)
}

// Fail sends {success:false, error:msg}. A non-empty errs is added as
// "errors".
func Fail(w http.ResponseWriter, status int, msg string, errs ...string) {
	body := map[string]any{"success": false, "error": msg}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	Write(w, status, body)
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
