// internal/app/features/errors/errors.go
//
// Package errors renders failures as the JSON envelope every endpoint
// uses: {success:false, error, errors?, stack?}. The stack is only sent in
// the dev environment.
package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/reqid"
	"go.uber.org/zap"
)

// InternalMessage is shown instead of the error text on 500 responses.
const InternalMessage = "Erro interno do servidor"

// Renderer writes error responses.
type Renderer struct {
	Log *zap.Logger
	Dev bool
}

// NewRenderer constructs a Renderer. dev enables stack output.
func NewRenderer(logger *zap.Logger, dev bool) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Log: logger, Dev: dev}
}

type body struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

// Error answers with the status apperr.Status assigns to err. Server
// errors are logged and their text replaced by InternalMessage.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	b := body{Error: err.Error(), Errors: apperr.Messages(err)}
	if len(b.Errors) > 0 {
		b.Error = strings.Join(b.Errors, ", ")
	}
	if status >= http.StatusInternalServerError {
		rd.Log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", reqid.FromContext(r.Context())))
		b.Error = InternalMessage
		if rd.Dev {
			b.Error = err.Error()
			b.Stack = fmt.Sprintf("%+v", err)
		}
	}
	httpjson.Write(w, status, b)
}

// Message answers with status and a fixed message.
func (rd *Renderer) Message(w http.ResponseWriter, status int, msg string) {
	httpjson.Write(w, status, body{Error: msg})
}

// NotFound is the router's fallback for unknown paths.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Message(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed is the router's fallback for known paths.
func (rd *Renderer) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rd.Message(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// Recoverer turns a handler panic into a 500 response.
func (rd *Renderer) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			stack := debug.Stack()
			rd.Log.Error("panic in handler",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", reqid.FromContext(r.Context())),
				zap.ByteString("stack", stack))
			b := body{Error: InternalMessage}
			if rd.Dev {
				b.Error = fmt.Sprint(rec)
				b.Stack = string(stack)
			}
			httpjson.Write(w, http.StatusInternalServerError, b)
		}()
		next.ServeHTTP(w, r)
	})
}
