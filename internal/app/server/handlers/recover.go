package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Recover turns panics into the standard error envelope. When the handler has
// already started its response, the panic is only logged.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Printf("Unhandled error: %v\n", rec)

				if ww.Status() != 0 {
					return
				}

				writeError(ww, http.StatusInternalServerError, CodeInternal, "Internal server error")
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
