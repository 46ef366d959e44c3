package middleware

import (
	"errors"
	"net/http"

	apierrors "scoreline/internal/errors"
)

// Recoverer turns handler panics into an RFC 7807 500 response.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rvr)
				}
				errorHandler.HandlePanic(w, r, rvr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFound and MethodNotAllowed adapt the error handler to chi's router hooks.
func NotFound(errorHandler *apierrors.ErrorHandler) http.HandlerFunc {
	return errorHandler.NotFound
}

func MethodNotAllowed(errorHandler *apierrors.ErrorHandler) http.HandlerFunc {
	return errorHandler.MethodNotAllowed
}
