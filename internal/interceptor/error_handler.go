package interceptor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/observability"
)

// HandlerFunc is an http handler that returns its failure instead of
// writing it. ErrorHandler turns the error into the response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type ErrorHandlerFunc func(HandlerFunc) http.HandlerFunc

func ErrorHandler(log observability.Logger) ErrorHandlerFunc {
	return func(handler HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic recovered",
						observability.String("panic", fmt.Sprintf("%v", rec)),
						observability.String("method", r.Method),
						observability.String("path", r.URL.Path),
						observability.String("request_id", middleware.GetReqID(r.Context())),
					)
					WriteError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			err := handler(w, r)
			if err == nil {
				return
			}

			switch {
			case errors.Is(err, apperror.ErrNotFound):
				WriteError(w, http.StatusNotFound, apperror.PublicMessage(err, "Not found"))
			case errors.Is(err, apperror.ErrInvalidArgument):
				log.Debug("rejected request", observability.Err(err), observability.String("path", r.URL.Path))
				WriteError(w, http.StatusBadRequest, apperror.PublicMessage(err, "Invalid request"))
			default:
				log.Error("unhandled error",
					observability.Err(err),
					observability.String("method", r.Method),
					observability.String("path", r.URL.Path),
					observability.String("request_id", middleware.GetReqID(r.Context())),
				)
				WriteError(w, http.StatusInternalServerError, apperror.PublicMessage(err, "Internal server error"))
			}
		}
	}
}
