package interceptor

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jt828/api-relay/pkg/snowflake"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with a snowflake id, or keeps the one the
// caller sent. The id is readable through middleware.GetReqID.
func RequestID(node snowflake.Snowflake) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = strconv.FormatInt(node.Generate(), 10)
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
