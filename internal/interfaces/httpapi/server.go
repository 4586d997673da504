package httpapi

import (
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	sessions session.Store,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalAPIToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerSessionRoutes(mux, handler, sessions)
	registerAdminRoutes(mux, handler, sessions)
	registerInternalRoutes(mux, handler, internalAPIToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
