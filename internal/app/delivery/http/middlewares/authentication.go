package middlewares

import (
	"context"
	"net/http"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/exceptions"
	"settlement-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// Authentication validates the bearer credential and attaches the resolved
// identity to the request context. Every route behind it can assume a
// non-nil identity; ownership checks stay in the usecases.
func (m *Middlewares) Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := extractBearerToken(r)
		if credential == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		identity, err := m.AuthGuard.Validate(r.Context(), credential)
		if err != nil {
			m.Log.Warn("middlewares.Authentication credential rejected",
				zap.Any(constvars.LoggingRequestIDKey, r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY)),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_IDENTITY_KEY, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get(constvars.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
