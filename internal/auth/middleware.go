package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
)

// Rejection causes. They all reach the client as the same 401.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrInsufficientRole    = errors.New("insufficient role")
)

const deniedMessage = "Authorization denied: a valid token is required"

// Authenticate resolves a raw Authorization header value. The header must be
// exactly "Bearer <token>".
func Authenticate(header string, verifier TokenVerifier) (Identity, error) {
	if header == "" {
		return Identity{}, ErrMissingCredential
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Identity{}, ErrMalformedCredential
	}
	id, err := verifier.Verify(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return id, nil
}

// Middleware rejects requests without a valid bearer token and attaches the
// verified identity to the request context.
func Middleware(verifier TokenVerifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Authenticate(r.Header.Get("Authorization"), verifier)
			if err != nil {
				apierror.Write(w, logger, apierror.Unauthenticated(deniedMessage, err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole only admits identities holding role. Must be mounted after Middleware.
func RequireRole(role Role, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	msg := fmt.Sprintf("Authorization denied. Only %s users can perform this action.", roleLabel(role))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				apierror.Write(w, logger, apierror.Unauthenticated(deniedMessage, ErrMissingCredential))
				return
			}
			if id.Role != role {
				logger.Debugw("role gate rejected request", "user", id.ID, "role", id.Role, "required", role, "err", ErrInsufficientRole)
				apierror.Write(w, logger, apierror.Forbidden(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleLabel(r Role) string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleBasic:
		return "Basic"
	}
	return string(r)
}
