package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor"
	doctorrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/repo"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/mapping"
	mappingrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/mapping/repo"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient"
	patientrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/repo"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/ratelimit"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

const (
	banner          = "Healthcare Backend API is running..."
	requestIDHeader = "X-Request-ID"
)

// loginLimitedMessage words the login lockout in the window's own units.
func loginLimitedMessage(window time.Duration) string {
	return "Too many login attempts from this IP, please try again after " + humanDuration(window)
}

func humanDuration(d time.Duration) string {
	unit := func(n int64, name string) string {
		if n == 1 {
			return "1 " + name
		}
		return fmt.Sprintf("%d %ss", n, name)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return unit(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return unit(int64(d/time.Minute), "minute")
	case d >= time.Second && d%time.Second == 0:
		return unit(int64(d/time.Second), "second")
	}
	return d.String()
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware tags each request with an ID (kept from X-Request-ID
// when the caller sends one) and logs it at debug level.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = utilities.NewKSUID()
			}
			w.Header().Set(requestIDHeader, reqID)
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			if h.Get("Content-Security-Policy") == "" {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			if r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware admits browser calls from the configured origins. With no
// origins it is a pass-through.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After", requestIDHeader},
		MaxAge:         300,
	})
}

// Deps are the collaborators RegisterRoutes wires together.
type Deps struct {
	Logger *zap.SugaredLogger
	DB     *sqlx.DB
	Config config.Config
	// Clock drives token expiry and the login limiter. Nil means real time.
	Clock clockwork.Clock
	// Hasher overrides the bcrypt hasher built from Config.BcryptCost.
	Hasher user.PasswordHasher
}

// RegisterRoutes mounts every endpoint on a http.ServeMux and wraps it in the
// shared middleware chain.
func RegisterRoutes(d Deps) (http.Handler, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	hasher := d.Hasher
	if hasher == nil {
		hasher = user.BcryptHasher{Cost: d.Config.BcryptCost}
	}

	codec := auth.NewCodec(d.Config.JWTSecret, d.Config.TokenTTL, clock)
	limiter, err := ratelimit.New(d.Config.LoginRateLimit, d.Config.LoginRateWindow, clock)
	if err != nil {
		return nil, fmt.Errorf("login limiter: %w", err)
	}

	users := userrepo.NewUserRepo(d.DB)
	patients := patientrepo.NewPatientRepo(d.DB)
	doctors := doctorrepo.NewDoctorRepo(d.DB)
	mappings := mappingrepo.NewMappingRepo(d.DB)

	userHandler := user.NewHandler(user.NewUserService(users, hasher, codec, d.Config.AdminEmail), logger)
	patientHandler := patient.NewHandler(patient.NewService(patients), logger)
	doctorHandler := doctor.NewHandler(doctor.NewService(doctors), logger)
	mappingHandler := mapping.NewHandler(mapping.NewService(mappings, patients, doctors), logger)

	authed := auth.Middleware(codec, logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(auth.RequireRole(auth.RoleAdmin, logger)(h))
	}
	bearer := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth
	mux.HandleFunc("POST /api/auth/register", userHandler.Register)
	mux.Handle("POST /api/auth/login", ratelimit.Middleware(limiter, loginLimitedMessage(d.Config.LoginRateWindow), logger)(http.HandlerFunc(userHandler.Login)))

	// patients
	mux.Handle("GET /api/patients", bearer(patientHandler.List))
	mux.Handle("POST /api/patients", bearer(patientHandler.Create))
	mux.Handle("GET /api/patients/{id}", bearer(patientHandler.Get))
	mux.Handle("PUT /api/patients/{id}", bearer(patientHandler.Update))
	mux.Handle("DELETE /api/patients/{id}", bearer(patientHandler.Delete))

	// doctors
	mux.HandleFunc("GET /api/doctors", doctorHandler.List)
	mux.HandleFunc("GET /api/doctors/{id}", doctorHandler.Get)
	mux.Handle("POST /api/doctors", admin(doctorHandler.Create))
	mux.Handle("PUT /api/doctors/{id}", admin(doctorHandler.Update))
	mux.Handle("DELETE /api/doctors/{id}", admin(doctorHandler.Delete))

	// mappings
	mux.Handle("POST /api/mappings", bearer(mappingHandler.Create))
	mux.Handle("GET /api/mappings", bearer(mappingHandler.List))
	mux.Handle("GET /api/mappings/patient/{id}", bearer(mappingHandler.ListByPatient))
	mux.Handle("DELETE /api/mappings/{id}", bearer(mappingHandler.Delete))

	handler := SecurityHeadersMiddleware()(mux)
	handler = CORSMiddleware(d.Config.CORSOrigins)(handler)
	return LoggingMiddleware(logger)(handler), nil
}
