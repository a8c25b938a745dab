package http

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// DefaultSessionName is the cookie holding the role and gate state
const DefaultSessionName = "logiclog_session"

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	sessions    sessions.Store
	sessionName string
}

type Options func(*Server)

// WithSessionStore replaces the per-process cookie store
func WithSessionStore(store sessions.Store) Options {
	return func(s *Server) {
		s.sessions = store
	}
}

// WithSessionName changes the session cookie name
func WithSessionName(name string) Options {
	return func(s *Server) {
		s.sessionName = name
	}
}

// newCookieStore returns a store signed with a random key. Sessions do not
// survive a restart, matching the transient gate state.
func newCookieStore() (*sessions.CookieStore, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, goerr.Wrap(err, "failed to generate session key")
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		sessionName: DefaultSessionName,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sessions == nil {
		store, err := newCookieStore()
		if err != nil {
			return nil, err
		}
		s.sessions = store
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/steps", stepsHandler())

		r.Route("/logs", func(r chi.Router) {
			r.Get("/draft", draftHandler(s.uc))
			r.Post("/", s.submitHandler())
			r.With(s.requireDashboard).Delete("/{id}", deleteHandler(s.uc))
		})

		r.Get("/timeline", timelineHandler(s.uc))
		r.Get("/calendar", calendarHandler(s.uc))
		r.With(s.requireDashboard).Get("/dashboard", dashboardHandler(s.uc))

		r.Get("/session", s.sessionHandler())
		r.Post("/role", s.roleHandler())
		r.Post("/gate", s.gateHandler())
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests and puts a request
// scoped logger into the context
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
