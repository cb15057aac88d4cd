package server

import (
	"context"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/expenses"
	"max.ks1230/expenses-tracker/internal/model/reports"
	"max.ks1230/expenses-tracker/internal/model/users"
	"max.ks1230/expenses-tracker/internal/security"
)

const shutdownTimeout = 5 * time.Second

type config interface {
	Addr() string
	RPS() float64
	Burst() int
}

type reportRequester interface {
	RequestReport(req reports.Request) error
}

type reportCache interface {
	GetReport(clientID int64, period string) (string, bool, error)
	InvalidateReports(clientID int64) error
}

// Server is the HTTP surface of the tracker. It exposes the cookie-based
// form flow and the token API side by side; both feed the same services.
type Server struct {
	users    *users.Service
	expenses *expenses.Service
	auth     *security.AuthService
	sessions *SessionStore
	producer reportRequester
	reports  reportCache

	limiter  *rate.Limiter
	sanitize *bluemonday.Policy
	addr     string
}

func New(
	cfg config,
	usersService *users.Service,
	expensesService *expenses.Service,
	auth *security.AuthService,
	sessions *SessionStore,
	producer reportRequester,
	reportsCache reportCache,
) *Server {
	return &Server{
		users:    usersService,
		expenses: expensesService,
		auth:     auth,
		sessions: sessions,
		producer: producer,
		reports:  reportsCache,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS()), cfg.Burst()),
		sanitize: bluemonday.StrictPolicy(),
		addr:     cfg.Addr(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/auth/register", s.handleAPIRegister)
	mux.HandleFunc("/api/auth/login", s.handleAPILogin)

	mux.HandleFunc("/showRegistrationForm", s.handleShowRegistrationForm)
	mux.HandleFunc("/processRegistration", s.handleProcessRegistration)
	mux.HandleFunc("/showLoginPage", s.handleShowLoginPage)
	mux.HandleFunc("/authenticateTheUser", s.handleAuthenticateTheUser)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.Handle("/", s.withAuth(http.HandlerFunc(s.handleLanding)))
	mux.Handle("/showAdd", s.withAuth(http.HandlerFunc(s.handleShowAdd)))
	mux.Handle("/submitAdd", s.withAuth(http.HandlerFunc(s.handleSubmitAdd)))
	mux.Handle("/list", s.withAuth(http.HandlerFunc(s.handleList)))
	mux.Handle("/showUpdate", s.withAuth(http.HandlerFunc(s.handleShowUpdate)))
	mux.Handle("/submitUpdate", s.withAuth(http.HandlerFunc(s.handleSubmitUpdate)))
	mux.Handle("/delete", s.withAuth(http.HandlerFunc(s.handleDelete)))
	mux.Handle("/processFilter", s.withAuth(http.HandlerFunc(s.handleProcessFilter)))
	mux.Handle("/report", s.withAuth(http.HandlerFunc(s.handleReport)))

	return s.withObservability(s.withRateLimit(mux))
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown server", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", s.addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "run server")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
