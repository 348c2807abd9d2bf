// Package server exposes the dashboard over HTTP: the dealers and
// submissions list views, the overview page and the password-reset
// screens. Handlers stay thin; all view state lives in the controllers.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealer-dashboard/internal/common/config"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/validation"
	"dealer-dashboard/internal/listctrl"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/notify"
	"dealer-dashboard/internal/otp"
	"dealer-dashboard/internal/query"
	"dealer-dashboard/internal/services/auth"
	"dealer-dashboard/internal/services/dealer"
	"dealer-dashboard/internal/services/overview"
	"dealer-dashboard/internal/services/submission"
)

type Server struct {
	cfg      *config.Config
	logger   logger.Logger
	notifier *notify.Notifier
	cache    *query.Cache

	dealerSvc     *dealer.Service
	submissionSvc *submission.Service
	overviewSvc   *overview.Service
	authSvc       *auth.Service

	dealers     *listctrl.Controller[models.Dealer]
	submissions *listctrl.Controller[models.Submission]
}

func New(
	cfg *config.Config,
	log logger.Logger,
	cache *query.Cache,
	dealerSvc *dealer.Service,
	submissionSvc *submission.Service,
	overviewSvc *overview.Service,
	authSvc *auth.Service,
) *Server {
	s := &Server{
		cfg:           cfg,
		logger:        log,
		notifier:      notify.New(log),
		cache:         cache,
		dealerSvc:     dealerSvc,
		submissionSvc: submissionSvc,
		overviewSvc:   overviewSvc,
		authSvc:       authSvc,
	}

	s.dealers = listctrl.New(
		"Dealer",
		cfg.Lists.PageSize,
		validation.DealerForm,
		s.dealerHooks(),
		s.notifier,
		listctrl.NewBodySurface(""),
		log,
	)
	s.submissions = listctrl.New(
		"Submission",
		cfg.Lists.PageSize,
		validation.SubmissionForm,
		s.submissionHooks(),
		s.notifier,
		listctrl.NewBodySurface(""),
		log,
	)

	return s
}

// Router builds the dashboard route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/dealers", s.handleDealersPage).Methods("GET")
	r.HandleFunc("/dealers", s.handleDealerSubmit).Methods("POST")
	r.HandleFunc("/dealers/modal", s.handleDealerModal).Methods("POST")
	r.HandleFunc("/dealers/{id}", s.handleDealerDelete).Methods("DELETE")

	r.HandleFunc("/submissions", s.handleSubmissionsPage).Methods("GET")
	r.HandleFunc("/submissions/modal", s.handleSubmissionModal).Methods("POST")
	r.HandleFunc("/submissions/{id}", s.handleSubmissionDelete).Methods("DELETE")

	r.HandleFunc("/overview", s.handleOverview).Methods("GET")

	r.HandleFunc("/forgot-password", s.handleForgotPassword).Methods("POST")
	r.HandleFunc("/verify-otp", s.handleVerifyOTP).Methods("POST")
	r.HandleFunc("/verify-otp/resend", s.handleResendOTP).Methods("POST")
	r.HandleFunc("/reset-password", s.handleResetPassword).Methods("POST")

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// newFlow positions a fresh reset flow from the request's query string,
// so every auth request rebuilds its state from the URL alone.
func (s *Server) newFlow(r *http.Request) *otp.Flow {
	flow := otp.NewFlow(s.cfg.OTP, s.authSvc, s.notifier, s.logger, nil)
	flow.Resume(r.URL.Query())
	return flow
}
