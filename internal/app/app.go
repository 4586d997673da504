// Package app assembles the registration service: repositories,
// services, collaborator clients and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/config"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/blobstore"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/notification"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/repository/memory"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/repository/postgres"
	sessionclient "github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/interfaces/httpapi"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/profanity"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type repositories struct {
	clients  client.Repository
	teams    team.Repository
	members  member.Repository
	payments payment.Repository
	audits   auditlog.Repository
	leagues  league.Repository
	geos     geo.Repository
}

// App owns the assembled HTTP server and the resources that need an
// orderly shutdown.
type App struct {
	Server *http.Server

	logger     *logging.Logger
	db         *sqlx.DB
	dispatcher *notification.Dispatcher
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	repos, err := a.buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	validator := eligibility.NewValidator(cfg.EducationAgeTable)
	filter := profanity.NewFilter(cfg.BlockedWords)
	ids := idgen.NewRandomGenerator()

	gateway := notification.NewGateway(notification.GatewayConfig{
		BaseURL:        cfg.SMSBaseURL,
		APIKey:         cfg.SMSAPIKey,
		Sender:         cfg.SMSSender,
		Timeout:        cfg.SMSTimeout,
		CircuitBreaker: cfg.SMSCircuit,
	}, logger)
	dispatcher, err := notification.NewDispatcher(gateway, cfg.NotifyWorkers, logger)
	if err != nil {
		a.closePartial()
		return nil, err
	}
	a.dispatcher = dispatcher

	receipts, err := blobstore.NewLocalStore(cfg.ReceiptDir, cfg.ReceiptMaxBytes)
	if err != nil {
		a.closePartial()
		return nil, fmt.Errorf("build receipt store: %w", err)
	}

	sessions := sessionclient.NewClient(
		&http.Client{Timeout: cfg.SessionTimeout},
		cfg.SessionBaseURL,
		cfg.SessionCircuit,
		logger,
	)

	rosterSvc := usecase.NewRosterService(
		repos.clients, repos.teams, repos.members, repos.leagues, repos.geos,
		validator, filter, ids, logger,
		cfg.MaxTeamsPerClient, cfg.MaxMembersPerTeam,
	)
	feeSvc := usecase.NewFeeService(repos.teams, repos.members, repos.payments, cfg.Pricing, rosterSvc)
	auditSvc := usecase.NewAuditService(repos.teams, repos.members, validator, logger)
	resolutionSvc := usecase.NewResolutionService(repos.clients, auditSvc, sessions, logger)
	clientSvc := usecase.NewClientService(
		repos.clients, ids, dispatcher, logger,
		cfg.OTPLength, cfg.OTPTTL, cfg.OTPResendCooldown,
	)
	paymentSvc := usecase.NewPaymentService(repos.payments, feeSvc, receipts, ids, logger)
	reconcileSvc := usecase.NewReconcileService(repos.payments, repos.clients, repos.audits, dispatcher, ids, logger)
	adminSvc := usecase.NewAdminService(repos.clients, repos.audits, auditSvc, ids, logger)
	catalogSvc := usecase.NewCatalogService(repos.leagues, repos.geos)

	handler := httpapi.NewHandler(
		clientSvc, rosterSvc, feeSvc, paymentSvc, reconcileSvc,
		auditSvc, resolutionSvc, adminSvc, catalogSvc, logger,
	)
	router := httpapi.NewRouter(handler, sessions, logger, cfg.CORSAllowedOrigins, cfg.InternalAPIToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// buildRepositories connects to postgres when DB_URL is set and falls
// back to seeded in-memory repositories otherwise (dev and tests).
func (a *App) buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")

		teams := memory.NewTeamRepository()
		members := memory.NewMemberRepository()
		audits := memory.NewAuditLogRepository()
		return repositories{
			clients:  memory.NewClientRepository(teams, members),
			teams:    teams,
			members:  members,
			payments: memory.NewPaymentRepository(teams, members, audits),
			audits:   audits,
			leagues:  memory.NewLeagueRepository(cfg.Leagues),
			geos:     memory.NewGeoRepository(memory.SeedProvinces(), memory.SeedCities()),
		}, nil
	}

	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping database: %w", err)
	}
	a.db = db

	logger.Info("connected to postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		clients:  postgres.NewClientRepository(db),
		teams:    postgres.NewTeamRepository(db),
		members:  postgres.NewMemberRepository(db),
		payments: postgres.NewPaymentRepository(db),
		audits:   postgres.NewAuditLogRepository(db),
		leagues:  postgres.NewLeagueRepository(db),
		geos:     postgres.NewGeoRepository(db),
	}, nil
}

// Shutdown stops the HTTP server, drains queued notifications and
// closes the database pool.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	a.closePartial()
	return firstErr
}

func (a *App) closePartial() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
		a.dispatcher = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database failed", "error", err)
		}
		a.db = nil
	}
}
