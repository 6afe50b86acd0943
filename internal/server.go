package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/auth"
	"github.com/2beens/hoosfit/internal/config"
	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/motivation"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
	"github.com/2beens/hoosfit/internal/middleware"
	"github.com/2beens/hoosfit/internal/telemetry/metrics"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"
	"github.com/2beens/hoosfit/internal/web"
)

const sessionsCleanupEvery = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config  *config.Config
	dbPool  *pgxpool.Pool
	handler *web.Handler

	redisClient    *redis.Client
	sessionChecker auth.Checker
	authService    *auth.Service
	rateLimiter    middleware.RequestRateLimiter

	profilesService *profiles.Service

	// background jobs
	bgCancel context.CancelFunc
	bgWg     sync.WaitGroup

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config  *config.Config
	Secrets *config.Secrets
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	tracingEnabled := params.Secrets.HoneycombEnabled

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: tracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("hoosfit", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})
	if tracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown := func() {}
	if tracingEnabled {
		// use honeycomb distro to setup OpenTelemetry SDK
		otelShutdown, err = tracing.HoneycombSetup(params.Secrets.OtelServiceName)
		if err != nil {
			return nil, err
		}
	}

	views, err := web.NewViews()
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}

	clock := fitness.NewClock(cfg.Location())
	authService := auth.NewService(cfg.SessionTTL(), rdb)

	exerciseRepo := exercises.NewRepo(dbPool)
	profilesService := profiles.NewService(profiles.NewRepo(dbPool), clock, cfg.LeaderboardCacheTTL())
	workoutsService := workouts.NewService(
		workouts.NewRepo(dbPool),
		exerciseRepo,
		workouts.NewPgLogStore(dbPool),
		profilesService,
		clock,
	)

	handler := web.NewHandler(web.HandlerParams{
		Accounts:      accounts.NewService(accounts.NewRepo(dbPool), profilesService),
		Sessions:      authService,
		Profiles:      profilesService,
		Exercises:     exercises.NewService(exerciseRepo, clock),
		Workouts:      workoutsService,
		Awards:        awards.NewRepo(dbPool),
		Quotes:        motivation.NewDefaultQuotesManager(),
		Views:         views,
		Metrics:       metricsManager,
		SessionTTL:    cfg.SessionTTL(),
		SecureCookies: cfg.Environment == "production",
	})

	return &Server{
		config:  cfg,
		dbPool:  dbPool,
		handler: handler,

		redisClient:    rdb,
		authService:    authService,
		sessionChecker: auth.NewLoginChecker(cfg.SessionTTL(), rdb),
		rateLimiter:    redis_rate.NewLimiter(rdb),

		profilesService: profilesService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessionChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(authMiddleware.Authenticate())
	r.Use(middleware.DrainAndCloseRequest())

	s.handler.SetupRoutes(r, authMiddleware, s.rateLimiter, s.config.LoginRateLimitAllowedPerMin)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return r
}

func (s *Server) metricsRouterSetup() *mux.Router {
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	return metricsRouter
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: s.metricsRouterSetup(),
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.startBackgroundJobs(ctx)
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) startBackgroundJobs(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	s.bgCancel = cancel

	s.runEvery(bgCtx, "sessions cleanup", sessionsCleanupEvery, func(ctx context.Context) {
		removed := s.authService.ScanAndClean(ctx, time.Now())
		log.Debugf("sessions cleanup: %d removed", removed)
	})

	decayEvery, err := s.config.StreakDecayEvery()
	if err != nil {
		log.Errorf("streak decay disabled: %s", err)
		return
	}
	if decayEvery == 0 {
		log.Debugln("periodic streak decay disabled")
		return
	}
	s.runEvery(bgCtx, "streak decay", decayEvery, s.decayStreaks)
}

func (s *Server) decayStreaks(ctx context.Context) {
	reset, err := s.profilesService.DecayStreaks(ctx)
	if err != nil {
		log.Errorf("streak decay: %s", err)
		return
	}
	s.metricsManager.CounterStreaksDecayed.Add(float64(reset))
	log.Debugf("streak decay: %d streaks reset", reset)
}

// runEvery runs job on a ticker until ctx is done.
func (s *Server) runEvery(ctx context.Context, name string, every time.Duration, job func(ctx context.Context)) {
	s.bgWg.Add(1)
	go func() {
		defer s.bgWg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Debugf("background job [%s] stopped", name)
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.bgCancel != nil {
		s.bgCancel()
		s.bgWg.Wait()
		log.Trace("background jobs stopped ...")
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
