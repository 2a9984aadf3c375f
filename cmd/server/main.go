package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"kycdid/internal/identity/credential"
	"kycdid/internal/identity/keys"
	"kycdid/internal/identity/store"
	jwttoken "kycdid/internal/jwt_token"
	kycmetrics "kycdid/internal/kyc/metrics"
	"kycdid/internal/kyc/service"
	"kycdid/internal/kyc/verifier"
	"kycdid/internal/ledger"
	"kycdid/internal/ledger/evm"
	"kycdid/internal/ledger/simulated"
	"kycdid/internal/platform/config"
	"kycdid/internal/platform/database"
	"kycdid/internal/platform/health"
	"kycdid/internal/platform/kafka/consumer"
	"kycdid/internal/platform/kafka/producer"
	"kycdid/internal/platform/logger"
	"kycdid/internal/platform/metrics"
	"kycdid/internal/platform/redis"
	"kycdid/internal/platform/tracer"
	httptransport "kycdid/internal/transport/http"
	"kycdid/pkg/platform/audit"
	auditconsumer "kycdid/pkg/platform/audit/consumer"
	auditmetrics "kycdid/pkg/platform/audit/metrics"
	auditpublisher "kycdid/pkg/platform/audit/publisher"
	kafkastore "kycdid/pkg/platform/audit/store/kafka"
	memorystore "kycdid/pkg/platform/audit/store/memory"
	pgauditstore "kycdid/pkg/platform/audit/store/postgres"
	"kycdid/pkg/platform/circuit"
	"kycdid/pkg/platform/middleware/request"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing kycdid",
		"addr", cfg.Addr,
		"regulated_mode", cfg.RegulatedMode,
		"ledger_mode", cfg.Ledger.Mode,
		"verifier_mode", cfg.Verifier.Mode,
		"did_namespace", cfg.DIDNamespace,
		"bind_freshness", cfg.DIDBindFreshness,
	)

	reg := metrics.NewRegistry()
	checks := health.New(cfg.Environment)
	trace := tracer.NewOTel()

	client := buildLedgerClient(cfg.Ledger)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("ledger disconnect failed", "error", err)
		}
	}()
	checks.Add(health.CheckFunc{Label: "ledger", Fn: func(ctx context.Context) error {
		_, err := client.CurrentLedgerIndex(ctx)
		return err
	}})

	var db *sql.DB
	if cfg.Storage.DatabaseURL != "" {
		pool, err := database.Open(ctx, database.DefaultConfig(cfg.Storage.DatabaseURL), reg)
		if err != nil {
			return err
		}
		defer pool.Close() //nolint:errcheck
		checks.Add(pool)
		db = pool.DB()
	}

	auditStore, closeAudit, err := buildAuditStore(cfg.Kafka, db, log, checks)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditor := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(1024),
		auditpublisher.WithPublisherLogger(log),
		auditpublisher.WithMetrics(auditmetrics.New(reg)),
	)
	defer auditor.Close()

	registrations, closeCache, err := buildRegistrationStore(ctx, cfg.Storage, db, reg, log, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher := ledger.NewPublisher(client, ledger.Config{
		ExplorerURL:    cfg.Ledger.ExplorerURL,
		MinBalance:     big.NewInt(cfg.Ledger.MinBalance),
		FundTimeout:    cfg.Ledger.FundingTimeout,
		ConfirmTimeout: cfg.Ledger.ConfirmTimeout,
	}, ledger.WithLogger(log), ledger.WithTracer(trace))

	svc := service.New(
		buildVerifier(cfg.Verifier, log),
		keys.NewDeriver(keys.WithNamespace(cfg.DIDNamespace), keys.WithFreshness(cfg.DIDBindFreshness)),
		credential.NewIssuer(cfg.IssuerDID),
		publisher,
		service.WithLogger(log),
		service.WithTracer(trace),
		service.WithMetrics(kycmetrics.New(reg)),
		service.WithAuditPublisher(auditor),
	)

	handler := httptransport.New(svc, registrations,
		jwttoken.NewProofSigner(cfg.JWTSigningKey, cfg.IssuerDID, cfg.ProofTokenTTL),
		httptransport.WithLogger(log),
		httptransport.WithRegulatedMode(cfg.RegulatedMode),
	)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:   log,
		Health:   checks,
		Gatherer: reg,
		Metrics:  request.NewMetrics(reg),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Completion waits for funding and ledger validation.
		WriteTimeout: cfg.Ledger.FundingTimeout + cfg.Ledger.ConfirmTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(cfg.Kafka.Brokers) > 0 && db != nil {
		projector, err := consumer.New(consumer.Config{
			Brokers: strings.Join(cfg.Kafka.Brokers, ","),
			GroupID: cfg.Kafka.AuditGroup,
			Topics:  []string{cfg.Kafka.AuditTopic},
		}, auditconsumer.NewHandler(pgauditstore.New(db), log), log)
		if err != nil {
			return err
		}
		defer projector.Close()
		checks.Add(projector)
		g.Go(func() error {
			log.Info("projecting audit topic into postgres", "topic", cfg.Kafka.AuditTopic, "group", cfg.Kafka.AuditGroup)
			return projector.Run(gctx)
		})
	}
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildLedgerClient(cfg config.Ledger) ledger.Client {
	if cfg.Mode == config.LedgerEVM {
		return evm.New(evm.Config{
			RPCURL:    cfg.RPCURL,
			FaucetURL: cfg.FaucetURL,
			ChainID:   big.NewInt(cfg.ChainID),
		})
	}
	return simulated.New()
}

func buildVerifier(cfg config.Verifier, log *slog.Logger) verifier.Backend {
	if cfg.Mode == config.VerifierHTTP {
		return verifier.NewHTTP(verifier.HTTPConfig{
			ID:      "http",
			BaseURL: cfg.URL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
			Breaker: circuit.New("verifier"),
			Logger:  log,
		})
	}
	return verifier.NewSimulated(verifier.WithDelay(cfg.SimulatedDelay))
}

// buildAuditStore prefers Kafka, then Postgres, then memory.
func buildAuditStore(cfg config.Kafka, db *sql.DB, log *slog.Logger, checks *health.Handler) (audit.Store, func(), error) {
	switch {
	case len(cfg.Brokers) > 0:
		p, err := producer.New(producer.Config{
			Brokers:         strings.Join(cfg.Brokers, ","),
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		checks.Add(p)
		return kafkastore.New(p, cfg.AuditTopic), func() { _ = p.Close() }, nil
	case db != nil:
		return pgauditstore.New(db), func() {}, nil
	default:
		return memorystore.NewInMemoryStore(), func() {}, nil
	}
}

// buildRegistrationStore uses Postgres when db is set and puts the Redis cache
// in front when REDIS_URL is set.
func buildRegistrationStore(ctx context.Context, cfg config.Storage, db *sql.DB, reg prometheus.Registerer, log *slog.Logger, checks *health.Handler) (store.Store, func(), error) {
	var st store.Store = store.NewInMemory()
	if db != nil {
		st = store.NewPostgres(db)
	}
	if cfg.RedisURL == "" {
		return st, func() {}, nil
	}

	rc, err := redis.Open(ctx, cfg.RedisURL, reg)
	if err != nil {
		return nil, nil, err
	}
	statsCtx, cancel := context.WithCancel(ctx)
	go rc.RunPoolStats(statsCtx, 15*time.Second)
	checks.Add(rc)
	closeCache := func() {
		cancel()
		_ = rc.Close()
	}
	return store.NewCached(st, rc, cfg.CacheTTL, log), closeCache, nil
}
