// Command server runs the blood bank HTTP API and the gRPC health endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	adminhandler "nss-bloodbank/backend/internal/admin/handler"
	"nss-bloodbank/backend/internal/audit"
	requesthandler "nss-bloodbank/backend/internal/bloodrequest/handler"
	requestservice "nss-bloodbank/backend/internal/bloodrequest/service"
	"nss-bloodbank/backend/internal/config"
	contacthandler "nss-bloodbank/backend/internal/contact/handler"
	contactservice "nss-bloodbank/backend/internal/contact/service"
	"nss-bloodbank/backend/internal/devotp"
	donationhandler "nss-bloodbank/backend/internal/donation/handler"
	donorhandler "nss-bloodbank/backend/internal/donor/handler"
	donorservice "nss-bloodbank/backend/internal/donor/service"
	eventhandler "nss-bloodbank/backend/internal/event/handler"
	healthhandler "nss-bloodbank/backend/internal/health/handler"
	identityhandler "nss-bloodbank/backend/internal/identity/handler"
	identityservice "nss-bloodbank/backend/internal/identity/service"
	"nss-bloodbank/backend/internal/logging"
	"nss-bloodbank/backend/internal/otp"
	otphandler "nss-bloodbank/backend/internal/otp/handler"
	otprepo "nss-bloodbank/backend/internal/otp/repository"
	"nss-bloodbank/backend/internal/server"
	"nss-bloodbank/backend/internal/server/middleware"
	"nss-bloodbank/backend/internal/session"
	"nss-bloodbank/backend/internal/telemetry"
	otelsetup "nss-bloodbank/backend/internal/telemetry/otel"
	"nss-bloodbank/backend/internal/telemetry/producer"
)

const (
	serviceName        = "bloodbank-server"
	shutdownTimeout    = 10 * time.Second
	healthSyncInterval = 15 * time.Second
	otpSweepInterval   = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var providers *otelsetup.Providers
	if cfg.OTLPEndpoint != "" {
		providers, err = otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		providers.SetGlobal()
		logger.Info("otel: exporting", zap.String("endpoint", cfg.OTLPEndpoint))
	}

	var emitters telemetry.Multi
	if providers != nil {
		emitters = append(emitters, otelsetup.NewEventEmitter(providers.LoggerProvider))
	}
	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if kafkaProducer != nil {
		defer func() { _ = kafkaProducer.Close() }()
		emitters = append(emitters, kafkaProducer)
		logger.Info("kafka: publishing events", zap.String("topic", cfg.EventsKafkaTopic))
	}
	var emitter telemetry.EventEmitter
	if len(emitters) > 0 {
		emitter = emitters
	}

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	auditLogger := audit.NewLogger(repos.audit, middleware.ClientIPFrom, logger)

	tokens, err := newTokenProvider(cfg, logger)
	if err != nil {
		return err
	}
	secret, err := sessionSecret(cfg, logger)
	if err != nil {
		return err
	}
	cookies := session.NewCookies(session.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secret: secret,
		MaxAge: cfg.SessionTTL(),
		Secure: cfg.IsProduction(),
	})

	var dev *devotp.MemoryStore
	if cfg.OTPReturnToClient {
		dev = devotp.NewMemoryStore()
		logger.Warn("otp: dev mode enabled, codes are readable at /dev/otp")
	}
	challenges := otprepo.NewMemoryRepository()
	go challenges.SweepEvery(ctx, otpSweepInterval, func(n int) {
		if n > 0 {
			logger.Debug("otp: expired challenges swept", zap.Int("count", n))
		}
	})
	gate := otp.NewGate(challenges, newOTPSender(cfg, dev, logger), otp.Options{
		TTL:            cfg.OTPChallengeTTL(),
		MaxAttempts:    cfg.OTPMaxAttempts,
		ResendInterval: cfg.OTPResendWait(),
	}, logger)

	backend, err := newBackend(cfg, repos.users)
	if err != nil {
		return err
	}
	auth := identityservice.NewAuthService(backend, gate, tokens, auditLogger, logger)

	routeGuard, err := newGuard(ctx, cfg, logger)
	if err != nil {
		return err
	}
	var pinger healthhandler.Pinger
	if repos.db != nil {
		pinger = repos.db
	}
	checker := healthhandler.NewChecker(pinger, routeGuard, logger)

	delay := cfg.SubmissionDelayDuration()
	var otpHandler *otphandler.Handler
	if dev != nil {
		otpHandler = otphandler.New(gate, dev)
	} else {
		otpHandler = otphandler.New(gate, nil)
	}
	router := server.NewRouter(server.Deps{
		Logger:      logger,
		Cookies:     cookies,
		Tokens:      tokens,
		TrustProxy:  cfg.TrustProxy,
		Emitter:     emitter,
		AuditLogger: auditLogger,
		Guard:       routeGuard,
		DevOTP:      dev != nil,
		Auth:        identityhandler.NewAuthHandler(auth, cfg.IsProduction(), logger),
		OTP:         otpHandler,
		Donors:      donorhandler.New(repos.donors, donorservice.NewRegistrationService(repos.donors, gate, emitter, logger), logger),
		Requests:    requesthandler.New(requestservice.New(repos.requests, emitter, delay, logger), logger),
		Events:      eventhandler.New(repos.events, logger),
		Donations:   donationhandler.New(repos.donations, logger),
		Contact:     contacthandler.New(contactservice.New(repos.contact, emitter, delay, logger), logger),
		Admin: adminhandler.New(adminhandler.Sources{
			Donors:    repos.donors,
			Users:     repos.users,
			Requests:  repos.requests,
			Events:    repos.events,
			Donations: repos.donations,
			Audit:     repos.audit,
		}, logger),
		Health: checker,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	errCh := make(chan error, 2)
	go func() {
		logger.Info("http: listening", zap.String("addr", cfg.HTTPAddr), zap.String("auth_backend", cfg.AuthBackend))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var stopGRPC func()
	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv, hs := server.NewHealthServer(logger)
		go checker.Sync(ctx, hs, healthSyncInterval)
		go func() {
			logger.Info("grpc: health listening", zap.String("addr", cfg.GRPCHealthAddr))
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
		stopGRPC = grpcSrv.GracefulStop
	}

	select {
	case <-ctx.Done():
		logger.Info("server: shutting down")
	case err := <-errCh:
		logger.Error("server: listener failed", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http: shutdown", zap.Error(err))
	}
	if stopGRPC != nil {
		stopGRPC()
	}
	if emitter != nil {
		time.Sleep(telemetry.ShutdownDrainDuration)
	}
	if providers != nil {
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel: shutdown", zap.Error(err))
		}
	}
	logger.Info("server: stopped")
	return nil
}
