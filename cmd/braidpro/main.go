package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"braidpro/internal/booking"
	"braidpro/internal/handlers"
	"braidpro/internal/outbox"
	"braidpro/internal/schedule"
	"braidpro/internal/storage"
	"braidpro/internal/wizard"
	"braidpro/libs/config"
	"braidpro/libs/db"
	"braidpro/libs/httpx"
	"braidpro/libs/kafkax"
	otelx "braidpro/libs/otel"
	"braidpro/libs/redisx"
	"braidpro/libs/runtime"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "braidpro")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	loc, err := time.LoadLocation(config.String("PROVIDER_TZ", "America/Sao_Paulo"))
	if err != nil {
		logger.Error("invalid PROVIDER_TZ; falling back to local", "err", err)
		loc = time.Local
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{MaxConns: int32(config.Int("DB_MAX_CONNS", 10))})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	rdb, err := redisx.Open(ctx, config.String("REDIS_URL", "redis://localhost:6379/0"))
	if err != nil {
		logger.Error("redis connection failed", "err", err)
		panic(err)
	}
	defer func() { _ = rdb.Close() }()

	repo := storage.NewPostgresRepository(pool)
	schedStore := schedule.NewPostgresStore(pool)

	outboxRepo := outbox.NewRepository(pool)
	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	var sink booking.EventSink = booking.NopSink{}
	if kafkaBrokers != "" {
		sink = outbox.NewSink(outboxRepo, logger)
		publisher := outbox.NewPublisher(outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   kafkaBrokers,
			PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
		})
		go publisher.Run(ctx)
	}

	engine := booking.NewEngine(repo, schedStore, sink, booking.NewRedisTokenStore(rdb),
		booking.WithLocation(loc))
	wiz := wizard.New(engine, schedStore, wizard.NewRedisSessionStore(rdb),
		wizard.WithLocation(loc))

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
		{Name: "redis", Check: redisx.ReadyCheck(rdb)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMux(readyChecks...)

	handlers.NewAgendaHandler(engine, repo, logger).Register(mux)
	handlers.NewSettingsHandler(schedStore, schedStore, logger).Register(mux)

	publicMux := http.NewServeMux()
	handlers.NewPublicHandler(wiz, logger).Register(publicMux)
	publicLimiter := httpx.NewRedisRateLimiter(rdb,
		config.Int("PUBLIC_RATE_LIMIT", 60),
		config.Duration("PUBLIC_RATE_WINDOW", time.Minute),
		"public")
	mux.Handle("/public/", httpx.Chain(publicMux,
		publicLimiter.Middleware(logger, true),
	))

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(strings.Split(config.String("CORS_ALLOWED_ORIGINS", ""), ",")),
		httpx.WithBodyLimit(1<<20),
	)
	wrapped := otelhttp.NewHandler(handler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           wrapped,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
