package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cargotrace-backend/internal/adapter/authority"
	httpadp "cargotrace-backend/internal/adapter/http"
	"cargotrace-backend/internal/adapter/middleware"
	"cargotrace-backend/internal/adapter/repository/mysql"
	"cargotrace-backend/internal/adapter/stream"
	"cargotrace-backend/internal/config"
	domainVerification "cargotrace-backend/internal/domain/verification"
	"cargotrace-backend/internal/infrastructure/cache"
	"cargotrace-backend/internal/infrastructure/db"
	"cargotrace-backend/internal/infrastructure/logger"
	customsUC "cargotrace-backend/internal/usecase/customs"
	docUC "cargotrace-backend/internal/usecase/document"
	ledgerUC "cargotrace-backend/internal/usecase/ledger"
	loanUC "cargotrace-backend/internal/usecase/loan"
	"cargotrace-backend/internal/usecase/repayment"
	"cargotrace-backend/internal/usecase/transfer"
	"cargotrace-backend/internal/usecase/verification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.DefaultConfig())
		boot.Fatal("load config", zap.Error(err))
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stdout"})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(),
		db.WithLogger(logger.NewGormLogger(log.Named("gorm"), logger.GormLevel(cfg.LogLevel))))
	if err != nil {
		return err
	}
	if err := mysql.Migrate(ctx, gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB,
		cache.WithPassword(cfg.RedisPass), cache.WithPoolSize(cfg.RedisPoolSize))
	if err != nil {
		return err
	}
	defer rdb.Close()

	tx := mysql.NewGormUoW(gdb)
	docRepo := mysql.NewDocumentRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)

	ledger := ledgerUC.NewUsecase(mysql.NewLedgerRepository(gdb), tx, log)
	if _, err := ledger.Seed(ctx, int64(cfg.LedgerSeedBalance)); err != nil {
		return err
	}

	docs := docUC.NewUsecase(docRepo, tx, log)
	customs := customsUC.NewUsecase(mysql.NewCustomsRepository(gdb), docRepo, tx, log)
	verifier := verification.NewUsecase(customs, newAuthority(cfg),
		verification.WithCache(cache.NewValidationCache(rdb, time.Duration(cfg.AuthorityCacheTTLSecs)*time.Second)),
		verification.WithTimeout(cfg.AuthorityTimeout),
		verification.WithLogger(log))
	loans := loanUC.NewUsecase(loanRepo, mysql.NewApprovalRepository(gdb), tx,
		loanUC.WithInterestRate(cfg.LoanInterestRate),
		loanUC.WithLogger(log))
	repayments := repayment.NewUsecase(loanRepo, mysql.NewPaymentRepository(gdb), tx, log)
	transfers := transfer.NewUsecase(mysql.NewTransferRepository(gdb), log)

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	health := httpadp.NewHandler(
		httpadp.HealthCheck{Name: "mysql", Check: sqlDB.PingContext},
		httpadp.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestLogger(log))
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:    health,
		Documents: httpadp.NewDocumentHandler(docs),
		Customs:   httpadp.NewCustomsHandler(customs, verifier),
		Loans:     httpadp.NewLoanHandler(loans),
		Payments:  httpadp.NewPaymentHandler(repayments),
		Ledger:    httpadp.NewLedgerHandler(ledger),
		Transfers: httpadp.NewTransferHandler(transfers),
	}, middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log.Named("idempotency")))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.KafkaEnabled() {
		client, err := stream.NewKafkaClient(stream.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Group:   cfg.KafkaGroup,
		})
		if err != nil {
			return err
		}
		consumer := stream.NewConsumer(client, stream.NewHandler(transfers, log), log.Named("kafka"))
		g.Go(func() error {
			log.Info("consuming transfer events", zap.String("topic", cfg.KafkaTopic))
			return consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return e.Shutdown(sctx)
	})

	return g.Wait()
}

func newAuthority(cfg *config.Config) domainVerification.Authority {
	if cfg.AuthorityMode == config.AuthorityHTTP {
		return authority.NewHTTPAuthority(cfg.AuthorityBaseURL, &http.Client{Timeout: 2 * cfg.AuthorityTimeout})
	}
	return authority.NewStaticAuthority()
}
