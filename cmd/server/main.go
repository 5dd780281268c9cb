// Command server runs the rolodex HTTP API.
//
// Dependency wiring follows the configuration: an empty ROLODEX_POSTGRES_DSN
// selects the in-memory stores, an empty ROLODEX_REDIS_URL disables the record
// cache, and empty ROLODEX_KAFKA_BROKERS keeps audit events store-only.
// Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"rolodex/internal/audit"
	"rolodex/internal/directory/cache"
	"rolodex/internal/directory/handler"
	"rolodex/internal/directory/models"
	"rolodex/internal/directory/service"
	customerstore "rolodex/internal/directory/store/customer"
	invoicestore "rolodex/internal/directory/store/invoice"
	phonestore "rolodex/internal/directory/store/phone"
	"rolodex/internal/platform/config"
	"rolodex/internal/platform/httpserver"
	"rolodex/internal/platform/logger"
	"rolodex/internal/platform/metrics"
	"rolodex/internal/platform/postgres"
	redisclient "rolodex/internal/platform/redis"
	httptransport "rolodex/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		customers  service.CustomerStore
		invoices   service.InvoiceStore
		phones     service.PhoneStore
		auditStore audit.Store
		checks     []httptransport.HealthCheck
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		customers = customerstore.NewPostgres(db)
		invoices = invoicestore.NewPostgres(db)
		phones = phonestore.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
		log.Info("using postgres stores")
	} else {
		customers = customerstore.NewInMemory()
		invoices = invoicestore.NewInMemory()
		phones = phonestore.NewInMemory()
		auditStore = audit.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafka(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		auditOpts = append(auditOpts, audit.WithSink(sink))
		log.Info("audit events streaming to kafka", "topic", cfg.KafkaAuditTopic)
	}
	publisher := audit.NewPublisher(auditStore, auditOpts...)

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
		service.WithValidation(cfg.Validation),
	}

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		svcOpts = append(svcOpts,
			service.WithCustomerCache(cache.New[models.Customer](rdb.Client, models.KindCustomer, cfg.CacheTTL)),
			service.WithInvoiceCache(cache.New[models.Invoice](rdb.Client, models.KindInvoice, cfg.CacheTTL)),
			service.WithPhoneCache(cache.New[models.TelephoneNumber](rdb.Client, models.KindPhoneNumber, cfg.CacheTTL)),
		)
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: rdb.Health})
		log.Info("record cache enabled", "ttl", cfg.CacheTTL)
	}

	svc := service.New(customers, invoices, phones, svcOpts...)

	if cfg.SeedDemoData {
		if err := svc.SeedDemoData(ctx); err != nil {
			return err
		}
	}

	router := httptransport.NewRouter(handler.New(svc, log), log, m, checks...)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rolodex", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
