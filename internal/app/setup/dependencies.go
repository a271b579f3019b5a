package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/redislock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.SettlementConfig
	Logger    *slog.Logger
	DB        *gorm.DB
	Store     domain.Store
	Ratings   domain.RatingSource
	Publisher domain.PublisherPort
	Locker    domain.Locker
	Registry  *prometheus.Registry
	Metrics   *metrics.SettlementMetrics

	closers []func() error
}

func InitializeDependencies(ctx context.Context, cfg *config.SettlementConfig, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}

	if err := deps.initStore(); err != nil {
		return nil, err
	}
	if err := deps.initLocker(ctx); err != nil {
		deps.Close()
		return nil, err
	}
	deps.initPublisher()

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewSettlementMetrics(deps.Registry)
	return deps, nil
}

func (d *Dependencies) initStore() error {
	if d.Config.Dsn == "" {
		d.Logger.Warn("settlement_db.dsn is empty, using in-memory store", "env", d.Config.Env)
		d.Store = memory.NewStore()
		d.Ratings = memory.NewStaticRatingSource(nil)
		return nil
	}

	db := postgres.MustInitDB(d.Config)
	d.DB = db
	d.closers = append(d.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	if err := migrate.RunMigrations(db, d.Config.MigrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	d.Store = repository.NewStore(db)
	d.Ratings = repository.NewShopRatingRepository(db)
	return nil
}

func (d *Dependencies) initLocker(ctx context.Context) error {
	if d.Config.Redis.Addr == "" {
		d.Logger.Warn("redis.addr is empty, commission locks are process-local")
		d.Locker = memory.NewKeyedLocker()
		return nil
	}
	client := redislock.NewClient(d.Config.Redis.Addr, d.Config.Redis.Password, d.Config.Redis.DB)
	d.closers = append(d.closers, client.Close)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", d.Config.Redis.Addr, err)
	}
	d.Locker = redislock.NewLocker(client, d.Config.LockTTL)
	return nil
}

func (d *Dependencies) initPublisher() {
	if len(d.Config.KafkaService.Brokers) == 0 {
		d.Logger.Warn("kafka brokers are not configured, domain events are not published")
		return
	}
	pub := kafka.NewKafkaPublisher(kafka.PublisherConfig{
		Brokers:      d.Config.KafkaService.Brokers,
		TopicPrefix:  d.Config.KafkaService.TopicPrefix,
		Async:        d.Config.KafkaService.Async,
		BatchSize:    d.Config.KafkaService.BatchSize,
		WriteTimeout: d.Config.KafkaService.WriteTimeout,
	})
	d.closers = append(d.closers, pub.Close)
	d.Publisher = pub
}

// Close releases resources in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
