// Package app wires configuration into the collaborators shared by the
// server and the report CLI.
package app

import (
	"context"
	"fmt"

	"order-analytics/config"
	"order-analytics/internal/api"
	"order-analytics/internal/broker"
	"order-analytics/internal/dataset"
	"order-analytics/internal/loader"
	"order-analytics/internal/redisclient"
	"order-analytics/internal/service"
	"order-analytics/internal/store"
	"order-analytics/internal/util"

	"go.uber.org/zap"
)

// Deps holds the optional external collaborators. A nil field means the
// collaborator is disabled by configuration.
type Deps struct {
	Store     *store.Store
	Redis     *redisclient.Client
	Producer  *broker.Producer
	publisher *broker.EventPublisher
}

// Open connects to every collaborator the configuration enables
func Open(cfg *config.Config) (*Deps, error) {
	logger := util.GetLogger()
	deps := &Deps{}

	switch cfg.Data.Source {
	case config.DataSourceCSV:
	case config.DataSourcePostgres:
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		deps.Store = db
		logger.Info("Database connected")
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	if cfg.Redis.Addr != "" {
		rc, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Redis = rc
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		deps.Producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicSegments)
		deps.publisher = broker.NewEventPublisher(deps.Producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	return deps, nil
}

// Close releases every open collaborator
func (d *Deps) Close() {
	logger := util.GetLogger()
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			logger.Warn("Error closing producer", zap.Error(err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Warn("Error closing redis", zap.Error(err))
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			logger.Warn("Error closing database", zap.Error(err))
		}
	}
}

// Cache returns the report cache, or nil when caching is disabled
func (d *Deps) Cache() service.Cache {
	if d.Redis == nil {
		return nil
	}
	return d.Redis
}

// Publisher returns the segment publisher, or nil when events are disabled
func (d *Deps) Publisher() service.SegmentPublisher {
	if d.publisher == nil {
		return nil
	}
	return d.publisher
}

// ReadinessChecks returns a check per connected collaborator
func (d *Deps) ReadinessChecks() map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{}
	if d.Store != nil {
		checks["postgres"] = d.Store.Ping
	}
	if d.Redis != nil {
		checks["redis"] = d.Redis.Ping
	}
	return checks
}

// Source returns the tabular source the configuration selects
func Source(cfg *config.Config, d *Deps) (loader.Source, error) {
	switch cfg.Data.Source {
	case config.DataSourceCSV:
		return loader.NewCSVSource(cfg.Data.Dir), nil
	case config.DataSourcePostgres:
		if d == nil || d.Store == nil {
			return nil, fmt.Errorf("postgres source selected but no database is connected")
		}
		return d.Store, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// Options maps the analytics configuration onto dataset options
func Options(cfg *config.Config) dataset.Options {
	opts := dataset.DefaultOptions()
	if !cfg.Analytics.CleanOrders {
		opts.Rules.Orders = nil
	}
	if !cfg.Analytics.CleanProducts {
		opts.Rules.Products = nil
	}
	opts.Daily.Dense = cfg.Analytics.Dense
	if cfg.Analytics.TopN > 0 {
		opts.TopN = cfg.Analytics.TopN
	}
	return opts
}

// Settings maps the configuration onto report service settings
func Settings(cfg *config.Config) service.Settings {
	return service.Settings{
		CacheTTL:  cfg.Redis.TTL,
		Reference: cfg.Analytics.ReferenceDate,
	}
}

// LoadDataset builds the dataset from the configured source
func LoadDataset(ctx context.Context, cfg *config.Config, d *Deps) (*dataset.Dataset, error) {
	src, err := Source(cfg, d)
	if err != nil {
		return nil, err
	}
	return dataset.Build(ctx, src, Options(cfg))
}
