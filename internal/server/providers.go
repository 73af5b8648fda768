package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fbts/job-offer/internal/config"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStructureProvider builds the salary structure source described by cfg:
// a Frappe site when a URL is configured, otherwise the structures of a
// job-offer configuration file, otherwise an empty catalog. A configured
// Redis address puts a read-through cache in front. The returned function
// releases the provider's resources.
func NewStructureProvider(ctx context.Context, logger *zap.Logger, cfg *Config) (structure.Provider, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	var provider structure.Provider
	switch {
	case cfg.Frappe.URL != "":
		var opts []structure.FrappeOption
		if cfg.Frappe.Method != "" {
			opts = append(opts, structure.WithMethod(cfg.Frappe.Method))
		}
		if cfg.Frappe.Timeout > 0 {
			opts = append(opts, structure.WithHTTPClient(&http.Client{Timeout: cfg.Frappe.Timeout}))
		}
		provider = structure.NewFrappeClient(logger, cfg.Frappe.URL, cfg.Frappe.APIKey, cfg.Frappe.APISecret, opts...)
		logger.Info("serving salary structures from frappe",
			zap.String("op", "server.NewStructureProvider"),
			zap.String("url", cfg.Frappe.URL),
		)
	case cfg.StructuresFile != "":
		conf, err := config.LoadConfiguration(cfg.StructuresFile)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load structures: %w", err)
		}
		for _, warning := range conf.ValidateConfiguration() {
			logger.Warn(warning, zap.String("op", "server.NewStructureProvider"))
		}
		provider = structure.NewCatalog(conf.Structures)
		logger.Info("serving salary structures from file",
			zap.String("op", "server.NewStructureProvider"),
			zap.String("file", cfg.StructuresFile),
			zap.Int("structures", len(conf.Structures)),
		)
	default:
		provider = structure.NewCatalog(nil)
	}

	if cfg.Redis.Addr == "" {
		return provider, noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("salary structure cache unreachable, lookups will fall through",
			zap.String("op", "server.NewStructureProvider"),
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
	}
	return structure.NewCache(logger, client, provider, cfg.Redis.CacheTTL), client.Close, nil
}
