// Package providers wires the application's dependency graph.
package providers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vpsdeck/vpsdeck/cmd/api/config"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/bandwagon"
	"github.com/vpsdeck/vpsdeck/lib/digitalocean"
	"github.com/vpsdeck/vpsdeck/lib/logger"
	"github.com/vpsdeck/vpsdeck/lib/notify"
	"github.com/vpsdeck/vpsdeck/lib/provider"
	"github.com/vpsdeck/vpsdeck/lib/vultr"
	"go.opentelemetry.io/otel/metric"
)

// ProvideLogger provides a structured logger
func ProvideLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logger.New(level)
}

// ProvideContext provides a context with logger attached
func ProvideContext(log *slog.Logger) context.Context {
	return logger.AddToContext(context.Background(), log)
}

// ProvideConfig provides the application configuration
func ProvideConfig() *config.Config {
	return config.Load()
}

// ProvideNotifier provides the in-process notification center
func ProvideNotifier(cfg *config.Config) *notify.Center {
	return notify.NewCenter(cfg.NotificationLimit)
}

// ProvideVendorMetrics provides the shared vendor request metrics.
// Returns nil (a valid no-op) when instrument creation fails.
func ProvideVendorMetrics(meter metric.Meter, log *slog.Logger) *agent.Metrics {
	m, err := agent.NewMetrics(meter)
	if err != nil {
		log.Warn("vendor metrics disabled", "error", err)
		return nil
	}
	return m
}

// ProvideRegistry provides the provider registry with every supported
// vendor registered.
func ProvideRegistry(notifier agent.Notifier, metrics *agent.Metrics) *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(vultr.NewProvider(notifier, metrics))
	registry.Register(bandwagon.NewProvider(notifier, metrics))
	registry.Register(digitalocean.NewProvider(notifier, metrics))
	return registry
}

// ProvideAccountManager provides the account manager, seeded with the
// credentials supplied through configuration. A credential that fails
// to construct is logged and skipped so one bad key does not take the
// process down.
func ProvideAccountManager(cfg *config.Config, registry *provider.Registry, log *slog.Logger) *provider.AccountManager {
	m := provider.NewAccountManager(registry)

	seed := func(providerId string, cred agent.Credential) {
		if _, err := m.Add(providerId, cred); err != nil {
			log.Warn("skipping configured account", "provider", providerId, "error", err)
		}
	}

	if cfg.VultrAPIKey != "" {
		seed(vultr.ProviderId, agent.Credential{Key: cfg.VultrAPIKey})
	}
	for _, cred := range cfg.BandwagonAccounts {
		seed(bandwagon.ProviderId, agent.Credential{Key: cred})
	}
	if cfg.DigitalOceanToken != "" {
		seed(digitalocean.ProviderId, agent.Credential{Key: cfg.DigitalOceanToken})
	}
	return m
}
