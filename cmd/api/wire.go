package main

import (
	"context"
	"log/slog"

	"github.com/vpsdeck/vpsdeck/cmd/api/api"
	"github.com/vpsdeck/vpsdeck/cmd/api/config"
	"github.com/vpsdeck/vpsdeck/lib/notify"
	"github.com/vpsdeck/vpsdeck/lib/provider"
	"github.com/vpsdeck/vpsdeck/lib/providers"
	"go.opentelemetry.io/otel/metric"
)

// application struct to hold initialized components
type application struct {
	Ctx        context.Context
	Logger     *slog.Logger
	Config     *config.Config
	Notifier   *notify.Center
	Registry   *provider.Registry
	Accounts   *provider.AccountManager
	ApiService *api.ApiService
}

// initializeApp builds the dependency graph from the providers
// package, in constructor order.
func initializeApp(cfg *config.Config, meter metric.Meter) *application {
	log := providers.ProvideLogger(cfg)
	ctx := providers.ProvideContext(log)
	notifier := providers.ProvideNotifier(cfg)
	metrics := providers.ProvideVendorMetrics(meter, log)
	registry := providers.ProvideRegistry(notifier, metrics)
	accounts := providers.ProvideAccountManager(cfg, registry, log)
	apiService := api.New(cfg, registry, accounts, notifier)

	return &application{
		Ctx:        ctx,
		Logger:     log,
		Config:     cfg,
		Notifier:   notifier,
		Registry:   registry,
		Accounts:   accounts,
		ApiService: apiService,
	}
}
