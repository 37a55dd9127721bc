package bandwagon

import (
	"context"
	"fmt"

	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

// Provider is the static BandwagonHost descriptor. No deploy feature:
// KiwiVM manages existing services only, new ones are bought on the
// website.
type Provider struct {
	notifier agent.Notifier
	metrics  *agent.Metrics
}

var _ provider.Provider = (*Provider)(nil)

// NewProvider creates the descriptor; notifier and metrics may be nil.
func NewProvider(notifier agent.Notifier, metrics *agent.Metrics) *Provider {
	if notifier == nil {
		notifier = agent.NopNotifier{}
	}
	return &Provider{notifier: notifier, metrics: metrics}
}

func (p *Provider) Id() string   { return ProviderId }
func (p *Provider) Name() string { return "BandwagonHost" }
func (p *Provider) Logo() string { return "bandwagon.png" }

func (p *Provider) Description() string {
	return "BandwagonHost (KiwiVM) OpenVZ and KVM services, one VPS per API credential."
}

func (p *Provider) Features() []provider.Feature {
	return []provider.Feature{
		provider.FeatureSnapshots,
		provider.FeatureBackups,
	}
}

func (p *Provider) NewAgent(cred agent.Credential) (agent.Agent, error) {
	return NewAgent(cred, WithNotifier(p.notifier), WithMetrics(p.metrics))
}

func (p *Provider) Routes() map[string]provider.Route {
	return map[string]provider.Route{
		"bandwagon.snapshot": {Name: "bandwagon.snapshot", Screen: "BandwagonSnapshots"},
		"bandwagon.backup":   {Name: "bandwagon.backup", Screen: "BandwagonBackups"},
		"bandwagon.migrate":  {Name: "bandwagon.migrate", Screen: "BandwagonMigrate"},
	}
}

func (p *Provider) Actions(inst *agent.Instance, deps provider.ActionDeps) []provider.Action {
	instances := deps.Agent.Instances()
	id := inst.Id

	return []provider.Action{
		{
			Name: "start",
			Execute: func(ctx context.Context) error {
				return instances.Start(ctx, id)
			},
		},
		{
			Name: "stop",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:       "Stop server",
					Message:     fmt.Sprintf("Stop %s?", inst.Name),
					Severity:    provider.SeverityWarn,
					ConfirmText: "Stop",
					CancelText:  "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Stop(ctx, id)
			},
		},
		{
			Name: "restart",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:       "Restart server",
					Message:     fmt.Sprintf("Restart %s?", inst.Name),
					Severity:    provider.SeverityInfo,
					ConfirmText: "Restart",
					CancelText:  "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Restart(ctx, id)
			},
		},
		{
			Name: "kill",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Force stop",
					Message:       fmt.Sprintf("Force-kill %s? Unsynced data will be lost.", inst.Name),
					Severity:      provider.SeverityWarn,
					DoubleConfirm: true,
					ConfirmText:   "Kill",
					CancelText:    "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Destroy(ctx, id)
			},
		},
		{
			Name: "reinstall",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Reinstall OS",
					Message:       fmt.Sprintf("Reinstall the operating system on %s? All data will be lost.", inst.Name),
					Severity:      provider.SeverityWarn,
					DoubleConfirm: true,
					ConfirmText:   "Reinstall",
					CancelText:    "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Reinstall(ctx, id)
			},
		},
	}
}

var components = map[string]provider.Component{
	"overview":  {Name: "overview", Screen: "BandwagonOverview"},
	"snapshots": {Name: "snapshots", Screen: "BandwagonSnapshots"},
	"backups":   {Name: "backups", Screen: "BandwagonBackups"},
}

func (p *Provider) Component(name string) (*provider.Component, error) {
	c, ok := components[name]
	if !ok {
		return nil, fmt.Errorf("bandwagon component %q: %w", name, agent.ErrNotImplemented)
	}
	return &c, nil
}
