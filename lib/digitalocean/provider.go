package digitalocean

import (
	"context"
	"fmt"

	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

// Provider is the static DigitalOcean descriptor.
type Provider struct {
	notifier agent.Notifier
	metrics  *agent.Metrics
}

var _ provider.Provider = (*Provider)(nil)

func NewProvider(notifier agent.Notifier, metrics *agent.Metrics) *Provider {
	if notifier == nil {
		notifier = agent.NopNotifier{}
	}
	return &Provider{notifier: notifier, metrics: metrics}
}

func (p *Provider) Id() string   { return ProviderId }
func (p *Provider) Name() string { return "DigitalOcean" }
func (p *Provider) Logo() string { return "digitalocean.png" }

func (p *Provider) Description() string {
	return "Droplets on DigitalOcean: simple cloud compute with flat monthly pricing."
}

func (p *Provider) Features() []provider.Feature {
	return []provider.Feature{
		provider.FeatureDeploy,
		provider.FeatureSnapshots,
		provider.FeatureBackups,
		provider.FeatureSSHKeys,
		provider.FeatureBilling,
	}
}

func (p *Provider) NewAgent(cred agent.Credential) (agent.Agent, error) {
	if cred.Key == "" {
		return nil, fmt.Errorf("digitalocean: credential key is required")
	}
	return NewAgent(cred, WithNotifier(p.notifier), WithMetrics(p.metrics)), nil
}

func (p *Provider) Routes() map[string]provider.Route {
	return map[string]provider.Route{
		"digitalocean.deploy":   {Name: "digitalocean.deploy", Screen: "DigitaloceanDeploy"},
		"digitalocean.snapshot": {Name: "digitalocean.snapshot", Screen: "DigitaloceanSnapshots"},
		"digitalocean.backup":   {Name: "digitalocean.backup", Screen: "DigitaloceanBackups"},
	}
}

// Actions returns the ordered lifecycle operations for a droplet.
// Stop issues a graceful shutdown, so it only warns; power_cycle and
// rebuild are the disruptive ones.
func (p *Provider) Actions(inst *agent.Instance, deps provider.ActionDeps) []provider.Action {
	instances := deps.Agent.Instances()
	id := inst.Id

	dispatch := func(eventType string) {
		if deps.Dispatch != nil {
			deps.Dispatch(provider.Event{Type: eventType, Payload: id})
		}
	}

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
					Title:       "Shut down droplet",
					Message:     fmt.Sprintf("Shut down %s? Billing continues while the droplet is off.", inst.Name),
					Severity:    provider.SeverityWarn,
					ConfirmText: "Shut down",
					CancelText:  "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Stop(ctx, id)
			},
		},
		{
			Name: "reboot",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:       "Power cycle droplet",
					Message:     fmt.Sprintf("Power cycle %s? This is a hard reset.", inst.Name),
					Severity:    provider.SeverityInfo,
					ConfirmText: "Power cycle",
					CancelText:  "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Reboot(ctx, id)
			},
		},
		{
			Name: "rebuild",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Rebuild droplet",
					Message:       fmt.Sprintf("Rebuild %s from its base image? All data on the droplet will be lost.", inst.Name),
					Severity:      provider.SeverityWarn,
					DoubleConfirm: true,
					ConfirmText:   "Rebuild",
					CancelText:    "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Reinstall(ctx, id)
			},
		},
		{
			Name: "destroy",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Destroy droplet",
					Message:       fmt.Sprintf("Destroy %s? This cannot be undone.", inst.Name),
					Severity:      provider.SeverityWarn,
					DoubleConfirm: true,
					ConfirmText:   "Destroy",
					CancelText:    "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				if err := instances.Destroy(ctx, id); err != nil {
					return err
				}
				dispatch("instance.destroyed")
				return nil
			},
		},
	}
}

var components = map[string]provider.Component{
	"overview":  {Name: "overview", Screen: "DigitaloceanOverview"},
	"snapshots": {Name: "snapshots", Screen: "DigitaloceanSnapshots"},
	"backups":   {Name: "backups", Screen: "DigitaloceanBackups"},
}

func (p *Provider) Component(name string) (*provider.Component, error) {
	c, ok := components[name]
	if !ok {
		return nil, fmt.Errorf("digitalocean component %q: %w", name, agent.ErrNotImplemented)
	}
	return &c, nil
}
