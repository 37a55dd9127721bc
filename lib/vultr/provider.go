package vultr

import (
	"context"
	"fmt"

	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

// Provider is the static Vultr descriptor.
type Provider struct {
	notifier agent.Notifier
	metrics  *agent.Metrics
}

var _ provider.Provider = (*Provider)(nil)

// NewProvider creates the descriptor. notifier and metrics are handed
// down to every agent it constructs; either may be nil.
func NewProvider(notifier agent.Notifier, metrics *agent.Metrics) *Provider {
	if notifier == nil {
		notifier = agent.NopNotifier{}
	}
	return &Provider{notifier: notifier, metrics: metrics}
}

func (p *Provider) Id() string   { return ProviderId }
func (p *Provider) Name() string { return "Vultr" }
func (p *Provider) Logo() string { return "vultr.png" }

func (p *Provider) Description() string {
	return "Cloud compute on Vultr: high performance SSD VPS with hourly billing."
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
		return nil, fmt.Errorf("vultr: credential key is required")
	}
	return NewAgent(cred, WithNotifier(p.notifier), WithMetrics(p.metrics)), nil
}

func (p *Provider) Routes() map[string]provider.Route {
	return map[string]provider.Route{
		"vultr.deploy":   {Name: "vultr.deploy", Screen: "VultrDeploy"},
		"vultr.snapshot": {Name: "vultr.snapshot", Screen: "VultrSnapshots"},
		"vultr.backup":   {Name: "vultr.backup", Screen: "VultrBackups"},
	}
}

// Actions returns the ordered lifecycle operations for an instance.
// Start carries no dialog and executes immediately; everything that
// interrupts or destroys the machine confirms first.
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
					Title:       "Stop server",
					Message:     fmt.Sprintf("Stop %s? The server keeps accruing charges while stopped.", inst.Name),
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
			Name: "reboot",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:       "Reboot server",
					Message:     fmt.Sprintf("Reboot %s?", inst.Name),
					Severity:    provider.SeverityInfo,
					ConfirmText: "Reboot",
					CancelText:  "Cancel",
				}
			},
			Execute: func(ctx context.Context) error {
				return instances.Reboot(ctx, id)
			},
		},
		{
			Name: "reinstall",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Reinstall server",
					Message:       fmt.Sprintf("Reinstall the operating system on %s? All data on the instance will be lost.", inst.Name),
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
		{
			Name: "destroy",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Destroy server",
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
				// Let the caller's store drop the instance right away;
				// the vendor-side delete completes asynchronously.
				dispatch("instance.destroyed")
				return nil
			},
		},
	}
}

var components = map[string]provider.Component{
	"overview":  {Name: "overview", Screen: "VultrOverview"},
	"snapshots": {Name: "snapshots", Screen: "VultrSnapshots"},
	"backups":   {Name: "backups", Screen: "VultrBackups"},
}

func (p *Provider) Component(name string) (*provider.Component, error) {
	c, ok := components[name]
	if !ok {
		return nil, fmt.Errorf("vultr component %q: %w", name, agent.ErrNotImplemented)
	}
	return &c, nil
}
