// Package provider defines the per-vendor descriptor and the registry
// (the cloud manager) that resolves accounts to agents. A Provider is
// static metadata plus factories: it never talks to the vendor itself,
// that is the agent's job.
package provider

import (
	"context"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// Feature is a capability flag a provider advertises. Callers must
// check features before invoking the matching agent operations;
// the agent does not guard for them.
type Feature string

const (
	FeatureDeploy    Feature = "deploy"
	FeatureSnapshots Feature = "snapshots"
	FeatureBackups   Feature = "backups"
	FeatureSSHKeys   Feature = "sshkeys"
	FeatureBilling   Feature = "billing"
)

// Route names a provider-owned screen. Providers use collision-free,
// provider-prefixed route names by convention since the merged route
// table is last-write-wins.
type Route struct {
	Name   string `json:"name"`
	Screen string `json:"screen"`
}

// Component is a named view injection point. The core only carries the
// identifier; rendering belongs to the consumer.
type Component struct {
	Name   string `json:"name"`
	Screen string `json:"screen"`
}

// Provider is the static per-vendor descriptor, created once at process
// start and registered into the Registry for the process lifetime.
type Provider interface {
	Id() string
	Name() string
	Logo() string
	Description() string

	Features() []Feature

	// NewAgent builds the per-account API client facade for a
	// credential. Same credential, same derived account id, always.
	NewAgent(cred agent.Credential) (agent.Agent, error)

	// Routes returns the provider's named screen map.
	Routes() map[string]Route

	// Actions returns the ordered lifecycle actions for an instance.
	Actions(inst *agent.Instance, deps ActionDeps) []Action

	// Component returns a named view slot, or agent.ErrNotImplemented
	// for names the vendor does not support.
	Component(name string) (*Component, error)
}

// HasFeature reports whether p advertises f.
func HasFeature(p Provider, f Feature) bool {
	for _, have := range p.Features() {
		if have == f {
			return true
		}
	}
	return false
}

// Event is the plain message actions may dispatch to the external
// store after a state change (for example after a destroy, so a cached
// list drops the instance).
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// DispatchFunc delivers an Event to the external store. It is the
// core's only write into the caller's world besides the vendor HTTP
// calls themselves.
type DispatchFunc func(Event)

// ActionDeps carries the collaborators an action closure may use.
// Dispatch may be nil when the caller has no store to notify.
type ActionDeps struct {
	Agent    agent.Agent
	Dispatch DispatchFunc
}

// Severity of a confirmation dialog.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

// Dialog is the confirmation copy shown before a destructive action.
type Dialog struct {
	Title         string   `json:"title"`
	Message       string   `json:"message"`
	Severity      Severity `json:"severity"`
	DoubleConfirm bool     `json:"double_confirm,omitempty"`
	ConfirmText   string   `json:"confirm_text"`
	CancelText    string   `json:"cancel_text"`
}

// Action is one lifecycle operation. When Dialog is nil the action
// executes immediately with no confirmation step. Execute returns no
// state: callers re-fetch the instance to observe the effect.
type Action struct {
	Name    string
	Dialog  func() *Dialog
	Execute func(ctx context.Context) error
}
