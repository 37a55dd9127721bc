package bandwagon

import (
	"context"
	"fmt"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// Agent is the BandwagonHost implementation of the agent contract.
// One KiwiVM credential maps to exactly one VPS, so the instance list
// always has a single entry.
type Agent struct {
	client *Client

	instances *instanceService
	snapshots *snapshotService
	backups   *backupService
}

var _ agent.Agent = (*Agent)(nil)

// NewAgent builds the per-service facade.
func NewAgent(cred agent.Credential, opts ...Option) (*Agent, error) {
	c, err := NewClient(cred, opts...)
	if err != nil {
		return nil, err
	}
	return &Agent{
		client:    c,
		instances: &instanceService{client: c},
		snapshots: &snapshotService{client: c},
		backups:   &backupService{client: c},
	}, nil
}

func (a *Agent) Instances() agent.InstanceService { return a.instances }
func (a *Agent) Snapshots() agent.SnapshotService { return a.snapshots }
func (a *Agent) Backups() agent.BackupService     { return a.backups }

func (a *Agent) User(ctx context.Context) (*agent.User, error) {
	var info serviceInfo
	if err := a.client.call(ctx, "getServiceInfo", nil, &info); err != nil {
		return nil, err
	}
	return &agent.User{
		Id:     a.client.AccountId(),
		Name:   info.Hostname,
		Email:  info.Email,
		APIKey: a.client.veid + ":" + a.client.apiKey,
	}, nil
}

// Bill is not exposed by the KiwiVM API; the provider does not
// advertise the billing feature.
func (a *Agent) Bill(ctx context.Context) (*agent.Bill, error) {
	return nil, fmt.Errorf("bandwagon billing: %w", agent.ErrNotImplemented)
}

func (a *Agent) SSHKeys(ctx context.Context) ([]agent.SSHKey, error) {
	return nil, fmt.Errorf("bandwagon ssh keys: %w", agent.ErrNotImplemented)
}

func (a *Agent) CreateSSHKey(ctx context.Context, name, publicKey string) (*agent.SSHKey, error) {
	return nil, fmt.Errorf("bandwagon ssh keys: %w", agent.ErrNotImplemented)
}

func (a *Agent) UpdateSSHKey(ctx context.Context, key agent.SSHKey) error {
	return fmt.Errorf("bandwagon ssh keys: %w", agent.ErrNotImplemented)
}

func (a *Agent) DestroySSHKey(ctx context.Context, id string) error {
	return fmt.Errorf("bandwagon ssh keys: %w", agent.ErrNotImplemented)
}
