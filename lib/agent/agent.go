// Package agent defines the vendor-agnostic contract over one cloud
// vendor's REST API, plus the normalization helpers shared by the
// per-vendor adapters.
//
// An Agent is a stateless translation layer: every List/Get re-fetches
// and re-normalizes, mutating calls return nothing and callers observe
// effects by re-fetching. Agents never touch the caller's store.
package agent

import "context"

// Agent is the facade every vendor adapter satisfies. One Agent exists
// per distinct credential (account); it holds only the configured HTTP
// client and the derived account id.
type Agent interface {
	// User fetches the account identity. The returned id is stable for
	// a given credential and the credential itself rides along so the
	// agent can be reconstructed later.
	User(ctx context.Context) (*User, error)

	// Bill returns normalized billing figures.
	Bill(ctx context.Context) (*Bill, error)

	SSHKeys(ctx context.Context) ([]SSHKey, error)
	CreateSSHKey(ctx context.Context, name, publicKey string) (*SSHKey, error)
	UpdateSSHKey(ctx context.Context, key SSHKey) error
	DestroySSHKey(ctx context.Context, id string) error

	Instances() InstanceService
	Snapshots() SnapshotService
	Backups() BackupService
}

// InstanceService covers instance lifecycle. All mutating calls are
// fire-and-forget against the vendor: they return no state because most
// vendor operations complete asynchronously server-side. Callers
// re-Get to observe the effect.
type InstanceService interface {
	List(ctx context.Context) ([]Instance, error)

	// Get returns ErrNotFound (possibly wrapped) when the vendor
	// reports the instance gone; all other errors propagate as-is.
	Get(ctx context.Context, id string) (*Instance, error)

	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) error
	Reboot(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
	Reinstall(ctx context.Context, id string) error

	// SetLabel and SetTag rename/tag the instance. No return value;
	// re-fetch to observe.
	SetLabel(ctx context.Context, id, label string) error
	SetTag(ctx context.Context, id, tag string) error

	// Backup controls are vendor-gated: calling them on a provider
	// whose feature set does not advertise backups is a caller error,
	// not something the agent guards against.
	EnableBackups(ctx context.Context, id string) error
	DisableBackups(ctx context.Context, id string) error
	BackupSchedule(ctx context.Context, id string) (*BackupSchedule, error)
	SetBackupSchedule(ctx context.Context, id string, s BackupSchedule) error
	RestoreBackup(ctx context.Context, id, backupId string) error
}

// SnapshotService manages point-in-time snapshots. instanceId may be
// empty for List when the vendor scopes snapshots to the account.
type SnapshotService interface {
	List(ctx context.Context, instanceId string) ([]Snapshot, error)
	Create(ctx context.Context, instanceId, name string) (string, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, instanceId, id string) error
}

type BackupService interface {
	List(ctx context.Context, instanceId string) ([]Backup, error)
}
