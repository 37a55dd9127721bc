package vultr

import (
	"context"
	"net/url"

	"github.com/samber/lo"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// Agent is the Vultr implementation of the agent contract.
type Agent struct {
	client *Client

	instances *instanceService
	snapshots *snapshotService
	backups   *backupService
}

var _ agent.Agent = (*Agent)(nil)

// NewAgent builds the per-account facade.
func NewAgent(cred agent.Credential, opts ...Option) *Agent {
	c := NewClient(cred, opts...)
	return &Agent{
		client:    c,
		instances: &instanceService{client: c},
		snapshots: &snapshotService{client: c},
		backups:   &backupService{client: c},
	}
}

func (a *Agent) Instances() agent.InstanceService { return a.instances }
func (a *Agent) Snapshots() agent.SnapshotService { return a.snapshots }
func (a *Agent) Backups() agent.BackupService     { return a.backups }

func (a *Agent) User(ctx context.Context) (*agent.User, error) {
	var info authInfo
	if err := a.client.get(ctx, "/auth/info", nil, &info); err != nil {
		return nil, err
	}
	return &agent.User{
		Id:     a.client.AccountId(),
		Name:   info.Name,
		Email:  info.Email,
		APIKey: a.client.apiKey,
	}, nil
}

func (a *Agent) Bill(ctx context.Context) (*agent.Bill, error) {
	var info accountInfo
	if err := a.client.get(ctx, "/account/info", nil, &info); err != nil {
		return nil, err
	}
	// Vultr reports the balance as a negative credit figure.
	return &agent.Bill{
		Balance:        agent.AbsBalance(float64(info.Balance)),
		PendingCharges: agent.AbsBalance(float64(info.PendingCharges)),
	}, nil
}

func (a *Agent) SSHKeys(ctx context.Context) ([]agent.SSHKey, error) {
	keyed := map[string]sshkey{}
	if err := a.client.get(ctx, "/sshkey/list", nil, &keyed); err != nil {
		return nil, err
	}
	keys := lo.MapToSlice(keyed, func(id string, k sshkey) agent.SSHKey {
		// The vendor does not return fingerprints; compute locally.
		fp, _ := agent.Fingerprint(k.SSHKey)
		return agent.SSHKey{
			Id:          id,
			Name:        k.Name,
			PublicKey:   k.SSHKey,
			Fingerprint: fp,
			CreatedAt:   parseTime(k.DateCreated),
		}
	})
	return keys, nil
}

func (a *Agent) CreateSSHKey(ctx context.Context, name, publicKey string) (*agent.SSHKey, error) {
	form := url.Values{"name": {name}, "ssh_key": {publicKey}}
	var created struct {
		SSHKEYID string `json:"SSHKEYID"`
	}
	if err := a.client.post(ctx, "/sshkey/create", form, &created); err != nil {
		return nil, err
	}
	fp, _ := agent.Fingerprint(publicKey)
	return &agent.SSHKey{
		Id:          created.SSHKEYID,
		Name:        name,
		PublicKey:   publicKey,
		Fingerprint: fp,
	}, nil
}

func (a *Agent) UpdateSSHKey(ctx context.Context, key agent.SSHKey) error {
	form := url.Values{
		"SSHKEYID": {key.Id},
		"name":     {key.Name},
		"ssh_key":  {key.PublicKey},
	}
	return a.client.post(ctx, "/sshkey/update", form, nil)
}

func (a *Agent) DestroySSHKey(ctx context.Context, id string) error {
	return a.client.post(ctx, "/sshkey/destroy", url.Values{"SSHKEYID": {id}}, nil)
}
