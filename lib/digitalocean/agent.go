package digitalocean

import (
	"context"
	"strconv"

	"github.com/samber/lo"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// Agent adapts the DigitalOcean v2 API to the shared contract.
type Agent struct {
	client    *Client
	droplets  *dropletService
	snapshots *snapshotService
	backups   *backupService
}

var _ agent.Agent = (*Agent)(nil)

func NewAgent(cred agent.Credential, opts ...Option) *Agent {
	client := NewClient(cred, opts...)
	return &Agent{
		client:    client,
		droplets:  &dropletService{client: client},
		snapshots: &snapshotService{client: client},
		backups:   &backupService{client: client},
	}
}

func (a *Agent) Instances() agent.InstanceService { return a.droplets }
func (a *Agent) Snapshots() agent.SnapshotService { return a.snapshots }
func (a *Agent) Backups() agent.BackupService     { return a.backups }

func (a *Agent) User(ctx context.Context) (*agent.User, error) {
	var resp struct {
		Account struct {
			UUID  string `json:"uuid"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"account"`
	}
	if err := a.client.get(ctx, "/account", &resp); err != nil {
		return nil, err
	}
	name := resp.Account.Name
	if name == "" {
		name = resp.Account.Email
	}
	return &agent.User{
		Id:     resp.Account.UUID,
		Name:   name,
		Email:  resp.Account.Email,
		APIKey: a.client.Token(),
	}, nil
}

func (a *Agent) Bill(ctx context.Context) (*agent.Bill, error) {
	var resp struct {
		AccountBalance   string `json:"account_balance"`
		MonthToDateUsage string `json:"month_to_date_usage"`
	}
	if err := a.client.get(ctx, "/customers/my/balance", &resp); err != nil {
		return nil, err
	}
	balance, _ := strconv.ParseFloat(resp.AccountBalance, 64)
	usage, _ := strconv.ParseFloat(resp.MonthToDateUsage, 64)
	return &agent.Bill{
		Balance:        agent.AbsBalance(balance),
		PendingCharges: usage,
	}, nil
}

type sshKey struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	PublicKey   string `json:"public_key"`
	Fingerprint string `json:"fingerprint"`
}

func normalizeSSHKey(k sshKey) agent.SSHKey {
	return agent.SSHKey{
		Id:          strconv.FormatInt(k.Id, 10),
		Name:        k.Name,
		PublicKey:   k.PublicKey,
		Fingerprint: k.Fingerprint,
	}
}

func (a *Agent) SSHKeys(ctx context.Context) ([]agent.SSHKey, error) {
	var resp struct {
		SSHKeys []sshKey `json:"ssh_keys"`
	}
	if err := a.client.get(ctx, "/account/keys?per_page="+strconv.Itoa(perPage), &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.SSHKeys, func(k sshKey, _ int) agent.SSHKey {
		return normalizeSSHKey(k)
	}), nil
}

func (a *Agent) CreateSSHKey(ctx context.Context, name, publicKey string) (*agent.SSHKey, error) {
	payload := map[string]string{"name": name, "public_key": publicKey}
	var resp struct {
		SSHKey sshKey `json:"ssh_key"`
	}
	if err := a.client.post(ctx, "/account/keys", payload, &resp); err != nil {
		return nil, err
	}
	key := normalizeSSHKey(resp.SSHKey)
	return &key, nil
}

// UpdateSSHKey renames; key material is immutable vendor-side.
func (a *Agent) UpdateSSHKey(ctx context.Context, key agent.SSHKey) error {
	payload := map[string]string{"name": key.Name}
	return a.client.put(ctx, "/account/keys/"+key.Id, payload, nil)
}

func (a *Agent) DestroySSHKey(ctx context.Context, id string) error {
	return a.client.delete(ctx, "/account/keys/"+id)
}
