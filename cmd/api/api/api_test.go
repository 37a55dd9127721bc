package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/cmd/api/config"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/notify"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

// fakeInstances is a canned InstanceService that records lifecycle
// calls.
type fakeInstances struct {
	instances []agent.Instance
	calls     []string
	failWith  error
}

func (f *fakeInstances) List(ctx context.Context) ([]agent.Instance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.instances, nil
}

func (f *fakeInstances) Get(ctx context.Context, id string) (*agent.Instance, error) {
	for _, inst := range f.instances {
		if inst.Id == id {
			return &inst, nil
		}
	}
	return nil, fmt.Errorf("instance %s: %w", id, agent.ErrNotFound)
}

func (f *fakeInstances) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failWith
}

func (f *fakeInstances) Start(ctx context.Context, id string) error   { return f.record("start") }
func (f *fakeInstances) Stop(ctx context.Context, id string) error    { return f.record("stop") }
func (f *fakeInstances) Restart(ctx context.Context, id string) error { return f.record("restart") }
func (f *fakeInstances) Reboot(ctx context.Context, id string) error  { return f.record("reboot") }
func (f *fakeInstances) Destroy(ctx context.Context, id string) error { return f.record("destroy") }
func (f *fakeInstances) Reinstall(ctx context.Context, id string) error {
	return f.record("reinstall")
}
func (f *fakeInstances) SetLabel(ctx context.Context, id, label string) error {
	return f.record("label:" + label)
}
func (f *fakeInstances) SetTag(ctx context.Context, id, tag string) error {
	return f.record("tag:" + tag)
}
func (f *fakeInstances) EnableBackups(ctx context.Context, id string) error {
	return f.record("backups-on")
}
func (f *fakeInstances) DisableBackups(ctx context.Context, id string) error {
	return f.record("backups-off")
}
func (f *fakeInstances) BackupSchedule(ctx context.Context, id string) (*agent.BackupSchedule, error) {
	return &agent.BackupSchedule{Enabled: true, CronType: "weekly"}, nil
}
func (f *fakeInstances) SetBackupSchedule(ctx context.Context, id string, s agent.BackupSchedule) error {
	return f.record("schedule")
}
func (f *fakeInstances) RestoreBackup(ctx context.Context, id, backupId string) error {
	return f.record("restore-backup:" + backupId)
}

type fakeSnapshots struct {
	createErr error
}

func (f *fakeSnapshots) List(ctx context.Context, instanceId string) ([]agent.Snapshot, error) {
	return []agent.Snapshot{{Id: "snap-1", Name: "nightly", Status: "complete"}}, nil
}

func (f *fakeSnapshots) Create(ctx context.Context, instanceId, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "snap-2", nil
}

func (f *fakeSnapshots) Delete(ctx context.Context, id string) error              { return nil }
func (f *fakeSnapshots) Restore(ctx context.Context, instanceId, id string) error { return nil }

type fakeBackups struct{}

func (f *fakeBackups) List(ctx context.Context, instanceId string) ([]agent.Backup, error) {
	return []agent.Backup{{Id: "bk-1", Status: "complete"}}, nil
}

type fakeAgent struct {
	instances *fakeInstances
	snapshots *fakeSnapshots
	backups   *fakeBackups
	userErr   error
}

func (f *fakeAgent) User(ctx context.Context) (*agent.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &agent.User{Id: "u-1", Name: "Tester", Email: "t@example.net"}, nil
}

func (f *fakeAgent) Bill(ctx context.Context) (*agent.Bill, error) {
	return &agent.Bill{Balance: 10, PendingCharges: 2.5}, nil
}

func (f *fakeAgent) SSHKeys(ctx context.Context) ([]agent.SSHKey, error) {
	return []agent.SSHKey{{Id: "k-1", Name: "laptop"}}, nil
}

func (f *fakeAgent) CreateSSHKey(ctx context.Context, name, publicKey string) (*agent.SSHKey, error) {
	return &agent.SSHKey{Id: "k-2", Name: name, PublicKey: publicKey}, nil
}

func (f *fakeAgent) UpdateSSHKey(ctx context.Context, key agent.SSHKey) error { return nil }
func (f *fakeAgent) DestroySSHKey(ctx context.Context, id string) error       { return nil }

func (f *fakeAgent) Instances() agent.InstanceService { return f.instances }
func (f *fakeAgent) Snapshots() agent.SnapshotService { return f.snapshots }
func (f *fakeAgent) Backups() agent.BackupService     { return f.backups }

// testProvider is a descriptor that always hands out the same fake
// agent and exposes a start action (no dialog) plus a destroy action
// (double-confirm dialog).
type testProvider struct {
	agent *fakeAgent
}

func (p *testProvider) Id() string          { return "fakecloud" }
func (p *testProvider) Name() string        { return "Fake Cloud" }
func (p *testProvider) Logo() string        { return "fakecloud.png" }
func (p *testProvider) Description() string { return "test vendor" }

func (p *testProvider) Features() []provider.Feature {
	return []provider.Feature{provider.FeatureSnapshots, provider.FeatureBackups}
}

func (p *testProvider) NewAgent(cred agent.Credential) (agent.Agent, error) {
	return p.agent, nil
}

func (p *testProvider) Routes() map[string]provider.Route {
	return map[string]provider.Route{
		"fakecloud.deploy": {Name: "fakecloud.deploy", Screen: "FakeDeploy"},
	}
}

func (p *testProvider) Actions(inst *agent.Instance, deps provider.ActionDeps) []provider.Action {
	instances := deps.Agent.Instances()
	id := inst.Id
	return []provider.Action{
		{
			Name:    "start",
			Execute: func(ctx context.Context) error { return instances.Start(ctx, id) },
		},
		{
			Name: "destroy",
			Dialog: func() *provider.Dialog {
				return &provider.Dialog{
					Title:         "Destroy server",
					Message:       "Destroy " + inst.Name + "?",
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
				if deps.Dispatch != nil {
					deps.Dispatch(provider.Event{Type: "instance.destroyed", Payload: id})
				}
				return nil
			},
		},
	}
}

func (p *testProvider) Component(name string) (*provider.Component, error) {
	return nil, fmt.Errorf("component %q: %w", name, agent.ErrNotImplemented)
}

type fixture struct {
	service   *ApiService
	router    chi.Router
	agent     *fakeAgent
	accountId string
	notifier  *notify.Center
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fa := &fakeAgent{
		instances: &fakeInstances{instances: []agent.Instance{
			{Id: "i-1", Name: "web-1", Provider: "fakecloud", Status: "Running"},
		}},
		snapshots: &fakeSnapshots{},
		backups:   &fakeBackups{},
	}

	registry := provider.NewRegistry()
	registry.Register(&testProvider{agent: fa})

	accounts := provider.NewAccountManager(registry)
	acct, err := accounts.Add("fakecloud", agent.Credential{Key: "test-key"})
	require.NoError(t, err)

	notifier := notify.NewCenter(10)
	service := New(&config.Config{}, registry, accounts, notifier)

	r := chi.NewRouter()
	service.Routes(r)

	return &fixture{
		service:   service,
		router:    r,
		agent:     fa,
		accountId: acct.Id,
		notifier:  notifier,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListProviders(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/providers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fakecloud")
	assert.Contains(t, w.Body.String(), "FakeDeploy")
}

func TestUnknownComponentIs501(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/providers/fakecloud/components/nope", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "not_implemented")
}

func TestAccountInstances(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/accounts/"+f.accountId+"/instances", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "web-1")

	w = f.do(t, http.MethodGet, "/accounts/"+f.accountId+"/instances/i-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/accounts/"+f.accountId+"/instances/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUnknownAccountIs404(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/accounts/doesnotexist/instances", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionWithoutDialogRunsImmediately(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/actions/start", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "succeeded")
	assert.Equal(t, []string{"start"}, f.agent.instances.calls)
}

func TestDialogActionRequiresConfirmation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/actions/destroy", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "confirmation_required")
	assert.Contains(t, w.Body.String(), "Destroy server")
	assert.Empty(t, f.agent.instances.calls, "nothing may execute before confirmation")

	w = f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/actions/destroy?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"destroy"}, f.agent.instances.calls)

	events := f.notifier.Events()
	require.Len(t, events, 1, "destroy dispatch lands in the notification center")
	assert.Equal(t, "instance.destroyed", events[0].Message)
	assert.Equal(t, "i-1", events[0].Info, "dispatched payload carries the instance id")
}

func TestUnknownActionIs404(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/actions/explode", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPendingActionIs202(t *testing.T) {
	f := newFixture(t)
	f.agent.instances.failWith = fmt.Errorf("queued: %w", agent.ErrPending)

	w := f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/actions/start", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "pending")
}

func TestSnapshotCreate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/snapshots", `{"name":"pre-upgrade"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "snap-2")

	f.agent.snapshots.createErr = fmt.Errorf("emailed: %w", agent.ErrPending)
	w = f.do(t, http.MethodPost, "/accounts/"+f.accountId+"/instances/i-1/snapshots", `{"name":"again"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.NotContains(t, w.Body.String(), "snap-2", "pending create has no id yet")
}

func TestListAllInstancesMergesAccounts(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/instances", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "web-1")
}

func TestListAllInstancesReportsFailingAccount(t *testing.T) {
	f := newFixture(t)
	f.agent.instances.failWith = fmt.Errorf("vendor down")

	w := f.do(t, http.MethodGet, "/instances", "")
	assert.Equal(t, http.StatusOK, w.Code, "partial failure is still a 200")
	assert.Contains(t, w.Body.String(), "vendor down")
}

func TestAddAccountVerifiesCredential(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/accounts", `{"provider":"fakecloud","key":"another-key"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	f.agent.userErr = &agent.APIError{Provider: "fakecloud", StatusCode: 403, Message: "bad key"}
	w = f.do(t, http.MethodPost, "/accounts", `{"provider":"fakecloud","key":"broken-key"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "bad key")
}

func TestNotificationsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.notifier.Publish("fakecloud", "something broke", "details")

	w := f.do(t, http.MethodGet, "/notifications", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "something broke")
}

func TestBackupScheduleRoundTrip(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/accounts/"+f.accountId+"/instances/i-1/backup-schedule", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "weekly")

	w = f.do(t, http.MethodPut, "/accounts/"+f.accountId+"/instances/i-1/backup-schedule", `{"enabled":true,"cron_type":"daily"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, f.agent.instances.calls, "schedule")
}
