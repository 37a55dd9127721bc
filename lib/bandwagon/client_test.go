package bandwagon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

func newTestAgent(t *testing.T, handler http.Handler, opts ...Option) *Agent {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	a, err := NewAgent(agent.Credential{Extra: "123456", Key: "private-key"}, opts...)
	require.NoError(t, err)
	return a
}

func TestCredentialParsing(t *testing.T) {
	combined, err := NewClient(agent.Credential{Key: "123456:private-key"})
	require.NoError(t, err)
	split, err := NewClient(agent.Credential{Extra: "123456", Key: "private-key"})
	require.NoError(t, err)

	assert.Equal(t, "123456", combined.Veid())
	assert.Equal(t, combined.AccountId(), split.AccountId(),
		"both credential forms must derive the same account id")

	_, err = NewClient(agent.Credential{Key: "no-veid-here"})
	assert.Error(t, err)
}

func TestCallSendsCredentialsInQuery(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getLiveServiceInfo", r.URL.Path)
		assert.Equal(t, "123456", r.URL.Query().Get("veid"))
		assert.Equal(t, "private-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(serviceInfoBody))
	}))

	insts, err := a.Instances().List(context.Background())
	require.NoError(t, err)
	require.Len(t, insts, 1)
}

const serviceInfoBody = `{
	"error": 0,
	"vm_type": "kvm",
	"hostname": "box.example.net",
	"live_hostname": "box",
	"node_ip": "192.0.2.10",
	"node_location": "US, California",
	"node_datacenter": "DC9 FMNT",
	"plan": "kvmv3-20g-1g-1c-ca",
	"plan_monthly_data": 1073741824000,
	"monthly_data_multiplier": 1,
	"plan_disk": 21474836480,
	"plan_ram": 1073741824,
	"os": "debian-12-x86_64",
	"email": "user@example.net",
	"data_counter": 536870912000,
	"ip_addresses": ["198.51.100.7"],
	"suspended": false,
	"ve_status": "running",
	"ssh_port": 22
}`

func TestNormalizeServiceInfo(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(serviceInfoBody))
	}))

	inst, err := a.Instances().Get(context.Background(), "123456")
	require.NoError(t, err)

	assert.Equal(t, "123456", inst.Id)
	assert.Equal(t, "box.example.net", inst.Name)
	assert.Equal(t, "box", inst.Hostname)
	assert.Equal(t, "198.51.100.7", inst.PublicIP)
	assert.Equal(t, 1024, inst.RAM.SizeMB)
	assert.Equal(t, 20, inst.Disk.SizeGB)
	assert.Equal(t, "kvm", inst.Disk.Type)
	assert.Equal(t, "Running", inst.Status)
	assert.Equal(t, "US, California", inst.Location.Title)
	assert.Equal(t, float64(500), inst.Bandwidth.CurrentGB)
	assert.Equal(t, float64(1000), inst.Bandwidth.AllowedGB)
	assert.Equal(t, ProviderId, inst.Provider)
}

func TestGetRejectsForeignVeid(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(serviceInfoBody))
	}))

	_, err := a.Instances().Get(context.Background(), "999999")
	assert.ErrorIs(t, err, agent.ErrNotFound)
}

func TestSuspendedWinsOverPowerState(t *testing.T) {
	info := serviceInfo{Suspended: true, VeStatus: "running"}
	assert.Equal(t, "Suspended", deriveStatus(info))

	info = serviceInfo{VeStatus: "stopped"}
	assert.Equal(t, "Stopped", deriveStatus(info))

	info = serviceInfo{}
	assert.Equal(t, "Pending", deriveStatus(info))
}

func TestEnvelopeErrorIsSurfaced(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": 403, "message": "invalid API key"}`))
	}))

	_, err := a.Instances().List(context.Background())
	require.Error(t, err)
	apiErr, ok := agent.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid API key", apiErr.Message)
	assert.Contains(t, apiErr.Info, "403")
}

func TestBackupCopySurfacesPending(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/backup/copyToSnapshot", r.URL.Path)
		assert.Equal(t, "backup-token-1", r.URL.Query().Get("backupToken"))
		w.Write([]byte(`{"error": 0}`))
	}))

	err := a.Instances().RestoreBackup(context.Background(), "123456", "backup-token-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrPending, "an accepted async copy is pending, not failed")
}

func TestSnapshotCreateIsPending(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": 0, "notificationEmail": "user@example.net"}`))
	}))

	id, err := a.Snapshots().Create(context.Background(), "123456", "pre-upgrade")
	assert.Empty(t, id)
	assert.ErrorIs(t, err, agent.ErrPending)
}

func TestBackupListKeyedByToken(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": 0, "backups": {
			"tok-old": {"size": 1048576, "os": "debian-12-x86_64", "md5": "aaa", "timestamp": 1700000000},
			"tok-new": {"size": 2097152, "os": "debian-12-x86_64", "md5": "bbb", "timestamp": 1800000000}
		}}`))
	}))

	backups, err := a.Backups().List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "tok-new", backups[0].Id, "newest first")
	assert.Equal(t, 1, backups[1].SizeMB)
	assert.Equal(t, "complete", backups[0].Status)
}
