package vultr

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

const serverListBody = `{
	"576965": {
		"SUBID": "576965",
		"os": "CentOS 6 x64",
		"ram": "4096 MB",
		"disk": "Virtual 60 GB",
		"main_ip": "123.123.123.123",
		"vcpu_count": "2",
		"location": "New Jersey",
		"DCID": "1",
		"default_password": "nreqnusibni",
		"date_created": "2013-12-19 14:45:41",
		"pending_charges": 46.67,
		"status": "active",
		"cost_per_month": "10.05",
		"current_bandwidth_gb": 131.512,
		"allowed_bandwidth_gb": "1000",
		"netmask_v4": "255.255.255.248",
		"gateway_v4": "123.123.123.1",
		"power_status": "running",
		"server_state": "ok",
		"VPSPLANID": "28",
		"v6_main_ip": "2001:DB8:1000::100",
		"v6_network": "2001:DB8:1000::",
		"v6_network_size": "64",
		"v6_networks": [{"v6_network": "2001:DB8:1000::", "v6_main_ip": "2001:DB8:1000::100", "v6_network_size": "64"}],
		"label": "my new server",
		"internal_ip": "10.99.0.10",
		"kvm_url": "https://my.vultr.com/subs/novnc/api.php?data=eawxFVZw2mXnhGUV",
		"auto_backups": "yes",
		"tag": "mytag",
		"OSID": "127",
		"APPID": "0",
		"FIREWALLGROUPID": "0"
	}
}`

func TestListNormalizesVendorPayload(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server/list", r.URL.Path)
		w.Write([]byte(serverListBody))
	}))

	insts, err := a.Instances().List(context.Background())
	require.NoError(t, err)
	require.Len(t, insts, 1)

	inst := insts[0]
	assert.Equal(t, "576965", inst.Id)
	assert.Equal(t, "my new server", inst.Name)
	assert.Equal(t, "123.123.123.123", inst.PublicIP)
	assert.Equal(t, "10.99.0.10", inst.InternalIP)
	assert.Equal(t, 4096, inst.RAM.SizeMB)
	assert.Equal(t, 60, inst.Disk.SizeGB)
	assert.Equal(t, "Virtual", inst.Disk.Type)
	assert.Equal(t, 2, inst.Vcpus)
	assert.Equal(t, "New Jersey", inst.Location.Title)
	assert.Equal(t, "Running", inst.Status)
	assert.Equal(t, agent.RawState{Status: "active", PowerStatus: "running", ServerState: "ok"}, inst.State)
	assert.Equal(t, 46.67, inst.PendingCharges)
	assert.Equal(t, 10.05, inst.CostPerMonth)
	assert.Equal(t, 131.512, inst.Bandwidth.CurrentGB)
	assert.Equal(t, float64(1000), inst.Bandwidth.AllowedGB)
	assert.Equal(t, "255.255.255.248", inst.IPv4.Netmask)
	assert.True(t, inst.AutoBackups)
	assert.Equal(t, "28", inst.Plan)
	assert.Equal(t, agent.ImageRef{Id: "127", Type: "os"}, inst.Image)
	assert.Equal(t, ProviderId, inst.Provider)
	assert.Equal(t, agent.AccountId(ProviderId, "test-key"), inst.Account)
	assert.Equal(t, time.Date(2013, 12, 19, 14, 45, 41, 0, time.UTC), inst.CreatedAt)

	require.NotNil(t, inst.IPv6)
	assert.Equal(t, "2001:DB8:1000::100", inst.IPv6.IP)
	assert.Equal(t, 64, inst.IPv6.NetworkSize)
	require.Len(t, inst.IPv6.Networks, 1)
}

func TestListTwiceIsValueEqual(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(serverListBody))
	}))

	first, err := a.Instances().List(context.Background())
	require.NoError(t, err)
	second, err := a.Instances().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListToleratesEmptyArrayForm(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	insts, err := a.Instances().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, insts)
}

func TestLifecycleActionsPostForms(t *testing.T) {
	var calls []string
	var forms []url.Values
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		calls = append(calls, r.Method+" "+r.URL.Path)
		forms = append(forms, r.PostForm)
	}))

	ctx := context.Background()
	instances := a.Instances()
	require.NoError(t, instances.Start(ctx, "42"))
	require.NoError(t, instances.Stop(ctx, "42"))
	require.NoError(t, instances.Reboot(ctx, "42"))
	require.NoError(t, instances.Destroy(ctx, "42"))
	require.NoError(t, instances.SetLabel(ctx, "42", "renamed"))

	assert.Equal(t, []string{
		"POST /server/start",
		"POST /server/halt",
		"POST /server/reboot",
		"POST /server/destroy",
		"POST /server/label_set",
	}, calls)
	for _, form := range forms {
		assert.Equal(t, "42", form.Get("SUBID"))
	}
	assert.Equal(t, "renamed", forms[4].Get("label"))
}

func TestBackupScheduleRoundTrip(t *testing.T) {
	a := newTestAgent(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/server/backup_get_schedule":
			w.Write([]byte(`{"enabled": true, "cron_type": "weekly", "next_scheduled_time_utc": "2016-05-07 08:00:00", "hour": 8, "dow": 6, "dom": 0}`))
		case "/server/backup_set_schedule":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "weekly", r.PostForm.Get("cron_type"))
			assert.Equal(t, "8", r.PostForm.Get("hour"))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()
	sched, err := a.Instances().BackupSchedule(ctx, "42")
	require.NoError(t, err)
	assert.True(t, sched.Enabled)
	assert.Equal(t, "weekly", sched.CronType)
	assert.Equal(t, 8, sched.Hour)

	require.NoError(t, a.Instances().SetBackupSchedule(ctx, "42", *sched))
}
