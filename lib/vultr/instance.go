package vultr

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

type instanceService struct {
	client *Client
}

var _ agent.InstanceService = (*instanceService)(nil)

func (s *instanceService) List(ctx context.Context) ([]agent.Instance, error) {
	// /server/list answers an object keyed by SUBID, not an array.
	keyed := map[string]server{}
	if err := s.client.get(ctx, "/server/list", nil, &keyed); err != nil {
		return nil, err
	}
	out := make([]agent.Instance, 0, len(keyed))
	for _, raw := range keyed {
		out = append(out, s.normalize(raw))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *instanceService) Get(ctx context.Context, id string) (*agent.Instance, error) {
	var raw server
	query := url.Values{"SUBID": {id}}
	if err := s.client.get(ctx, "/server/list", query, &raw); err != nil {
		return nil, err
	}
	inst := s.normalize(raw)
	return &inst, nil
}

// normalize builds a fresh Instance from the raw wire shape. Instances
// are never patched in place; callers apply the whole object.
func (s *instanceService) normalize(raw server) agent.Instance {
	inst := agent.Instance{
		Id:         raw.SUBID,
		Name:       raw.Label,
		Hostname:   raw.Label,
		PublicIP:   raw.MainIP,
		InternalIP: raw.InternalIP,
		OS:         raw.OS,
		RAM:        agent.RAM{SizeMB: agent.ParseSizeMB(raw.RAM)},
		Disk: agent.Disk{
			SizeGB: agent.ParseSizeGB(raw.Disk),
			Type:   diskType(raw.Disk),
		},
		Vcpus: int(raw.VcpuCount),
		Location: agent.Location{
			Title:  raw.Location,
			Region: raw.DCID,
		},
		Status: deriveStatus(raw.Status, raw.PowerStatus, raw.ServerState),
		State: agent.RawState{
			Status:      raw.Status,
			PowerStatus: raw.PowerStatus,
			ServerState: raw.ServerState,
		},
		IPv4: agent.IPv4{
			IP:      raw.MainIP,
			Netmask: raw.NetmaskV4,
			Gateway: raw.GatewayV4,
		},
		Bandwidth: agent.Bandwidth{
			CurrentGB: float64(raw.CurrentBandwidthGB),
			AllowedGB: float64(raw.AllowedBandwidthGB),
		},
		PendingCharges: float64(raw.PendingCharges),
		CostPerMonth:   float64(raw.CostPerMonth),
		AutoBackups:    raw.AutoBackups == "yes",
		Firewall:       raw.FirewallGroupID,
		Plan:           raw.VPSPlanID,
		Region:         raw.DCID,
		Image:          agent.ImageRef{Id: raw.OSID, Type: "os"},
		Provider:       ProviderId,
		Account:        s.client.AccountId(),
		CreatedAt:      parseTime(raw.DateCreated),
	}
	if raw.V6MainIP != "" {
		v6 := &agent.IPv6{
			IP:          raw.V6MainIP,
			Network:     raw.V6Network,
			NetworkSize: int(raw.V6NetworkSize),
		}
		for _, n := range raw.V6Networks {
			v6.Networks = append(v6.Networks, agent.IPv6Network{
				Network:     n.V6Network,
				NetworkSize: int(n.V6NetworkSize),
			})
		}
		inst.IPv6 = v6
	}
	return inst
}

// diskType extracts the qualifier from disk strings like
// "Virtual 25 GB"; plain "25 GB" has no type.
func diskType(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return ""
	}
	if fields[0][0] >= '0' && fields[0][0] <= '9' {
		return ""
	}
	return fields[0]
}

func (s *instanceService) action(ctx context.Context, endpoint, id string, extra url.Values) error {
	form := url.Values{"SUBID": {id}}
	for k, vs := range extra {
		for _, v := range vs {
			form.Add(k, v)
		}
	}
	return s.client.post(ctx, endpoint, form, nil)
}

// Start boots a stopped machine. The v1 endpoint restarts a machine
// that is already running, which is also how Restart is implemented.
func (s *instanceService) Start(ctx context.Context, id string) error {
	return s.action(ctx, "/server/start", id, nil)
}

func (s *instanceService) Stop(ctx context.Context, id string) error {
	return s.action(ctx, "/server/halt", id, nil)
}

func (s *instanceService) Restart(ctx context.Context, id string) error {
	return s.action(ctx, "/server/start", id, nil)
}

func (s *instanceService) Reboot(ctx context.Context, id string) error {
	return s.action(ctx, "/server/reboot", id, nil)
}

func (s *instanceService) Destroy(ctx context.Context, id string) error {
	return s.action(ctx, "/server/destroy", id, nil)
}

func (s *instanceService) Reinstall(ctx context.Context, id string) error {
	return s.action(ctx, "/server/reinstall", id, nil)
}

func (s *instanceService) SetLabel(ctx context.Context, id, label string) error {
	return s.action(ctx, "/server/label_set", id, url.Values{"label": {label}})
}

func (s *instanceService) SetTag(ctx context.Context, id, tag string) error {
	return s.action(ctx, "/server/tag_set", id, url.Values{"tag": {tag}})
}

func (s *instanceService) EnableBackups(ctx context.Context, id string) error {
	return s.action(ctx, "/server/backup_enable", id, nil)
}

func (s *instanceService) DisableBackups(ctx context.Context, id string) error {
	return s.action(ctx, "/server/backup_disable", id, nil)
}

func (s *instanceService) BackupSchedule(ctx context.Context, id string) (*agent.BackupSchedule, error) {
	var raw backupSchedule
	form := url.Values{"SUBID": {id}}
	if err := s.client.post(ctx, "/server/backup_get_schedule", form, &raw); err != nil {
		return nil, err
	}
	return &agent.BackupSchedule{
		Enabled:              raw.Enabled,
		CronType:             raw.CronType,
		NextScheduledTimeUTC: raw.NextScheduledTimeUTC,
		Hour:                 int(raw.Hour),
		Dow:                  int(raw.Dow),
		Dom:                  int(raw.Dom),
	}, nil
}

func (s *instanceService) SetBackupSchedule(ctx context.Context, id string, sched agent.BackupSchedule) error {
	form := url.Values{
		"cron_type": {sched.CronType},
		"hour":      {strconv.Itoa(sched.Hour)},
		"dow":       {strconv.Itoa(sched.Dow)},
		"dom":       {strconv.Itoa(sched.Dom)},
	}
	return s.action(ctx, "/server/backup_set_schedule", id, form)
}

func (s *instanceService) RestoreBackup(ctx context.Context, id, backupId string) error {
	return s.action(ctx, "/server/restore_backup", id, url.Values{"BACKUPID": {backupId}})
}
