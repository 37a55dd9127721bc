package bandwagon

import (
	"context"
	"fmt"
	"strings"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

type instanceService struct {
	client *Client
}

var _ agent.InstanceService = (*instanceService)(nil)

// List returns the single VPS behind this credential.
func (s *instanceService) List(ctx context.Context) ([]agent.Instance, error) {
	inst, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return []agent.Instance{*inst}, nil
}

func (s *instanceService) Get(ctx context.Context, id string) (*agent.Instance, error) {
	if id != s.client.Veid() {
		return nil, fmt.Errorf("veid %s: %w", id, agent.ErrNotFound)
	}
	return s.fetch(ctx)
}

func (s *instanceService) fetch(ctx context.Context) (*agent.Instance, error) {
	var info serviceInfo
	if err := s.client.call(ctx, "getLiveServiceInfo", nil, &info); err != nil {
		return nil, err
	}
	inst := s.normalize(info)
	return &inst, nil
}

func (s *instanceService) normalize(info serviceInfo) agent.Instance {
	var publicIP string
	if len(info.IPAddresses) > 0 {
		publicIP = info.IPAddresses[0]
	}
	var internalIP string
	if len(info.PrivateIPAddresses) > 0 {
		internalIP = info.PrivateIPAddresses[0]
	}

	hostname := info.LiveHostname
	if hostname == "" {
		hostname = info.Hostname
	}

	multiplier := info.MonthlyDataMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	rawStatus := "active"
	if info.Suspended {
		rawStatus = "suspended"
	}

	return agent.Instance{
		Id:         s.client.Veid(),
		Name:       info.Hostname,
		Hostname:   hostname,
		PublicIP:   publicIP,
		InternalIP: internalIP,
		OS:         info.OS,
		RAM:        agent.RAM{SizeMB: agent.BytesToMB(info.PlanRAM)},
		Disk: agent.Disk{
			SizeGB: agent.BytesToGB(info.PlanDisk),
			Type:   info.VmType,
		},
		Location: agent.Location{
			Title:  info.NodeLocation,
			Region: info.NodeDatacenter,
		},
		Status: deriveStatus(info),
		State: agent.RawState{
			Status:      rawStatus,
			PowerStatus: info.VeStatus,
		},
		IPv4: agent.IPv4{IP: publicIP},
		Bandwidth: agent.Bandwidth{
			CurrentGB: float64(agent.BytesToGB(info.DataCounter * multiplier)),
			AllowedGB: float64(agent.BytesToGB(info.PlanMonthlyData * multiplier)),
		},
		Plan:     info.Plan,
		Region:   info.NodeDatacenter,
		Image:    agent.ImageRef{Id: info.OS, Type: "os"},
		Provider: ProviderId,
		Account:  s.client.AccountId(),
	}
}

// deriveStatus folds the KiwiVM state into the shared display strings.
// Suspension wins over the power state.
func deriveStatus(info serviceInfo) string {
	if info.Suspended {
		return "Suspended"
	}
	switch info.VeStatus {
	case "":
		return "Pending"
	default:
		return strings.ToUpper(info.VeStatus[:1]) + info.VeStatus[1:]
	}
}

func (s *instanceService) Start(ctx context.Context, id string) error {
	return s.client.call(ctx, "start", nil, nil)
}

func (s *instanceService) Stop(ctx context.Context, id string) error {
	return s.client.call(ctx, "stop", nil, nil)
}

func (s *instanceService) Restart(ctx context.Context, id string) error {
	return s.client.call(ctx, "restart", nil, nil)
}

func (s *instanceService) Reboot(ctx context.Context, id string) error {
	return s.client.call(ctx, "restart", nil, nil)
}

// Destroy force-kills the VPS. KiwiVM cannot cancel the service
// itself; kill is the closest the panel API offers.
func (s *instanceService) Destroy(ctx context.Context, id string) error {
	return s.client.call(ctx, "kill", nil, nil)
}

// Reinstall re-images the VPS with its current operating system.
func (s *instanceService) Reinstall(ctx context.Context, id string) error {
	var info serviceInfo
	if err := s.client.call(ctx, "getServiceInfo", nil, &info); err != nil {
		return err
	}
	return s.client.call(ctx, "reinstallOS", map[string]string{"os": info.OS}, nil)
}

// SetLabel maps to setHostname; the hostname is the only name KiwiVM
// knows.
func (s *instanceService) SetLabel(ctx context.Context, id, label string) error {
	return s.client.call(ctx, "setHostname", map[string]string{"newHostname": label}, nil)
}

func (s *instanceService) SetTag(ctx context.Context, id, tag string) error {
	return fmt.Errorf("bandwagon tags: %w", agent.ErrNotImplemented)
}

func (s *instanceService) EnableBackups(ctx context.Context, id string) error {
	return fmt.Errorf("bandwagon backup toggle: %w", agent.ErrNotImplemented)
}

func (s *instanceService) DisableBackups(ctx context.Context, id string) error {
	return fmt.Errorf("bandwagon backup toggle: %w", agent.ErrNotImplemented)
}

func (s *instanceService) BackupSchedule(ctx context.Context, id string) (*agent.BackupSchedule, error) {
	return nil, fmt.Errorf("bandwagon backup schedule: %w", agent.ErrNotImplemented)
}

func (s *instanceService) SetBackupSchedule(ctx context.Context, id string, _ agent.BackupSchedule) error {
	return fmt.Errorf("bandwagon backup schedule: %w", agent.ErrNotImplemented)
}

// RestoreBackup copies a backup into the snapshot area. The copy is
// queued vendor-side and confirmed by email, so the result is pending
// rather than observable.
func (s *instanceService) RestoreBackup(ctx context.Context, id, backupId string) error {
	params := map[string]string{"backupToken": backupId}
	if err := s.client.call(ctx, "backup/copyToSnapshot", params, nil); err != nil {
		return err
	}
	return fmt.Errorf("backup copy queued: %w", agent.ErrPending)
}
