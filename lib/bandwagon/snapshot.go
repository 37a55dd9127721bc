package bandwagon

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

type snapshotService struct {
	client *Client
}

var _ agent.SnapshotService = (*snapshotService)(nil)

func (s *snapshotService) List(ctx context.Context, instanceId string) ([]agent.Snapshot, error) {
	var resp struct {
		Snapshots []snapshotEntry `json:"snapshots"`
	}
	if err := s.client.call(ctx, "snapshot/list", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]agent.Snapshot, 0, len(resp.Snapshots))
	for _, raw := range resp.Snapshots {
		sizeBytes, _ := raw.Size.Int64()
		snap := agent.Snapshot{
			Id:     raw.FileName,
			Name:   raw.Description,
			Status: "complete",
			SizeMB: agent.BytesToMB(sizeBytes),
			OS:     raw.OS,
			Sticky: bool(raw.Sticky),
			MD5:    raw.MD5,
		}
		if snap.Name == "" {
			snap.Name = raw.FileName
		}
		if days, err := raw.PurgesInDays.Int64(); err == nil && days > 0 && !snap.Sticky {
			snap.Expires = fmt.Sprintf("%dd", days)
		}
		out = append(out, snap)
	}
	return out, nil
}

// Create queues a snapshot. The panel builds it in the background and
// confirms by email, so there is no id to hand back yet; the pending
// sentinel tells the caller the work was accepted.
func (s *snapshotService) Create(ctx context.Context, instanceId, name string) (string, error) {
	params := map[string]string{"description": name}
	if err := s.client.call(ctx, "snapshot/create", params, nil); err != nil {
		return "", err
	}
	return "", fmt.Errorf("snapshot queued: %w", agent.ErrPending)
}

func (s *snapshotService) Delete(ctx context.Context, id string) error {
	return s.client.call(ctx, "snapshot/delete", map[string]string{"snapshot": id}, nil)
}

func (s *snapshotService) Restore(ctx context.Context, instanceId, id string) error {
	return s.client.call(ctx, "snapshot/restore", map[string]string{"snapshot": id}, nil)
}

// ToggleSticky flips the never-purge flag on a snapshot. KiwiVM-only
// capability surfaced through the provider's component layer.
func (s *snapshotService) ToggleSticky(ctx context.Context, id string, sticky bool) error {
	stickyParam := "0"
	if sticky {
		stickyParam = "1"
	}
	params := map[string]string{"snapshot": id, "sticky": stickyParam}
	return s.client.call(ctx, "snapshot/toggleSticky", params, nil)
}

type backupService struct {
	client *Client
}

var _ agent.BackupService = (*backupService)(nil)

// List returns automatic backups, keyed vendor-side by token.
func (s *backupService) List(ctx context.Context, instanceId string) ([]agent.Backup, error) {
	var resp struct {
		Backups map[string]backupEntry `json:"backups"`
	}
	if err := s.client.call(ctx, "backup/list", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]agent.Backup, 0, len(resp.Backups))
	for token, raw := range resp.Backups {
		sizeBytes, _ := raw.Size.Int64()
		out = append(out, agent.Backup{
			Id:        token,
			Name:      raw.OS,
			Status:    "complete",
			SizeMB:    agent.BytesToMB(sizeBytes),
			OS:        raw.OS,
			MD5:       raw.MD5,
			CreatedAt: time.Unix(raw.Timestamp, 0).UTC(),
		})
	}
	// Newest first; tokens carry no order of their own.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
