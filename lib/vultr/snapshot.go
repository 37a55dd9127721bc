package vultr

import (
	"context"
	"net/url"
	"sort"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

type snapshotService struct {
	client *Client
}

var _ agent.SnapshotService = (*snapshotService)(nil)

// List returns every snapshot on the account. Vultr scopes snapshots
// to the account, not the instance, so instanceId is ignored here.
func (s *snapshotService) List(ctx context.Context, instanceId string) ([]agent.Snapshot, error) {
	keyed := map[string]snapshot{}
	if err := s.client.get(ctx, "/snapshot/list", nil, &keyed); err != nil {
		return nil, err
	}
	out := make([]agent.Snapshot, 0, len(keyed))
	for id, raw := range keyed {
		out = append(out, agent.Snapshot{
			Id:        id,
			Name:      raw.Description,
			Status:    normalizeSnapshotStatus(raw.Status),
			SizeMB:    int(raw.Size),
			OS:        raw.OSID,
			CreatedAt: parseTime(raw.DateCreated),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *snapshotService) Create(ctx context.Context, instanceId, name string) (string, error) {
	form := url.Values{"SUBID": {instanceId}, "description": {name}}
	var created struct {
		SNAPSHOTID string `json:"SNAPSHOTID"`
	}
	if err := s.client.post(ctx, "/snapshot/create", form, &created); err != nil {
		return "", err
	}
	return created.SNAPSHOTID, nil
}

func (s *snapshotService) Delete(ctx context.Context, id string) error {
	return s.client.post(ctx, "/snapshot/destroy", url.Values{"SNAPSHOTID": {id}}, nil)
}

func (s *snapshotService) Restore(ctx context.Context, instanceId, id string) error {
	form := url.Values{"SUBID": {instanceId}, "SNAPSHOTID": {id}}
	return s.client.post(ctx, "/server/restore_snapshot", form, nil)
}

// normalizeSnapshotStatus maps the vendor's in-progress markers to the
// shared "pending" literal; "complete" passes through.
func normalizeSnapshotStatus(status string) string {
	switch status {
	case "complete":
		return status
	default:
		return agent.StatusPending
	}
}

type backupService struct {
	client *Client
}

var _ agent.BackupService = (*backupService)(nil)

// List returns automatic backups. SUBID filters to one instance when
// given.
func (s *backupService) List(ctx context.Context, instanceId string) ([]agent.Backup, error) {
	var query url.Values
	if instanceId != "" {
		query = url.Values{"SUBID": {instanceId}}
	}
	keyed := map[string]backup{}
	if err := s.client.get(ctx, "/backup/list", query, &keyed); err != nil {
		return nil, err
	}
	out := make([]agent.Backup, 0, len(keyed))
	for id, raw := range keyed {
		out = append(out, agent.Backup{
			Id:        id,
			Name:      raw.Description,
			Status:    normalizeSnapshotStatus(raw.Status),
			SizeMB:    int(raw.Size),
			CreatedAt: parseTime(raw.DateCreated),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}
