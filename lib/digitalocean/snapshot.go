package digitalocean

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// image is the wire shape shared by snapshots and backups; both are
// droplet images vendor-side.
type image struct {
	Id            int64     `json:"id"`
	Name          string    `json:"name"`
	Distribution  string    `json:"distribution"`
	SizeGigabytes float64   `json:"size_gigabytes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// imageStatus folds every not-yet-available vendor state ("new" while
// the image is being taken) into the pending status.
func imageStatus(s string) string {
	if s == "available" {
		return s
	}
	return agent.StatusPending
}

func normalizeSnapshot(img image) agent.Snapshot {
	return agent.Snapshot{
		Id:        strconv.FormatInt(img.Id, 10),
		Name:      img.Name,
		Status:    imageStatus(img.Status),
		SizeMB:    int(img.SizeGigabytes * 1024),
		OS:        img.Distribution,
		CreatedAt: img.CreatedAt,
	}
}

type snapshotService struct {
	client *Client
}

var _ agent.SnapshotService = (*snapshotService)(nil)

// List returns the snapshots of one droplet, or every droplet snapshot
// on the account when instanceId is empty.
func (s *snapshotService) List(ctx context.Context, instanceId string) ([]agent.Snapshot, error) {
	path := fmt.Sprintf("/snapshots?resource_type=droplet&per_page=%d", perPage)
	if instanceId != "" {
		path = "/droplets/" + instanceId + "/snapshots"
	}
	var resp struct {
		Snapshots []image `json:"snapshots"`
	}
	if err := s.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.Snapshots, func(img image, _ int) agent.Snapshot {
		return normalizeSnapshot(img)
	}), nil
}

// Create kicks off a snapshot action. The snapshot id does not exist
// until the action completes, so the action id is returned instead and
// the caller discovers the snapshot through List.
func (s *snapshotService) Create(ctx context.Context, instanceId, name string) (string, error) {
	var resp struct {
		Action struct {
			Id int64 `json:"id"`
		} `json:"action"`
	}
	req := actionRequest{Type: "snapshot", Name: name}
	if err := s.client.post(ctx, "/droplets/"+instanceId+"/actions", req, &resp); err != nil {
		return "", err
	}
	return strconv.FormatInt(resp.Action.Id, 10), nil
}

func (s *snapshotService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/snapshots/"+id)
}

func (s *snapshotService) Restore(ctx context.Context, instanceId, id string) error {
	snapshot, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("snapshot id %q: %w", id, err)
	}
	return s.client.post(ctx, "/droplets/"+instanceId+"/actions",
		actionRequest{Type: "restore", Image: snapshot}, nil)
}

type backupService struct {
	client *Client
}

var _ agent.BackupService = (*backupService)(nil)

// List requires a droplet id; backups are not listable account-wide.
func (s *backupService) List(ctx context.Context, instanceId string) ([]agent.Backup, error) {
	if instanceId == "" {
		return nil, fmt.Errorf("digitalocean account-wide backup listing: %w", agent.ErrNotImplemented)
	}
	var resp struct {
		Backups []image `json:"backups"`
	}
	if err := s.client.get(ctx, "/droplets/"+instanceId+"/backups", &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.Backups, func(img image, _ int) agent.Backup {
		return agent.Backup{
			Id:        strconv.FormatInt(img.Id, 10),
			Name:      img.Name,
			Status:    imageStatus(img.Status),
			SizeMB:    int(img.SizeGigabytes * 1024),
			OS:        img.Distribution,
			CreatedAt: img.CreatedAt,
		}
	}), nil
}
