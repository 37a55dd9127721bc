package digitalocean

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// droplet is the raw wire shape of one droplet.
type droplet struct {
	Id       int64    `json:"id"`
	Name     string   `json:"name"`
	Memory   int      `json:"memory"`
	Vcpus    int      `json:"vcpus"`
	Disk     int      `json:"disk"`
	Locked   bool     `json:"locked"`
	Status   string   `json:"status"`
	Features []string `json:"features"`
	Region   struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	} `json:"region"`
	Image struct {
		Id           int64  `json:"id"`
		Distribution string `json:"distribution"`
		Name         string `json:"name"`
	} `json:"image"`
	Size struct {
		PriceMonthly float64 `json:"price_monthly"`
		Transfer     float64 `json:"transfer"`
	} `json:"size"`
	SizeSlug string `json:"size_slug"`
	Networks struct {
		V4 []network `json:"v4"`
		V6 []network `json:"v6"`
	} `json:"networks"`
	CreatedAt time.Time `json:"created_at"`
}

type network struct {
	IPAddress string `json:"ip_address"`
	Netmask   any    `json:"netmask"` // string for v4, int prefix for v6
	Gateway   string `json:"gateway"`
	Type      string `json:"type"` // public | private
}

type dropletService struct {
	client *Client
}

var _ agent.InstanceService = (*dropletService)(nil)

func (s *dropletService) List(ctx context.Context) ([]agent.Instance, error) {
	var all []droplet
	for page := 1; ; page++ {
		var resp struct {
			Droplets []droplet `json:"droplets"`
			Links    struct {
				Pages struct {
					Next string `json:"next"`
				} `json:"pages"`
			} `json:"links"`
		}
		path := fmt.Sprintf("/droplets?page=%d&per_page=%d", page, perPage)
		if err := s.client.get(ctx, path, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Droplets...)
		if resp.Links.Pages.Next == "" {
			break
		}
	}
	return lo.Map(all, func(d droplet, _ int) agent.Instance {
		return s.normalize(d)
	}), nil
}

func (s *dropletService) Get(ctx context.Context, id string) (*agent.Instance, error) {
	var resp struct {
		Droplet droplet `json:"droplet"`
	}
	if err := s.client.get(ctx, "/droplets/"+id, &resp); err != nil {
		return nil, err
	}
	inst := s.normalize(resp.Droplet)
	return &inst, nil
}

func (s *dropletService) normalize(d droplet) agent.Instance {
	inst := agent.Instance{
		Id:       strconv.FormatInt(d.Id, 10),
		Name:     d.Name,
		Hostname: d.Name,
		OS:       d.Image.Distribution + " " + d.Image.Name,
		RAM:      agent.RAM{SizeMB: d.Memory},
		Disk:     agent.Disk{SizeGB: d.Disk, Type: "SSD"},
		Vcpus:    d.Vcpus,
		Location: agent.Location{
			Title:  d.Region.Name,
			Region: d.Region.Slug,
		},
		Status: deriveStatus(d.Status, d.Locked),
		State: agent.RawState{
			Status: d.Status,
		},
		Bandwidth: agent.Bandwidth{
			// Transfer allowance is reported in TB.
			AllowedGB: d.Size.Transfer * 1000,
		},
		CostPerMonth: d.Size.PriceMonthly,
		AutoBackups:  lo.Contains(d.Features, "backups"),
		Plan:         d.SizeSlug,
		Region:       d.Region.Slug,
		Image:        agent.ImageRef{Id: strconv.FormatInt(d.Image.Id, 10), Type: "image"},
		Provider:     ProviderId,
		Account:      s.client.AccountId(),
		CreatedAt:    d.CreatedAt,
	}

	for _, n := range d.Networks.V4 {
		switch n.Type {
		case "public":
			if inst.PublicIP == "" {
				inst.PublicIP = n.IPAddress
				netmask, _ := n.Netmask.(string)
				inst.IPv4 = agent.IPv4{IP: n.IPAddress, Netmask: netmask, Gateway: n.Gateway}
			}
		case "private":
			if inst.InternalIP == "" {
				inst.InternalIP = n.IPAddress
			}
		}
	}
	for _, n := range d.Networks.V6 {
		if n.Type == "public" && inst.IPv6 == nil {
			size := 0
			if f, ok := n.Netmask.(float64); ok {
				size = int(f)
			}
			inst.IPv6 = &agent.IPv6{IP: n.IPAddress, NetworkSize: size}
		}
	}
	return inst
}

// deriveStatus maps droplet status to the shared display strings.
// A locked droplet is mid-operation regardless of its power state.
func deriveStatus(status string, locked bool) string {
	if locked {
		return "Pending"
	}
	switch status {
	case "active":
		return "Running"
	case "off":
		return "Stopped"
	case "new":
		return "Pending"
	case "archive":
		return "Archived"
	default:
		if status == "" {
			return "Pending"
		}
		return strings.ToUpper(status[:1]) + status[1:]
	}
}

type actionRequest struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Image any    `json:"image,omitempty"`
}

func (s *dropletService) action(ctx context.Context, id string, req actionRequest) error {
	return s.client.post(ctx, "/droplets/"+id+"/actions", req, nil)
}

func (s *dropletService) Start(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "power_on"})
}

func (s *dropletService) Stop(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "shutdown"})
}

func (s *dropletService) Restart(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "reboot"})
}

// Reboot power-cycles; Restart asks the guest nicely first.
func (s *dropletService) Reboot(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "power_cycle"})
}

func (s *dropletService) Destroy(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/droplets/"+id)
}

// Reinstall rebuilds the droplet from its current image.
func (s *dropletService) Reinstall(ctx context.Context, id string) error {
	var resp struct {
		Droplet droplet `json:"droplet"`
	}
	if err := s.client.get(ctx, "/droplets/"+id, &resp); err != nil {
		return err
	}
	return s.action(ctx, id, actionRequest{Type: "rebuild", Image: resp.Droplet.Image.Id})
}

func (s *dropletService) SetLabel(ctx context.Context, id, label string) error {
	return s.action(ctx, id, actionRequest{Type: "rename", Name: label})
}

func (s *dropletService) SetTag(ctx context.Context, id, tag string) error {
	payload := struct {
		Resources []struct {
			ResourceId   string `json:"resource_id"`
			ResourceType string `json:"resource_type"`
		} `json:"resources"`
	}{
		Resources: []struct {
			ResourceId   string `json:"resource_id"`
			ResourceType string `json:"resource_type"`
		}{{ResourceId: id, ResourceType: "droplet"}},
	}
	return s.client.post(ctx, "/tags/"+tag+"/resources", payload, nil)
}

func (s *dropletService) EnableBackups(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "enable_backups"})
}

func (s *dropletService) DisableBackups(ctx context.Context, id string) error {
	return s.action(ctx, id, actionRequest{Type: "disable_backups"})
}

// BackupSchedule is fixed vendor-side (weekly window); there is
// nothing to read or write through the public API.
func (s *dropletService) BackupSchedule(ctx context.Context, id string) (*agent.BackupSchedule, error) {
	return nil, fmt.Errorf("digitalocean backup schedule: %w", agent.ErrNotImplemented)
}

func (s *dropletService) SetBackupSchedule(ctx context.Context, id string, _ agent.BackupSchedule) error {
	return fmt.Errorf("digitalocean backup schedule: %w", agent.ErrNotImplemented)
}

func (s *dropletService) RestoreBackup(ctx context.Context, id, backupId string) error {
	backup, err := strconv.ParseInt(backupId, 10, 64)
	if err != nil {
		return fmt.Errorf("backup id %q: %w", backupId, err)
	}
	return s.action(ctx, id, actionRequest{Type: "restore", Image: backup})
}
