package agent

import "time"

// Instance is the normalized view of a vendor VPS/droplet/server.
// It is rebuilt from the vendor's raw payload on every List/Get call;
// the agent layer never patches one in place.
type Instance struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Hostname   string    `json:"hostname"`
	PublicIP   string    `json:"public_ip"`
	InternalIP string    `json:"internal_ip,omitempty"`
	OS         string    `json:"os"`
	RAM        RAM       `json:"ram"`
	Disk       Disk      `json:"disk"`
	Vcpus      int       `json:"vcpus"`
	Location   Location  `json:"location"`
	Status     string    `json:"status"`
	State      RawState  `json:"state"`
	IPv4       IPv4      `json:"ipv4"`
	IPv6       *IPv6     `json:"ipv6,omitempty"`
	Bandwidth  Bandwidth `json:"bandwidth"`

	PendingCharges float64 `json:"pending_charges"`
	CostPerMonth   float64 `json:"cost_per_month"`

	AutoBackups bool     `json:"auto_backups"`
	Firewall    string   `json:"firewall,omitempty"`
	Plan        string   `json:"plan"`
	Region      string   `json:"region"`
	Image       ImageRef `json:"image"`

	// Provider is the vendor id, Account the owning account id. Together
	// with Id they scope the instance; Id alone is not globally unique.
	Provider string `json:"provider"`
	Account  string `json:"account"`

	CreatedAt time.Time `json:"created_at"`
}

// RawState carries the vendor's raw status fields. Opaque to callers;
// the normalized display string lives in Instance.Status.
type RawState struct {
	Status      string `json:"status,omitempty"`
	PowerStatus string `json:"power_status,omitempty"`
	ServerState string `json:"server_state,omitempty"`
}

type RAM struct {
	SizeMB int `json:"size_mb"`
}

type Disk struct {
	SizeGB int    `json:"size_gb"`
	Type   string `json:"type,omitempty"`
}

type Location struct {
	Title  string `json:"title"`
	Region string `json:"region"`
}

type IPv4 struct {
	IP      string `json:"ip"`
	Netmask string `json:"netmask,omitempty"`
	Gateway string `json:"gateway,omitempty"`
}

type IPv6 struct {
	IP          string        `json:"ip"`
	Network     string        `json:"network,omitempty"`
	NetworkSize int           `json:"network_size,omitempty"`
	Networks    []IPv6Network `json:"networks,omitempty"`
}

type IPv6Network struct {
	Network     string `json:"network"`
	NetworkSize int    `json:"network_size"`
}

// Bandwidth usage in GB. Allowed == 0 means the vendor did not report a cap.
type Bandwidth struct {
	CurrentGB float64 `json:"current_gb"`
	AllowedGB float64 `json:"allowed_gb"`
}

type ImageRef struct {
	Id   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// User is the account identity behind a credential. APIKey keeps the
// original key material so the same agent can be reconstructed later.
type User struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	APIKey string `json:"api_key"`
}

// Bill holds normalized billing figures. Both values are non-negative;
// vendors that report balance as a negative credit get the absolute value.
type Bill struct {
	Balance        float64 `json:"balance"`
	PendingCharges float64 `json:"pending_charges"`
}

type SSHKey struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	PublicKey   string    `json:"public_key"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// StatusPending is the normalized status for any vendor snapshot/backup
// operation that is still processing. Every adapter maps its own
// in-progress markers to this literal so callers can treat vendors
// identically.
const StatusPending = "pending"

type Snapshot struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	SizeMB    int       `json:"size_mb"`
	OS        string    `json:"os"`
	CreatedAt time.Time `json:"created_at"`
	Sticky    bool      `json:"sticky,omitempty"`
	Expires   string    `json:"expires,omitempty"`
	MD5       string    `json:"md5,omitempty"`
}

type Backup struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	SizeMB    int       `json:"size_mb"`
	OS        string    `json:"os"`
	CreatedAt time.Time `json:"created_at"`
	MD5       string    `json:"md5,omitempty"`
}

// BackupSchedule configures automatic backups. Only meaningful when the
// instance has AutoBackups enabled.
type BackupSchedule struct {
	Enabled              bool   `json:"enabled"`
	CronType             string `json:"cron_type"`
	NextScheduledTimeUTC string `json:"next_scheduled_time_utc,omitempty"`
	Hour                 int    `json:"hour"`
	Dow                  int    `json:"dow"`
	Dom                  int    `json:"dom"`
}
