package vultr

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// The v1 API is loose about numeric typing: "vcpu_count" arrives as a
// string, "current_bandwidth_gb" as a number, "cost_per_month" as a
// string-encoded decimal. flexFloat and flexInt accept either encoding.

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var v flexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// server is the raw wire shape of one entry in /server/list.
type server struct {
	SUBID         string      `json:"SUBID"`
	Label         string      `json:"label"`
	OS            string      `json:"os"`
	RAM           string      `json:"ram"`
	Disk          string      `json:"disk"`
	VcpuCount     flexInt     `json:"vcpu_count"`
	Location      string      `json:"location"`
	DCID          string      `json:"DCID"`
	MainIP        string      `json:"main_ip"`
	InternalIP    string      `json:"internal_ip"`
	NetmaskV4     string      `json:"netmask_v4"`
	GatewayV4     string      `json:"gateway_v4"`
	V6MainIP      string      `json:"v6_main_ip"`
	V6Network     string      `json:"v6_network"`
	V6NetworkSize flexInt     `json:"v6_network_size"`
	V6Networks    []v6Network `json:"v6_networks"`

	Status      string `json:"status"`
	PowerStatus string `json:"power_status"`
	ServerState string `json:"server_state"`

	PendingCharges     flexFloat `json:"pending_charges"`
	CostPerMonth       flexFloat `json:"cost_per_month"`
	CurrentBandwidthGB flexFloat `json:"current_bandwidth_gb"`
	AllowedBandwidthGB flexFloat `json:"allowed_bandwidth_gb"`

	AutoBackups     string `json:"auto_backups"`
	FirewallGroupID string `json:"FIREWALLGROUPID"`
	VPSPlanID       string `json:"VPSPLANID"`
	OSID            string `json:"OSID"`
	Tag             string `json:"tag"`
	DateCreated     string `json:"date_created"`
}

type v6Network struct {
	V6Network     string  `json:"v6_network"`
	V6MainIP      string  `json:"v6_main_ip"`
	V6NetworkSize flexInt `json:"v6_network_size"`
}

type snapshot struct {
	SNAPSHOTID  string  `json:"SNAPSHOTID"`
	DateCreated string  `json:"date_created"`
	Description string  `json:"description"`
	Size        flexInt `json:"size"`
	Status      string  `json:"status"`
	OSID        string  `json:"OSID"`
	APPID       string  `json:"APPID"`
}

type backup struct {
	BACKUPID    string  `json:"BACKUPID"`
	DateCreated string  `json:"date_created"`
	Description string  `json:"description"`
	Size        flexInt `json:"size"`
	Status      string  `json:"status"`
}

type sshkey struct {
	SSHKEYID    string `json:"SSHKEYID"`
	Name        string `json:"name"`
	SSHKey      string `json:"ssh_key"`
	DateCreated string `json:"date_created"`
}

type backupSchedule struct {
	Enabled              bool    `json:"enabled"`
	CronType             string  `json:"cron_type"`
	NextScheduledTimeUTC string  `json:"next_scheduled_time_utc"`
	Hour                 flexInt `json:"hour"`
	Dow                  flexInt `json:"dow"`
	Dom                  flexInt `json:"dom"`
}

type authInfo struct {
	Email string          `json:"email"`
	Name  string          `json:"name"`
	ACLs  json.RawMessage `json:"acls"`
}

type accountInfo struct {
	Balance           flexFloat `json:"balance"`
	PendingCharges    flexFloat `json:"pending_charges"`
	LastPaymentDate   string    `json:"last_payment_date"`
	LastPaymentAmount flexFloat `json:"last_payment_amount"`
}

// parseTime parses the v1 timestamp format ("2017-04-12 18:45:41").
// Zero time on anything unparseable; timestamps are advisory.
func parseTime(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
