package bandwagon

import "encoding/json"

// serviceInfo is the raw shape of getServiceInfo / getLiveServiceInfo.
// Plan sizes arrive as raw byte counts.
type serviceInfo struct {
	VmType                string   `json:"vm_type"`
	Hostname              string   `json:"hostname"`
	NodeIP                string   `json:"node_ip"`
	NodeAlias             string   `json:"node_alias"`
	NodeLocation          string   `json:"node_location"`
	NodeDatacenter        string   `json:"node_datacenter"`
	Plan                  string   `json:"plan"`
	PlanMonthlyData       int64    `json:"plan_monthly_data"`
	MonthlyDataMultiplier int64    `json:"monthly_data_multiplier"`
	PlanDisk              int64    `json:"plan_disk"`
	PlanRAM               int64    `json:"plan_ram"`
	PlanSwap              int64    `json:"plan_swap"`
	OS                    string   `json:"os"`
	Email                 string   `json:"email"`
	DataCounter           int64    `json:"data_counter"`
	DataNextReset         int64    `json:"data_next_reset"`
	IPAddresses           []string `json:"ip_addresses"`
	PrivateIPAddresses    []string `json:"private_ip_addresses"`
	Suspended             bool     `json:"suspended"`

	// Live fields (getLiveServiceInfo only).
	VeStatus        string `json:"ve_status"`
	SSHPort         int    `json:"ssh_port"`
	LiveHostname    string `json:"live_hostname"`
	VeUsedDiskBytes int64  `json:"ve_used_disk_space_b"`
}

// snapshotEntry is one element of snapshot/list. Size is a
// string-encoded byte count of the compressed archive; sticky arrives
// as 0/1 or true/false depending on the panel version.
type snapshotEntry struct {
	FileName     string      `json:"fileName"`
	OS           string      `json:"os"`
	Description  string      `json:"description"`
	Size         json.Number `json:"size"`
	MD5          string      `json:"md5"`
	Sticky       flexBool    `json:"sticky"`
	PurgesInDays json.Number `json:"purgesIn"`
	DownloadLink string      `json:"downloadLink"`
	Uploaded     flexBool    `json:"uploaded"`
}

// backupEntry is one value of the token-keyed backup/list map.
type backupEntry struct {
	Size      json.Number `json:"size"`
	OS        string      `json:"os"`
	MD5       string      `json:"md5"`
	Timestamp int64       `json:"timestamp"`
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1", `"1"`:
		*b = true
	default:
		*b = false
	}
	return nil
}
