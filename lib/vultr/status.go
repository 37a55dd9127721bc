package vultr

import "strings"

// Fine-grained server states that mean the machine is still coming up.
// Both force the display status to "Booting" regardless of the coarse
// status.
var bootingStates = map[string]bool{
	"installingbooting": true,
	"isomounting":       true,
}

// deriveStatus folds Vultr's three raw status fields into the one
// display string the rest of the system compares against.
//
// Precedence: the fine-grained server state overrides the coarse
// status, and the two healthy sentinels ("ok", "none") fall through to
// the coarse check. "Resizeing" is the vendor's own irregular spelling
// for the starting transition; other layers compare against the
// literal, so it stays verbatim.
func deriveStatus(status, powerStatus, serverState string) string {
	display := capitalize(powerStatus)

	switch powerStatus {
	case "stopped", "running":
		switch {
		case bootingStates[serverState]:
			display = "Booting"
		case serverState != "ok" && serverState != "none":
			display = capitalize(serverState)
		case status != "active":
			display = "Pending"
		}
	case "starting":
		display = "Resizeing"
	}

	return display
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
