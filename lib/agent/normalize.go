package agent

import (
	"math"
	"strings"

	"github.com/c2h5oh/datasize"
)

// ParseSizeMB parses a vendor size string ("1024 MB", "2048MB", "2 GB")
// into whole megabytes. Returns 0 for anything unparseable; vendor size
// strings are display text first and data second.
func ParseSizeMB(s string) int {
	v, ok := parseSize(s)
	if !ok {
		return 0
	}
	return int(v.MBytes())
}

// ParseSizeGB parses a vendor size string into whole gigabytes.
// Qualifiers like Vultr's "Virtual 25 GB" are stripped first.
func ParseSizeGB(s string) int {
	v, ok := parseSize(s)
	if !ok {
		return 0
	}
	return int(v.GBytes())
}

// BytesToMB converts a raw byte count (Bandwagon reports plan sizes in
// bytes) into whole megabytes, rounding to nearest.
func BytesToMB(b int64) int {
	if b <= 0 {
		return 0
	}
	return int(math.Round(float64(b) / float64(datasize.MB)))
}

// BytesToGB converts a raw byte count into whole gigabytes, rounding
// to nearest.
func BytesToGB(b int64) int {
	if b <= 0 {
		return 0
	}
	return int(math.Round(float64(b) / float64(datasize.GB)))
}

func parseSize(s string) (datasize.ByteSize, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	// Walk from the end so a leading qualifier ("Virtual 25 GB") is
	// skipped: the size is the last "<number> <unit>" or "<number><unit>"
	// run in the string.
	for i := 0; i < len(fields); i++ {
		candidate := strings.Join(fields[i:], " ")
		var v datasize.ByteSize
		if err := v.UnmarshalText([]byte(candidate)); err == nil {
			return v, true
		}
	}
	return 0, false
}

// AbsBalance normalizes a vendor-reported balance. Vultr reports the
// account balance as a negative "credit owed" figure; the UI contract
// wants non-negative numbers everywhere.
func AbsBalance(v float64) float64 {
	return math.Abs(v)
}
