package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSizeMB(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1024 MB", 1024},
		{"2048MB", 2048},
		{"2 GB", 2048},
		{"", 0},
		{"lots", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSizeMB(tt.in))
		})
	}
}

func TestParseSizeGB(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"25 GB", 25},
		{"Virtual 60 GB", 60},
		{"1024 MB", 1},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSizeGB(tt.in))
		})
	}
}

func TestBytesConversions(t *testing.T) {
	assert.Equal(t, 1024, BytesToMB(1<<30))
	assert.Equal(t, 1, BytesToGB(1<<30))
	assert.Equal(t, 0, BytesToMB(0))
	assert.Equal(t, 0, BytesToGB(-5))
}

func TestAbsBalance(t *testing.T) {
	assert.Equal(t, 12.5, AbsBalance(-12.5))
	assert.Equal(t, 12.5, AbsBalance(12.5))
	assert.Equal(t, 0.0, AbsBalance(0))
}
