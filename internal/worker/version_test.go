package worker

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		version     string
		expectError bool
		major       int
		minor       int
		patch       int
	}{
		{"1.0.0", false, 1, 0, 0},
		{"2.5.3", false, 2, 5, 3},
		{"10.99.42", false, 10, 99, 42},
		{"invalid", true, 0, 0, 0},
		{"1", true, 0, 0, 0},
		{"1.2", true, 0, 0, 0},
		{"1.x.0", true, 0, 0, 0},
		{"1.-1.0", true, 0, 0, 0},
	}

	for _, tt := range tests {
		v, err := Parse(tt.version)
		if tt.expectError {
			if err == nil {
				t.Errorf("Parse(%q) expected error but got none", tt.version)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.version, err)
		}
		if v.Major != tt.major || v.Minor != tt.minor || v.Patch != tt.patch {
			t.Errorf("Parse(%q) = %s, want %d.%d.%d", tt.version, v, tt.major, tt.minor, tt.patch)
		}
	}
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		workerVersion string
		compatible    bool
		errorContains string
	}{
		{ProtocolVersion, true, ""},
		{"1.1.0", true, ""},
		{"1.0.7", true, ""},
		{"0.9.0", false, "incompatible major version"},
		{"2.0.0", false, "incompatible major version"},
		{"invalid", false, "failed to parse"},
		{"1.2", false, "invalid version format"},
	}

	for _, tt := range tests {
		compatible, err := IsCompatible(tt.workerVersion)
		if compatible != tt.compatible {
			t.Errorf("IsCompatible(%q) = %v, want %v (err %v)", tt.workerVersion, compatible, tt.compatible, err)
		}
		if tt.errorContains != "" && (err == nil || !strings.Contains(err.Error(), tt.errorContains)) {
			t.Errorf("IsCompatible(%q) error = %v, want error containing %q", tt.workerVersion, err, tt.errorContains)
		}
	}
}
