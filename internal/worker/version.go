package worker

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the version of the engine RPC protocol.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes to the wire format.
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for fixes that leave the wire format alone.
	ProtocolVersion = "1.0.0"

	// MinCompatibleVersion is the oldest worker protocol this host accepts.
	MinCompatibleVersion = "1.0.0"
)

// Version is a parsed protocol version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a version string in "MAJOR.MINOR.PATCH" format.
func Parse(version string) (Version, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: %s (expected MAJOR.MINOR.PATCH)", version)
	}

	var nums [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid %s version: %s", name, parts[i])
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the string representation of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// IsCompatible checks whether a worker speaking workerVersion can serve
// this host. The major version must match exactly and the worker must not
// predate MinCompatibleVersion; newer minor and patch versions are fine.
func IsCompatible(workerVersion string) (bool, error) {
	w, err := Parse(workerVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse worker version: %w", err)
	}
	current, err := Parse(ProtocolVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse current protocol version: %w", err)
	}
	minimum, err := Parse(MinCompatibleVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse minimum compatible version: %w", err)
	}

	if w.Major != current.Major {
		return false, fmt.Errorf("incompatible major version: worker is %s, huegrid requires %d.x.x", w, current.Major)
	}
	if w.Less(minimum) {
		return false, fmt.Errorf("worker version %s is too old, minimum required is %s", w, minimum)
	}
	return true, nil
}
