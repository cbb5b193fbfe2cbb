package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// Version identifies a T-SQL grammar generation.
// Later versions accept everything earlier versions accept.
type Version int

// Dialect versions.
const (
	V1 Version = iota + 1 // SQL Server 2000 (Sql80)
	V2                    // SQL Server 2005 (Sql90)
	V3                    // SQL Server 2008 (Sql100)
)

// Default is the version used when none is configured.
const Default = V3

// ErrUnknownVersion is returned by ParseVersion for unrecognized names.
var ErrUnknownVersion = errors.New("unknown dialect version")

// Versions returns all versions, oldest first.
func Versions() []Version {
	return []Version{V1, V2, V3}
}

// String returns the short name (v1, v2, v3).
func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Name returns the registered dialect name for the version.
func (v Version) Name() string {
	switch v {
	case V1:
		return "sql80"
	case V2:
		return "sql90"
	case V3:
		return "sql100"
	default:
		return ""
	}
}

// IsValid reports whether v is a known version.
func (v Version) IsValid() bool {
	return v >= V1 && v <= V3
}

// ParseVersion parses a version name.
// Accepts v1/v2/v3, sql80/sql90/sql100 and 80/90/100, case-insensitively.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "sql80", "80":
		return V1, nil
	case "v2", "sql90", "90":
		return V2, nil
	case "v3", "sql100", "100":
		return V3, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
