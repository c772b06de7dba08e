// internal/database/mode.go
package database

import (
	"fmt"
	"strings"
)

// SyncMode controls how far a schema sync may go when a table already exists.
type SyncMode int

const (
	// SyncVerify only checks that the table exists.
	SyncVerify SyncMode = iota
	// SyncCreateOnly creates missing tables and leaves existing ones untouched.
	SyncCreateOnly
	// SyncAlter creates missing tables and alters existing ones to match the model.
	SyncAlter
)

// syncModeNames is the one place DB_SYNC_MODE values are spelled out.
var syncModeNames = map[SyncMode]string{
	SyncVerify:     "verify",
	SyncCreateOnly: "create",
	SyncAlter:      "alter",
}

func (m SyncMode) String() string {
	if name, ok := syncModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SyncMode(%d)", int(m))
}

// ParseSyncMode accepts "verify", "create" and "alter", in any case.
func ParseSyncMode(s string) (SyncMode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for mode, name := range syncModeNames {
		if name == want {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown sync mode %q (want verify, create or alter)", s)
}

// DefaultSyncMode alters tables in place only in development; every other
// environment, including an unset one, only creates missing tables.
func DefaultSyncMode(env string) SyncMode {
	if env == "development" {
		return SyncAlter
	}
	return SyncCreateOnly
}

// SyncModeFor resolves the mode for a deployment. A non-blank explicit value
// wins over the environment default.
func SyncModeFor(env, explicit string) (SyncMode, error) {
	if strings.TrimSpace(explicit) == "" {
		return DefaultSyncMode(env), nil
	}
	return ParseSyncMode(explicit)
}

// SyncOptions is handed to every per-entity sync call.
type SyncOptions struct {
	Mode SyncMode
}

// Alter reports whether the call may change an existing table.
func (o SyncOptions) Alter() bool {
	return o.Mode == SyncAlter
}
