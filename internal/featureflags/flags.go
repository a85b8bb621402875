package featureflags

import (
	"os"
	"strings"
)

// MembersOnlyReads restricts room detail, member, and booking reads to the
// room's owner and members. Off by default: any authenticated user may read
// any room.
const MembersOnlyReads = "members_only_reads"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
