package orchestrator

import (
	"strings"

	"internmatch/internal/domain/identity"
)

// DisplayName picks a human-readable name for a freshly provisioned account.
// Social providers disagree on which metadata keys carry the name: full_name
// wins outright, then name and preferred_username joined together, then the
// email local part.
func DisplayName(meta identity.Metadata, email string) string {
	if v := strings.TrimSpace(meta.Get("full_name")); v != "" {
		return v
	}
	joined := strings.TrimSpace(strings.TrimSpace(meta.Get("name")) + " " + strings.TrimSpace(meta.Get("preferred_username")))
	if joined != "" {
		return joined
	}
	if local, _, found := strings.Cut(email, "@"); found && strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return "User"
}
